//
//  Copyright 2023 PayPal Inc.
//
//  Licensed to the Apache Software Foundation (ASF) under one or more
//  contributor license agreements.  See the NOTICE file distributed with
//  this work for additional information regarding copyright ownership.
//  The ASF licenses this file to You under the Apache License, Version 2.0
//  (the "License"); you may not use this file except in compliance with
//  the License.  You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

package cli

import (
	"sync"

	"github.com/golang/glog"

	"livelink/pkg/errors"
)

// SequentialChannel is the queue of pending requests of one logical channel.
//
// The server answers the requests of a channel strictly in the order they
// were sent, and responses carry no request id. The oldest queued request is
// therefore the one the next response on the channel belongs to. Requests on
// one channel must be sent through SendRequest (or CreatePendingRequest
// called in send order); queue order is the only correlation there is.
type SequentialChannel[M any] struct {
	sendMu sync.Mutex // serializes enqueue+send so queue order == wire order
	mu     sync.Mutex
	queue  []*PendingRequest[M]
}

func (c *SequentialChannel[M]) push(p *PendingRequest[M]) {
	c.mu.Lock()
	c.queue = append(c.queue, p)
	c.mu.Unlock()
}

func (c *SequentialChannel[M]) pop() (p *PendingRequest[M]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return nil
	}
	p = c.queue[0]
	c.queue[0] = nil
	c.queue = c.queue[1:]
	return
}

func (c *SequentialChannel[M]) remove(p *PendingRequest[M]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.queue) - 1; i >= 0; i-- {
		if c.queue[i] == p {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			return true
		}
	}
	return false
}

func (c *SequentialChannel[M]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

func (c *SequentialChannel[M]) drain() (queue []*PendingRequest[M]) {
	c.mu.Lock()
	queue = c.queue
	c.queue = nil
	c.mu.Unlock()
	return
}

// RequestHandler correlates responses with the requests they answer, one
// FIFO per channel. Channels are independent and locked separately.
type RequestHandler[C comparable, M any] struct {
	mu       sync.RWMutex
	channels map[C]*SequentialChannel[M]
}

func NewRequestHandler[C comparable, M any]() *RequestHandler[C, M] {
	return &RequestHandler[C, M]{
		channels: make(map[C]*SequentialChannel[M]),
	}
}

func (h *RequestHandler[C, M]) channel(ch C, create bool) *SequentialChannel[M] {
	h.mu.RLock()
	c, found := h.channels[ch]
	h.mu.RUnlock()
	if found || !create {
		return c
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if c, found = h.channels[ch]; !found {
		c = &SequentialChannel[M]{}
		h.channels[ch] = c
	}
	return c
}

// CreatePendingRequest queues a new pending request on ch. It must be called
// before the response can possibly arrive, i.e. no later than right after the
// request bytes are handed to the transport.
func (h *RequestHandler[C, M]) CreatePendingRequest(ch C, meta M) *PendingRequest[M] {
	p := newPendingRequest(meta)
	h.channel(ch, true).push(p)
	return p
}

// SendRequest queues a pending request on ch and calls send while holding
// the channel's send lock, so concurrent senders on one channel cannot
// reorder the queue relative to the wire. If send fails the request is
// removed from the queue and rejected with the send error.
func (h *RequestHandler[C, M]) SendRequest(ch C, meta M, send func() error) (*PendingRequest[M], error) {
	c := h.channel(ch, true)
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	p := newPendingRequest(meta)
	c.push(p)
	if err := send(); err != nil {
		c.remove(p)
		p.Reject(err)
		return p, err
	}
	return p, nil
}

// TakeNextPending removes and returns the oldest pending request of ch. An
// empty or unknown channel means the peer sent a response nobody asked for;
// the channel is out of sync and ErrNoPendingRequest is returned.
func (h *RequestHandler[C, M]) TakeNextPending(ch C) (*PendingRequest[M], error) {
	if c := h.channel(ch, false); c != nil {
		if p := c.pop(); p != nil {
			return p, nil
		}
	}
	return nil, errors.ErrNoPendingRequest.Wrap("channel=%v", ch)
}

// ResolveNext takes the oldest pending request of ch and completes it with
// the result of decode. The taken request is always completed: rejected
// with the decode error if decode fails. The decode error is also returned.
func (h *RequestHandler[C, M]) ResolveNext(ch C, decode func(p *PendingRequest[M]) (interface{}, error)) error {
	p, err := h.TakeNextPending(ch)
	if err != nil {
		return err
	}
	v, err := decode(p)
	if err != nil {
		p.Reject(err)
		return err
	}
	if !p.Resolve(v) {
		glog.V(2).Infof("dropping response for completed request. channel=%v", ch)
	}
	return nil
}

func (h *RequestHandler[C, M]) Pending(ch C) int {
	if c := h.channel(ch, false); c != nil {
		return c.len()
	}
	return 0
}

// Channels returns the channels that currently have pending requests.
func (h *RequestHandler[C, M]) Channels() (list []C) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch, c := range h.channels {
		if c.len() != 0 {
			list = append(list, ch)
		}
	}
	return
}

// Drain empties every channel and rejects all pending requests with err. It
// returns the number of requests that were still queued.
func (h *RequestHandler[C, M]) Drain(err error) (n int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.channels {
		for _, p := range c.drain() {
			p.Reject(err)
			n++
		}
	}
	if n != 0 {
		glog.V(2).Infof("%d pending request(s) cleared: %s", n, err)
	}
	return
}
