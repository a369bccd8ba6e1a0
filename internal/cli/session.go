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
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	"livelink/pkg/errors"
	"livelink/pkg/proto"
	"livelink/pkg/util"
)

// FrameConn is a message oriented connection carrying one frame per message.
type FrameConn interface {
	ReadFrame() ([]byte, error)
	WriteFrame(b []byte) error
	Close() error
}

type SessionOptions struct {
	// RequestTimeout bounds requests whose context has no deadline. Zero
	// means no bound.
	RequestTimeout time.Duration
	// Payloads of at least CompressThreshold bytes are snappy compressed.
	// Zero disables compression.
	CompressThreshold int
	// OnFrame receives frames the server pushed without being asked.
	OnFrame func(f *proto.Frame)
}

// requestInfo is the metadata attached to each pending request.
type requestInfo struct {
	channel proto.ChannelID
	decode  func(b []byte) (interface{}, error)
}

// Session owns the codec side and the request correlation of one gateway
// connection. A new connection needs a new Session.
type Session struct {
	conn    FrameConn
	opts    SessionOptions
	handler *RequestHandler[proto.ChannelID, *requestInfo]
	stats   *Stats

	writeMu   sync.Mutex
	closeOnce sync.Once
	chDone    chan struct{}
	errMu     sync.Mutex
	err       error
}

func NewSession(conn FrameConn, opts SessionOptions) *Session {
	s := &Session{
		conn:    conn,
		opts:    opts,
		handler: NewRequestHandler[proto.ChannelID, *requestInfo](),
		stats:   newStats(),
		chDone:  make(chan struct{}),
	}
	go s.readLoop()
	return s
}

func (s *Session) Done() <-chan struct{} {
	return s.chDone
}

// Err returns why the session ended, or nil while it is running.
func (s *Session) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *Session) Stats() map[proto.ChannelID]LatencySummary {
	return s.stats.Snapshot()
}

func (s *Session) PendingRequests(ch proto.ChannelID) int {
	return s.handler.Pending(ch)
}

func (s *Session) Close() error {
	s.shutdown(errors.ErrConnectionClosed)
	return nil
}

// shutdown closes the connection once and fails every pending request with
// reason so no waiter is left hanging.
func (s *Session) shutdown(reason error) {
	s.closeOnce.Do(func() {
		s.errMu.Lock()
		s.err = reason
		s.errMu.Unlock()
		close(s.chDone)
		if err := s.conn.Close(); err != nil {
			glog.V(2).Infof("close: %s", err)
		}
		s.handler.Drain(reason)
	})
}

func (s *Session) isClosed() bool {
	select {
	case <-s.chDone:
		return true
	default:
		return false
	}
}

func (s *Session) write(b []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.isClosed() {
		return s.Err()
	}
	if err := s.conn.WriteFrame(b); err != nil {
		go s.shutdown(errors.ErrConnectionClosed.Wrap("write: %s", err))
		return &IOError{Err: err}
	}
	return nil
}

func encodeFrame[T any](s *Session, ch proto.ChannelID, c proto.Codec[T], v *T) (b []byte, pool util.BytePool, err error) {
	sz := proto.FrameHeaderSize + c.Size(v)
	b, pool = util.GetBuffer(sz)
	if _, err = proto.EncodeMessageFrame(b, ch, 0, c, v); err != nil {
		util.PutBuffer(pool, b)
		return nil, nil, err
	}
	if s.opts.CompressThreshold > 0 && sz-proto.FrameHeaderSize >= s.opts.CompressThreshold {
		f := proto.Frame{Payload: b[proto.FrameHeaderSize:]}
		f.Channel = ch
		f.Compress(s.opts.CompressThreshold)
		if f.Flags.IsCompressed() {
			compressed := f.Bytes()
			util.PutBuffer(pool, b)
			return compressed, nil, nil
		}
	}
	return
}

// Send encodes v and sends it on ch without expecting a response.
func Send[T any](s *Session, ch proto.ChannelID, c proto.Codec[T], v *T) error {
	b, pool, err := encodeFrame(s, ch, c, v)
	if err != nil {
		return err
	}
	defer util.PutBuffer(pool, b)
	return s.write(b)
}

// Request sends req on ch and waits for the response, decoded with respCodec.
func Request[Req any, Resp any](ctx context.Context, s *Session, ch proto.ChannelID,
	reqCodec proto.Codec[Req], req *Req, respCodec proto.Codec[Resp]) (resp Resp, err error) {

	b, pool, err := encodeFrame(s, ch, reqCodec, req)
	if err != nil {
		return
	}
	defer util.PutBuffer(pool, b)

	info := &requestInfo{
		channel: ch,
		decode: func(payload []byte) (interface{}, error) {
			v, _, err := respCodec.Decode(payload, 0)
			return v, err
		},
	}
	p, err := s.handler.SendRequest(ch, info, func() error { return s.write(b) })
	if err != nil {
		return
	}
	if _, ok := ctx.Deadline(); !ok && s.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()
	}
	return Await[Resp](ctx, p)
}

func (s *Session) readLoop() {
	for {
		raw, err := s.conn.ReadFrame()
		if err != nil {
			if !s.isClosed() {
				glog.V(2).Infof("reader exits: %s", err)
				s.shutdown(errors.ErrConnectionClosed.Wrap("%s", err))
			}
			return
		}
		if err = s.onFrame(raw); err != nil {
			glog.Warningf("%s", err)
			if stderrors.Is(err, errors.ErrNoPendingRequest) {
				err = errors.ErrConnectionDesync.Wrap("%s", err)
			}
			if stderrors.Is(err, errors.ErrConnectionDesync) {
				s.shutdown(err)
				return
			}
		}
	}
}

// onFrame handles one inbound frame. A response no request is waiting for
// (ErrNoPendingRequest) or a frame that cannot be parsed means the channels
// can no longer be trusted. A response that fails to decode only fails the
// request it answers.
func (s *Session) onFrame(raw []byte) error {
	f, err := proto.DecodeFrame(raw)
	if err != nil {
		return errors.ErrConnectionDesync.Wrap("bad frame: %s", err)
	}
	if !f.Flags.IsResponse() {
		if s.opts.OnFrame != nil {
			s.opts.OnFrame(&f)
		} else {
			glog.V(2).Infof("skipping unsolicited frame. %s", f.FrameHeader.String())
		}
		return nil
	}
	return s.handler.ResolveNext(f.Channel, func(p *PendingRequest[*requestInfo]) (interface{}, error) {
		s.stats.record(f.Channel, time.Since(p.TimeSent()))
		v, err := p.Metadata().decode(f.Payload)
		if err != nil {
			return nil, fmt.Errorf("decode %s response: %w", f.Channel, err)
		}
		return v, nil
	})
}
