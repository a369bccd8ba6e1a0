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
	"fmt"
	"sync"
	"time"

	"livelink/pkg/errors"
)

// PendingRequest is a request that has been sent and is waiting for its
// response. It completes exactly once, with either a value or an error;
// later completions are ignored and reported as such.
type PendingRequest[M any] struct {
	meta     M
	timeSent time.Time
	once     sync.Once
	done     chan struct{}
	value    interface{}
	err      error
}

func newPendingRequest[M any](meta M) *PendingRequest[M] {
	return &PendingRequest[M]{
		meta:     meta,
		timeSent: time.Now(),
		done:     make(chan struct{}),
	}
}

func (p *PendingRequest[M]) Metadata() M {
	return p.meta
}

func (p *PendingRequest[M]) TimeSent() time.Time {
	return p.timeSent
}

func (p *PendingRequest[M]) complete(v interface{}, err error) (ok bool) {
	p.once.Do(func() {
		p.value = v
		p.err = err
		close(p.done)
		ok = true
	})
	return
}

// Resolve fulfills the request with v. It returns false if the request was
// already completed, e.g. its waiter gave up.
func (p *PendingRequest[M]) Resolve(v interface{}) bool {
	return p.complete(v, nil)
}

func (p *PendingRequest[M]) Reject(err error) bool {
	if err == nil {
		err = fmt.Errorf("rejected with nil error")
	}
	return p.complete(nil, err)
}

func (p *PendingRequest[M]) Done() <-chan struct{} {
	return p.done
}

func (p *PendingRequest[M]) IsDone() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the request completes or ctx is done. When ctx wins,
// the request is rejected with ErrRequestTimeout (deadline) or the context
// error, but it stays queued on its channel: the late response is still
// consumed in order and then dropped.
func (p *PendingRequest[M]) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-p.done:
	case <-ctx.Done():
		err := ctx.Err()
		if err == context.DeadlineExceeded {
			err = errors.ErrRequestTimeout.Wrap("elapsed=%v", time.Since(p.timeSent))
		}
		p.Reject(err)
	}
	<-p.done
	return p.value, p.err
}

// Await waits for p and asserts its value to T.
func Await[T any, M any](ctx context.Context, p *PendingRequest[M]) (res T, err error) {
	var v interface{}
	if v, err = p.Wait(ctx); err != nil {
		return
	}
	switch r := v.(type) {
	case T:
		res = r
	case *T:
		res = *r
	default:
		err = fmt.Errorf("unexpected response type %T", v)
	}
	return
}
