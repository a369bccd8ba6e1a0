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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livelink/pkg/errors"
)

func TestTakeNextPendingInCreationOrder(t *testing.T) {
	h := NewRequestHandler[string, int]()
	p1 := h.CreatePendingRequest("cam-query", 1)
	p2 := h.CreatePendingRequest("cam-query", 2)

	got, err := h.TakeNextPending("cam-query")
	require.NoError(t, err)
	assert.Same(t, p1, got)

	got, err = h.TakeNextPending("cam-query")
	require.NoError(t, err)
	assert.Same(t, p2, got)

	_, err = h.TakeNextPending("cam-query")
	assert.ErrorIs(t, err, errors.ErrNoPendingRequest)
}

func TestTakeNextPendingUnknownChannel(t *testing.T) {
	h := NewRequestHandler[string, int]()
	_, err := h.TakeNextPending("nope")
	assert.ErrorIs(t, err, errors.ErrNoPendingRequest)
	assert.Equal(t, 0, h.Pending("nope"))
}

func TestChannelsAreIndependent(t *testing.T) {
	h := NewRequestHandler[string, string]()
	a1 := h.CreatePendingRequest("a", "a1")
	b1 := h.CreatePendingRequest("b", "b1")
	a2 := h.CreatePendingRequest("a", "a2")

	p, err := h.TakeNextPending("b")
	require.NoError(t, err)
	assert.Same(t, b1, p)
	assert.Equal(t, 2, h.Pending("a"))
	assert.Equal(t, 0, h.Pending("b"))
	assert.Equal(t, []string{"a"}, h.Channels())

	p, _ = h.TakeNextPending("a")
	assert.Same(t, a1, p)
	p, _ = h.TakeNextPending("a")
	assert.Same(t, a2, p)
	assert.Empty(t, h.Channels())
}

func TestResolveNext(t *testing.T) {
	h := NewRequestHandler[int, string]()
	p := h.CreatePendingRequest(3, "meta")

	err := h.ResolveNext(3, func(p *PendingRequest[string]) (interface{}, error) {
		return p.Metadata() + "-resp", nil
	})
	require.NoError(t, err)
	v, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "meta-resp", v)

	err = h.ResolveNext(3, func(*PendingRequest[string]) (interface{}, error) {
		t.Fatal("decode called without a pending request")
		return nil, nil
	})
	assert.ErrorIs(t, err, errors.ErrNoPendingRequest)
}

func TestResolveNextDecodeErrorRejects(t *testing.T) {
	h := NewRequestHandler[int, int]()
	p := h.CreatePendingRequest(0, 0)
	next := h.CreatePendingRequest(0, 1)
	decodeErr := fmt.Errorf("truncated")

	err := h.ResolveNext(0, func(*PendingRequest[int]) (interface{}, error) {
		return nil, decodeErr
	})
	assert.Same(t, decodeErr, err)
	require.True(t, p.IsDone())
	_, err = p.Wait(context.Background())
	assert.Same(t, decodeErr, err)

	// the next response goes to the next request
	assert.False(t, next.IsDone())
	assert.Equal(t, 1, h.Pending(0))
}

func TestSendRequestFailureRemovesRequest(t *testing.T) {
	h := NewRequestHandler[int, int]()
	sendErr := fmt.Errorf("broken pipe")
	p, err := h.SendRequest(1, 7, func() error { return sendErr })
	assert.Same(t, sendErr, err)
	assert.Equal(t, 0, h.Pending(1))
	_, err = p.Wait(context.Background())
	assert.Same(t, sendErr, err)
}

func TestSendRequestKeepsWireOrder(t *testing.T) {
	h := NewRequestHandler[int, int]()
	const n = 64
	var (
		mu   sync.Mutex
		wire []int
		wg   sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.SendRequest(0, i, func() error {
				mu.Lock()
				wire = append(wire, i)
				mu.Unlock()
				return nil
			})
		}(i)
	}
	wg.Wait()
	require.Len(t, wire, n)
	for _, id := range wire {
		p, err := h.TakeNextPending(0)
		require.NoError(t, err)
		assert.Equal(t, id, p.Metadata())
	}
}

func TestTimedOutRequestStaysQueued(t *testing.T) {
	h := NewRequestHandler[int, int]()
	p := h.CreatePendingRequest(0, 0)
	next := h.CreatePendingRequest(0, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Wait(ctx)
	assert.ErrorIs(t, err, errors.ErrRequestTimeout)
	assert.Equal(t, 2, h.Pending(0))

	// late response for p is consumed and dropped
	require.NoError(t, h.ResolveNext(0, func(*PendingRequest[int]) (interface{}, error) { return "late", nil }))
	require.NoError(t, h.ResolveNext(0, func(*PendingRequest[int]) (interface{}, error) { return "fresh", nil }))
	v, err := next.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestWaitCanceled(t *testing.T) {
	p := newPendingRequest(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, stderrors.Is(err, errors.ErrRequestTimeout))
}

func TestCompleteOnce(t *testing.T) {
	p := newPendingRequest("m")
	assert.True(t, p.Resolve(1))
	assert.False(t, p.Resolve(2))
	assert.False(t, p.Reject(fmt.Errorf("late")))
	v, err := p.Wait(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.False(t, p.TimeSent().IsZero())
}

func TestRejectNil(t *testing.T) {
	p := newPendingRequest(0)
	p.Reject(nil)
	_, err := p.Wait(context.Background())
	assert.Error(t, err)
}

func TestAwait(t *testing.T) {
	type result struct{ X int }

	p := newPendingRequest(0)
	p.Resolve(result{X: 1})
	r, err := Await[result](context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 1, r.X)

	p = newPendingRequest(0)
	p.Resolve(&result{X: 2})
	r, err = Await[result](context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 2, r.X)

	p = newPendingRequest(0)
	p.Resolve("wrong")
	_, err = Await[result](context.Background(), p)
	assert.Error(t, err)
}

func TestDrain(t *testing.T) {
	h := NewRequestHandler[int, int]()
	var list []*PendingRequest[int]
	for ch := 0; ch < 3; ch++ {
		list = append(list, h.CreatePendingRequest(ch, ch), h.CreatePendingRequest(ch, ch))
	}
	assert.Equal(t, 6, h.Drain(errors.ErrConnectionClosed))
	for _, p := range list {
		_, err := p.Wait(context.Background())
		assert.ErrorIs(t, err, errors.ErrConnectionClosed)
	}
	assert.Empty(t, h.Channels())
	assert.Equal(t, 0, h.Drain(errors.ErrConnectionClosed))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&IOError{Err: fmt.Errorf("reset")}))
	assert.True(t, IsRetryable(fmt.Errorf("send: %w", &IOError{Err: fmt.Errorf("reset")})))
	assert.False(t, IsRetryable(NewErrorWithString("bad")))
	assert.False(t, IsRetryable(fmt.Errorf("plain")))
	assert.False(t, IsRetryable(nil))
}
