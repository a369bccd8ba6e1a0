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

package util

import (
	"sync"
)

type BytePool interface {
	Get() []byte
	Put([]byte)
}

// sync.Pool based byte slice pool
type SyncBytePool struct {
	pool sync.Pool
	size int
}

func NewSyncBytePool(size int) BytePool {
	p := &SyncBytePool{size: size}
	p.pool.New = func() interface{} { return make([]byte, size) }
	return p
}

func (p *SyncBytePool) Get() []byte {
	item := p.pool.Get()
	buf, ok := item.([]byte)
	if !ok {
		buf = make([]byte, p.size)
	}
	return buf
}

func (p *SyncBytePool) Put(buf []byte) {
	if cap(buf) < p.size {
		return
	}
	p.pool.Put(buf[:p.size])
}

// channel based byte slice pool
type ChanBytePool struct {
	poolCh chan []byte
	size   int
}

func NewChanBytePool(chansize int, bytesize int) BytePool {
	return &ChanBytePool{
		poolCh: make(chan []byte, chansize),
		size:   bytesize,
	}
}

func (p *ChanBytePool) Get() (b []byte) {
	select {
	case b = <-p.poolCh:
	default:
		b = make([]byte, p.size)
	}
	return b
}

func (p *ChanBytePool) Put(b []byte) {
	if cap(b) < p.size {
		return
	}
	select {
	case p.poolCh <- b[:p.size]:
	default:
		// do nothing, will be gc
	}
}

var (
	bytepool128  BytePool
	bytepool512  BytePool
	bytepool1k   BytePool
	bytepool4k   BytePool
	bytepool16k  BytePool
	bytepool64k  BytePool
	bytepool256k BytePool
)

func init() {
	bytepool128 = NewChanBytePool(1000, 128)
	bytepool512 = NewChanBytePool(1000, 512)
	bytepool1k = NewChanBytePool(500, 1024)
	bytepool4k = NewChanBytePool(200, 4*1024)
	bytepool16k = NewSyncBytePool(16 * 1024)
	bytepool64k = NewSyncBytePool(64 * 1024)
	bytepool256k = NewSyncBytePool(256 * 1024)
}

// GetBytePool returns the pool whose slices hold at least size bytes, or nil
// if size is above the largest class.
func GetBytePool(size int) BytePool {
	switch {
	case size > 256*1024:
		return nil
	case size > 64*1024:
		return bytepool256k
	case size > 16*1024:
		return bytepool64k
	case size > 4*1024:
		return bytepool16k
	case size > 1024:
		return bytepool4k
	case size > 512:
		return bytepool1k
	case size > 128:
		return bytepool512
	}
	return bytepool128
}

// GetBuffer returns a slice of length size and the pool to give it back to.
// The pool is nil for sizes that are not pooled.
func GetBuffer(size int) ([]byte, BytePool) {
	pool := GetBytePool(size)
	if pool == nil {
		return make([]byte, size), nil
	}
	return pool.Get()[:size], pool
}

func PutBuffer(pool BytePool, buf []byte) {
	if pool != nil {
		pool.Put(buf)
	}
}
