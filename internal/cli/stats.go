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
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"livelink/pkg/proto"
)

type LatencySummary struct {
	Count int64
	Min   time.Duration
	P50   time.Duration
	P99   time.Duration
	Max   time.Duration
}

// Stats keeps one round trip latency histogram per channel.
type Stats struct {
	mu    sync.Mutex
	hists map[proto.ChannelID]*hdrhistogram.Histogram
}

func newStats() *Stats {
	return &Stats{hists: make(map[proto.ChannelID]*hdrhistogram.Histogram)}
}

func (s *Stats) record(ch proto.ChannelID, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, found := s.hists[ch]
	if !found {
		h = hdrhistogram.New(1, int64(time.Minute/time.Microsecond), 3)
		s.hists[ch] = h
	}
	us := int64(d / time.Microsecond)
	if us < 1 {
		us = 1
	}
	if err := h.RecordValue(us); err != nil {
		// out of range
		h.RecordValue(h.HighestTrackableValue())
	}
}

func (s *Stats) Snapshot() map[proto.ChannelID]LatencySummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := make(map[proto.ChannelID]LatencySummary, len(s.hists))
	for ch, h := range s.hists {
		m[ch] = LatencySummary{
			Count: h.TotalCount(),
			Min:   time.Duration(h.Min()) * time.Microsecond,
			P50:   time.Duration(h.ValueAtQuantile(50.)) * time.Microsecond,
			P99:   time.Duration(h.ValueAtQuantile(99.)) * time.Microsecond,
			Max:   time.Duration(h.Max()) * time.Microsecond,
		}
	}
	return m
}
