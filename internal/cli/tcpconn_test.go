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
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livelink/pkg/proto"
)

func TestTCPConnFraming(t *testing.T) {
	a, b := net.Pipe()
	client := NewTCPConn(a, time.Second)
	server := NewTCPConn(b, time.Second)
	defer client.Close()
	defer server.Close()

	frames := [][]byte{
		responseFrame[proto.ResizeResponse](t, proto.ChannelResize, proto.ResizeResponseCodec,
			&proto.ResizeResponse{Size: proto.Vec2u16{X: 3, Y: 4}}),
		responseFrame[proto.ComponentUpdate](t, proto.ChannelUpdateComponent, proto.ComponentUpdateCodec,
			&proto.ComponentUpdate{EntityRTID: 1, Data: make([]byte, 300)}),
	}
	go func() {
		for _, f := range frames {
			server.WriteFrame(f)
		}
	}()
	for _, want := range frames {
		got, err := client.ReadFrame()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestTCPConnCoalescedFrames(t *testing.T) {
	a, b := net.Pipe()
	client := NewTCPConn(a, time.Second)
	defer client.Close()
	defer b.Close()

	first := responseFrame[proto.ResizeResponse](t, proto.ChannelResize, proto.ResizeResponseCodec,
		&proto.ResizeResponse{Size: proto.Vec2u16{X: 1, Y: 2}})
	second := responseFrame[proto.ResizeResponse](t, proto.ChannelResize, proto.ResizeResponseCodec,
		&proto.ResizeResponse{Size: proto.Vec2u16{X: 5, Y: 6}})
	go b.Write(append(append([]byte(nil), first...), second...))

	for _, want := range [][]byte{first, second} {
		got, err := client.ReadFrame()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestTCPConnRejectsOversizedHeader(t *testing.T) {
	a, b := net.Pipe()
	client := NewTCPConn(a, time.Second)
	defer client.Close()
	defer b.Close()

	header := responseFrame[proto.ResizeResponse](t, proto.ChannelResize, proto.ResizeResponseCodec,
		&proto.ResizeResponse{})[:proto.FrameHeaderSize]
	header[6], header[7], header[8], header[9] = 0xFF, 0xFF, 0xFF, 0xFF
	go b.Write(header)

	_, err := client.ReadFrame()
	assert.Equal(t, proto.ErrInvalidMessageSize, err)
}

func TestSessionOverTCP(t *testing.T) {
	a, b := net.Pipe()
	s := NewSession(NewTCPConn(a, time.Second), SessionOptions{})
	defer s.Close()
	server := NewTCPConn(b, time.Second)

	go func() {
		raw, err := server.ReadFrame()
		if err != nil {
			return
		}
		f, err := proto.DecodeFrame(raw)
		if err != nil {
			return
		}
		q, _ := proto.Unmarshal[proto.ScreenSpaceRayQuery](proto.ScreenSpaceRayQueryCodec, f.Payload)
		res := proto.ScreenSpaceRayResult{EntityRTID: 5}
		if q.Mode != proto.RayQueryModeSelect {
			res.EntityRTID = 0
		}
		server.WriteFrame(responseFrame[proto.ScreenSpaceRayResult](t, f.Channel, proto.ScreenSpaceRayResultCodec, &res))
	}()

	res, err := Request[proto.ScreenSpaceRayQuery, proto.ScreenSpaceRayResult](context.Background(), s,
		proto.ChannelCastScreenSpaceRay, proto.ScreenSpaceRayQueryCodec,
		&proto.ScreenSpaceRayQuery{Position: proto.Vec2{X: .25, Y: .75}, Mode: proto.RayQueryModeSelect},
		proto.ScreenSpaceRayResultCodec)
	require.NoError(t, err)
	assert.True(t, res.Hit())
}
