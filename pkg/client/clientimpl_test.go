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

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livelink/internal/cli"
	"livelink/pkg/errors"
	"livelink/pkg/proto"
)

// fakeGateway answers request channels and records one-way frames.
type fakeGateway struct {
	t        *testing.T
	server   *httptest.Server
	upgrader websocket.Upgrader
	silent   bool
	received chan proto.Frame

	mu        sync.Mutex
	userAgent string
	conns     []*websocket.Conn
}

func newFakeGateway(t *testing.T) *fakeGateway {
	g := &fakeGateway{t: t, received: make(chan proto.Frame, 16)}
	g.server = httptest.NewServer(http.HandlerFunc(g.serve))
	t.Cleanup(g.server.Close)
	return g
}

func (g *fakeGateway) url() string {
	return "ws" + strings.TrimPrefix(g.server.URL, "http")
}

func (g *fakeGateway) config() Config {
	var conf Config
	conf.SetDefault()
	conf.Server = g.url()
	conf.Appname = "client-test"
	return conf
}

func (g *fakeGateway) closeConns() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.conns {
		c.Close()
	}
}

func reply[T any](conn *websocket.Conn, ch proto.ChannelID, c proto.Codec[T], v *T) error {
	b := make([]byte, proto.FrameHeaderSize+c.Size(v))
	if _, err := proto.EncodeMessageFrame[T](b, ch, proto.FrameFlagResponse, c, v); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.BinaryMessage, b)
}

func (g *fakeGateway) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	g.mu.Lock()
	g.userAgent = r.Header.Get("User-Agent")
	g.conns = append(g.conns, conn)
	g.mu.Unlock()
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		f, err := proto.DecodeFrame(raw)
		if err != nil {
			g.t.Errorf("gateway: %s", err)
			return
		}
		if g.silent {
			continue
		}
		switch f.Channel {
		case proto.ChannelConfigureClient:
			req, _ := proto.Unmarshal[proto.ClientConfig](proto.ClientConfigCodec, f.Payload)
			err = reply[proto.ClientConfigResponse](conn, f.Channel, proto.ClientConfigResponseCodec,
				&proto.ClientConfigResponse{Encoder: req.Encoder, RenderingAreaSize: req.RenderingAreaSize})
		case proto.ChannelResize:
			req, _ := proto.Unmarshal[proto.Resize](proto.ResizeCodec, f.Payload)
			err = reply[proto.ResizeResponse](conn, f.Channel, proto.ResizeResponseCodec,
				&proto.ResizeResponse{Size: req.Size})
		case proto.ChannelCastScreenSpaceRay:
			req, _ := proto.Unmarshal[proto.ScreenSpaceRayQuery](proto.ScreenSpaceRayQueryCodec, f.Payload)
			res := proto.ScreenSpaceRayResult{Normal: proto.Vec3{Y: 3, Z: 4}}
			if req.Mode == proto.RayQueryModeSelect {
				res.EntityRTID = 99
			}
			err = reply[proto.ScreenSpaceRayResult](conn, f.Channel, proto.ScreenSpaceRayResultCodec, &res)
		case proto.ChannelCameraTransform:
			req, _ := proto.Unmarshal[proto.CameraTransformQuery](proto.CameraTransformQueryCodec, f.Payload)
			err = reply[proto.CameraTransformResult](conn, f.Channel, proto.CameraTransformResultCodec,
				&proto.CameraTransformResult{CameraRTID: req.CameraRTID, Orientation: proto.Quat{W: 2}})
		default:
			g.received <- f
		}
		if err != nil {
			return
		}
	}
}

func (g *fakeGateway) next(t *testing.T) proto.Frame {
	select {
	case f := <-g.received:
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame received")
	}
	return proto.Frame{}
}

func TestRequests(t *testing.T) {
	g := newFakeGateway(t)
	c, err := Dial(context.Background(), g.config())
	require.NoError(t, err)
	defer c.Close()

	conf := proto.ClientConfig{
		RenderingAreaSize: proto.Vec2u16{X: 1920, Y: 1080},
		Encoder:           proto.EncoderConfig{Codec: proto.CodecTypeH264, Profile: proto.CodecProfileMain, FrameRate: 60},
		SupportedDevices:  proto.DeviceKeyboard | proto.DeviceMouse,
	}
	ack, err := c.ConfigureClient(conf)
	require.NoError(t, err)
	assert.Equal(t, conf.Encoder, ack.Encoder)
	assert.Equal(t, conf.RenderingAreaSize, ack.RenderingAreaSize)

	size, err := c.Resize(1280, 720)
	require.NoError(t, err)
	assert.Equal(t, proto.Vec2u16{X: 1280, Y: 720}, size)

	hit, err := c.CastScreenSpaceRay(proto.Vec2{X: .5, Y: .5}, proto.RayQueryModeSelect)
	require.NoError(t, err)
	assert.True(t, hit.Hit())
	assert.Equal(t, proto.RTID(99), hit.EntityRTID)
	assert.True(t, hit.Normal.ApproxEqual(proto.Vec3{Y: .6, Z: .8}, 1e-6), "normal %s", hit.Normal)

	miss, err := c.CastScreenSpaceRay(proto.Vec2{}, proto.RayQueryModeClosest, WithTimeout(time.Second))
	require.NoError(t, err)
	assert.False(t, miss.Hit())

	cam, err := c.GetCameraTransform(12)
	require.NoError(t, err)
	assert.Equal(t, proto.RTID(12), cam.CameraRTID)
	assert.True(t, cam.Orientation.ApproxEqual(proto.IdentityQuat(), 1e-6), "orientation %+v", cam.Orientation)

	stats := c.Stats()
	assert.Equal(t, int64(2), stats[proto.ChannelCastScreenSpaceRay].Count)
	assert.Equal(t, int64(1), stats[proto.ChannelResize].Count)

	g.mu.Lock()
	assert.Equal(t, "client-test", g.userAgent)
	g.mu.Unlock()
}

func TestOneWayMessages(t *testing.T) {
	g := newFakeGateway(t)
	c, err := Dial(context.Background(), g.config())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.HighlightEntities([]proto.RTID{1, 2}, true))
	f := g.next(t)
	assert.Equal(t, proto.ChannelHighlightEntities, f.Channel)
	assert.Equal(t, 17, len(f.Payload))
	hl, err := proto.Unmarshal[proto.HighlightEntities](proto.HighlightEntitiesCodec, f.Payload)
	require.NoError(t, err)
	assert.Equal(t, proto.HighlightEntities{KeepOldSelection: true, Entities: []proto.RTID{1, 2}}, hl)

	vps := []proto.Viewport{{CameraRTID: 3, Size: proto.Vec2{X: 1, Y: 1}}}
	require.NoError(t, c.SetViewports(vps))
	f = g.next(t)
	sv, err := proto.Unmarshal[proto.SetViewports](proto.SetViewportsCodec, f.Payload)
	require.NoError(t, err)
	assert.Equal(t, vps, sv.Viewports)

	u1, u2 := proto.NewUUID(), proto.NewUUID()
	require.NoError(t, c.AssignClientToScript(u1, u2, 5))
	f = g.next(t)
	assert.Equal(t, proto.ChannelAssignClientToScript, f.Channel)
	sa, err := proto.Unmarshal[proto.ScriptEntityAssignment](proto.ScriptEntityAssignmentCodec, f.Payload)
	require.NoError(t, err)
	assert.Equal(t, proto.ScriptEntityAssignment{ClientUUID: u1, ScriptUUID: u2, EntityRTID: 5}, sa)

	require.NoError(t, c.SendInput(proto.InputOperationKeyDown, []byte{0x41}))
	f = g.next(t)
	in, err := proto.Unmarshal[proto.InputEvent](proto.InputEventCodec, f.Payload)
	require.NoError(t, err)
	assert.Equal(t, proto.InputOperationKeyDown, in.Operation)
	assert.Equal(t, []byte{0x41}, in.Data)

	require.NoError(t, c.UpdateComponent(8, "local_transform", []byte("xyz")))
	f = g.next(t)
	cu, err := proto.Unmarshal[proto.ComponentUpdate](proto.ComponentUpdateCodec, f.Payload)
	require.NoError(t, err)
	assert.Equal(t, proto.ComponentTypeOf("local_transform"), cu.ComponentType)
	assert.Equal(t, []byte("xyz"), cu.Data)
}

func TestBadParam(t *testing.T) {
	g := newFakeGateway(t)
	c, err := Dial(context.Background(), g.config())
	require.NoError(t, err)
	defer c.Close()

	err = c.SetViewports(make([]proto.Viewport, 256))
	assert.ErrorIs(t, err, ErrBadParam)
	assert.ErrorIs(t, c.SendInput(proto.InputOperation(200), nil), ErrBadParam)
	assert.ErrorIs(t, c.UpdateComponent(1, "", nil), ErrBadParam)
	_, err = c.ConfigureClient(proto.ClientConfig{})
	assert.ErrorIs(t, err, ErrBadParam)

	// still usable
	_, err = c.Resize(1, 1)
	assert.NoError(t, err)
}

func TestRequestTimeout(t *testing.T) {
	g := newFakeGateway(t)
	g.silent = true
	c, err := Dial(context.Background(), g.config())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.GetCameraTransform(1, WithTimeout(20*time.Millisecond))
	assert.Equal(t, ErrTimeout, err)
	assert.True(t, cli.IsRetryable(err))
}

func TestServerGone(t *testing.T) {
	g := newFakeGateway(t)
	c, err := Dial(context.Background(), g.config())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Resize(2, 2)
	require.NoError(t, err)
	g.closeConns()

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("client still running")
	}
	_, err = c.Resize(2, 2)
	assert.Equal(t, ErrConnection, err)
	assert.Equal(t, ErrConnection, c.HighlightEntities(nil, false))
}

func TestDialFailure(t *testing.T) {
	g := newFakeGateway(t)
	conf := g.config()
	g.server.Close()

	_, err := Dial(context.Background(), conf)
	assert.Equal(t, ErrConnection, err)

	conf.Server = "http://127.0.0.1:1"
	_, err = Dial(context.Background(), conf)
	assert.Error(t, err)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{nil, nil},
		{errors.ErrRequestTimeout.Wrap("elapsed=1s"), ErrTimeout},
		{context.DeadlineExceeded, ErrTimeout},
		{context.Canceled, context.Canceled},
		{errors.ErrConnectionDesync, ErrDesync},
		{errors.ErrConnectionClosed.Wrap("EOF"), ErrConnection},
		{&cli.IOError{Err: fmt.Errorf("reset")}, ErrConnection},
		{proto.ErrTooManyElements, ErrBadParam},
		{fmt.Errorf("decode Resize response: %w", proto.ErrBufferTooShort), ErrBadMsg},
		{fmt.Errorf("boom"), ErrInternal},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, mapError(tc.err), "%v", tc.err)
	}
}
