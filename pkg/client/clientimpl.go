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
	"net/url"
	"time"

	"github.com/golang/glog"

	"livelink/internal/cli"
	"livelink/pkg/proto"
)

type clientImplT struct {
	config  Config
	session *cli.Session
}

// Dial connects to the gateway named by conf.Server.
func Dial(ctx context.Context, conf Config) (IClient, error) {
	if err := conf.validate(); err != nil {
		return nil, err
	}
	glog.V(2).Infof("client cfg=%+v", conf)

	conn, err := dial(ctx, &conf)
	if err != nil {
		glog.Errorf("[ERROR] connect to %s failed. %s", conf.Server, err)
		return nil, mapError(err)
	}
	client := &clientImplT{
		config: conf,
		session: cli.NewSession(conn, cli.SessionOptions{
			RequestTimeout:    conf.RequestTimeout.Duration,
			CompressThreshold: conf.CompressThreshold,
		}),
	}
	return client, nil
}

// dial opens the transport named by the scheme of conf.Server.
func dial(ctx context.Context, conf *Config) (cli.FrameConn, error) {
	u, err := url.Parse(conf.Server)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "tcp" {
		return cli.DialTCP(ctx, u.Host, conf.ConnectTimeout.Duration, conf.WriteTimeout.Duration)
	}
	header := http.Header{}
	header.Set("User-Agent", conf.Appname)
	if len(conf.SessionToken) != 0 {
		header.Set("Authorization", "Bearer "+conf.SessionToken)
	}
	return cli.DialWebSocket(ctx, conf.Server, header,
		conf.ConnectTimeout.Duration, conf.WriteTimeout.Duration)
}

// NewClient dials server with the default configuration.
func NewClient(server string, appName string) (IClient, error) {
	var conf Config
	conf.SetDefault()
	conf.Server = server
	conf.Appname = appName
	return Dial(context.Background(), conf)
}

func (c *clientImplT) Close() error {
	return c.session.Close()
}

func (c *clientImplT) Done() <-chan struct{} {
	return c.session.Done()
}

func (c *clientImplT) Stats() map[proto.ChannelID]LatencySummary {
	return c.session.Stats()
}

func (c *clientImplT) logError(ch proto.ChannelID, err error) {
	if err == nil {
		return
	}
	glog.Errorf("[ERROR] channel=%s server=%s request_timeout=%dms. %s",
		ch, c.config.Server, c.config.RequestTimeout.Nanoseconds()/int64(1e6), err.Error())
}

func (c *clientImplT) requestContext(opts ...IOption) (context.Context, context.CancelFunc) {
	options := newOptionData(opts...)
	if options.timeout > 0 {
		return context.WithTimeout(context.Background(), options.timeout)
	}
	return context.Background(), func() {}
}

func request[Req any, Resp any](c *clientImplT, ch proto.ChannelID,
	reqCodec proto.Codec[Req], req *Req, respCodec proto.Codec[Resp], opts ...IOption) (resp Resp, err error) {

	ctx, cancel := c.requestContext(opts...)
	defer cancel()
	timeStart := time.Now()
	if resp, err = cli.Request(ctx, c.session, ch, reqCodec, req, respCodec); err != nil {
		c.logError(ch, err)
		err = mapError(err)
		return
	}
	glog.V(2).Infof("channel=%s rtt=%v", ch, time.Since(timeStart))
	return
}

func send[T any](c *clientImplT, ch proto.ChannelID, codec proto.Codec[T], v *T) (err error) {
	if err = cli.Send(c.session, ch, codec, v); err != nil {
		c.logError(ch, err)
		err = mapError(err)
	}
	return
}

func (c *clientImplT) ConfigureClient(conf proto.ClientConfig, opts ...IOption) (proto.ClientConfigResponse, error) {
	if !conf.Encoder.Codec.IsValid() {
		return proto.ClientConfigResponse{}, fmt.Errorf("%w: codec %d", ErrBadParam, conf.Encoder.Codec)
	}
	return request[proto.ClientConfig, proto.ClientConfigResponse](c, proto.ChannelConfigureClient,
		proto.ClientConfigCodec, &conf, proto.ClientConfigResponseCodec, opts...)
}

func (c *clientImplT) Resize(width, height uint16, opts ...IOption) (proto.Vec2u16, error) {
	resp, err := request[proto.Resize, proto.ResizeResponse](c, proto.ChannelResize,
		proto.ResizeCodec, &proto.Resize{Size: proto.Vec2u16{X: width, Y: height}},
		proto.ResizeResponseCodec, opts...)
	return resp.Size, err
}

func (c *clientImplT) CastScreenSpaceRay(pos proto.Vec2, mode proto.RayQueryMode, opts ...IOption) (res proto.ScreenSpaceRayResult, err error) {
	res, err = request[proto.ScreenSpaceRayQuery, proto.ScreenSpaceRayResult](c, proto.ChannelCastScreenSpaceRay,
		proto.ScreenSpaceRayQueryCodec, &proto.ScreenSpaceRayQuery{Position: pos, Mode: mode},
		proto.ScreenSpaceRayResultCodec, opts...)
	if err == nil && res.Hit() {
		res.Normal = res.Normal.Normalize()
	}
	return
}

func (c *clientImplT) GetCameraTransform(camera proto.RTID, opts ...IOption) (res proto.CameraTransformResult, err error) {
	res, err = request[proto.CameraTransformQuery, proto.CameraTransformResult](c, proto.ChannelCameraTransform,
		proto.CameraTransformQueryCodec, &proto.CameraTransformQuery{CameraRTID: camera},
		proto.CameraTransformResultCodec, opts...)
	if err == nil {
		res.Orientation = res.Orientation.Normalize()
	}
	return
}

func (c *clientImplT) HighlightEntities(entities []proto.RTID, keepOldSelection bool) error {
	return send[proto.HighlightEntities](c, proto.ChannelHighlightEntities, proto.HighlightEntitiesCodec,
		&proto.HighlightEntities{KeepOldSelection: keepOldSelection, Entities: entities})
}

func (c *clientImplT) SetViewports(viewports []proto.Viewport) error {
	return send[proto.SetViewports](c, proto.ChannelSetViewports, proto.SetViewportsCodec,
		&proto.SetViewports{Viewports: viewports})
}

func (c *clientImplT) AssignClientToScript(client proto.UUID, script proto.UUID, entity proto.RTID) error {
	return send[proto.ScriptEntityAssignment](c, proto.ChannelAssignClientToScript, proto.ScriptEntityAssignmentCodec,
		&proto.ScriptEntityAssignment{ClientUUID: client, ScriptUUID: script, EntityRTID: entity})
}

func (c *clientImplT) SendInput(op proto.InputOperation, data []byte) error {
	if !op.IsValid() {
		return fmt.Errorf("%w: input operation %d", ErrBadParam, op)
	}
	return send[proto.InputEvent](c, proto.ChannelInput, proto.InputEventCodec,
		&proto.InputEvent{Operation: op, Data: data})
}

func (c *clientImplT) UpdateComponent(entity proto.RTID, component string, data []byte) error {
	if len(component) == 0 {
		return fmt.Errorf("%w: empty component name", ErrBadParam)
	}
	return send[proto.ComponentUpdate](c, proto.ChannelUpdateComponent, proto.ComponentUpdateCodec,
		&proto.ComponentUpdate{EntityRTID: entity, ComponentType: proto.ComponentTypeOf(component), Data: data})
}

var _ IClient = (*clientImplT)(nil)
