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

/*
package client implements the livelink gateway client API.

possible returned error of request/response operations

  ConfigureClient, Resize, CastScreenSpaceRay, GetCameraTransform
  * nil
  * ErrBadParam
  * ErrBadMsg
  * ErrTimeout
  * ErrConnection
  * ErrDesync
  * ErrInternal

possible returned error of one-way operations

  HighlightEntities, SetViewports, AssignClientToScript, SendInput, UpdateComponent
  * nil
  * ErrBadParam
  * ErrConnection
  * ErrDesync
  * ErrInternal

Requests on one channel are answered in the order they were sent. After
ErrDesync or ErrConnection the client is closed and a new one has to be
dialed.

Hit normals from CastScreenSpaceRay and orientations from GetCameraTransform
are returned normalized.
*/
package client

import (
	"livelink/internal/cli"
	"livelink/pkg/proto"
)

type LatencySummary = cli.LatencySummary

// IClient is a connection to a livelink gateway.
type IClient interface {
	ConfigureClient(conf proto.ClientConfig, opts ...IOption) (proto.ClientConfigResponse, error)
	Resize(width, height uint16, opts ...IOption) (proto.Vec2u16, error)
	CastScreenSpaceRay(pos proto.Vec2, mode proto.RayQueryMode, opts ...IOption) (proto.ScreenSpaceRayResult, error)
	GetCameraTransform(camera proto.RTID, opts ...IOption) (proto.CameraTransformResult, error)

	HighlightEntities(entities []proto.RTID, keepOldSelection bool) error
	SetViewports(viewports []proto.Viewport) error
	AssignClientToScript(client proto.UUID, script proto.UUID, entity proto.RTID) error
	SendInput(op proto.InputOperation, data []byte) error
	UpdateComponent(entity proto.RTID, component string, data []byte) error

	Stats() map[proto.ChannelID]LatencySummary
	Done() <-chan struct{}
	Close() error
}
