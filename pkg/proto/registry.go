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

package proto

import (
	"sort"
)

// MessageInfo describes one message type for tooling that only knows the
// message by name.
type MessageInfo struct {
	Name     string
	Channel  ChannelID
	Shape    Shape
	Response bool
	// FixedSize is -1 for variable-size messages.
	FixedSize int
	MinSize   int
	Decode    func(b []byte) (interface{}, error)
}

var registry = map[string]*MessageInfo{}

func register[T any](name string, ch ChannelID, response bool, c Codec[T]) {
	info := &MessageInfo{
		Name:      name,
		Channel:   ch,
		Shape:     c.Shape(),
		Response:  response,
		FixedSize: -1,
		MinSize:   c.MinSize(),
		Decode: func(b []byte) (interface{}, error) {
			v, _, err := c.Decode(b, 0)
			if err != nil {
				return nil, err
			}
			return &v, nil
		},
	}
	if c.Shape() == ShapeRecord {
		info.FixedSize = c.MinSize()
	}
	registry[name] = info
}

func init() {
	register[ClientConfig]("ClientConfig", ChannelConfigureClient, false, ClientConfigCodec)
	register[ClientConfigResponse]("ClientConfigResponse", ChannelConfigureClient, true, ClientConfigResponseCodec)
	register[Resize]("Resize", ChannelResize, false, ResizeCodec)
	register[ResizeResponse]("ResizeResponse", ChannelResize, true, ResizeResponseCodec)
	register[ScreenSpaceRayQuery]("ScreenSpaceRayQuery", ChannelCastScreenSpaceRay, false, ScreenSpaceRayQueryCodec)
	register[ScreenSpaceRayResult]("ScreenSpaceRayResult", ChannelCastScreenSpaceRay, true, ScreenSpaceRayResultCodec)
	register[CameraTransformQuery]("CameraTransformQuery", ChannelCameraTransform, false, CameraTransformQueryCodec)
	register[CameraTransformResult]("CameraTransformResult", ChannelCameraTransform, true, CameraTransformResultCodec)
	register[HighlightEntities]("HighlightEntities", ChannelHighlightEntities, false, HighlightEntitiesCodec)
	register[SetViewports]("SetViewports", ChannelSetViewports, false, SetViewportsCodec)
	register[ScriptEntityAssignment]("ScriptEntityAssignment", ChannelAssignClientToScript, false, ScriptEntityAssignmentCodec)
	register[InputEvent]("InputEvent", ChannelInput, false, InputEventCodec)
	register[ComponentUpdate]("ComponentUpdate", ChannelUpdateComponent, false, ComponentUpdateCodec)
}

func Lookup(name string) (*MessageInfo, bool) {
	info, ok := registry[name]
	return info, ok
}

// LookupByChannel returns the message carried on ch in the given direction.
func LookupByChannel(ch ChannelID, response bool) (*MessageInfo, bool) {
	for _, info := range registry {
		if info.Channel == ch && info.Response == response {
			return info, true
		}
	}
	return nil, false
}

// Messages returns all known message types sorted by channel, requests first.
func Messages() []*MessageInfo {
	list := make([]*MessageInfo, 0, len(registry))
	for _, info := range registry {
		list = append(list, info)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Channel != list[j].Channel {
			return list[i].Channel < list[j].Channel
		}
		return !list[i].Response && list[j].Response
	})
	return list
}
