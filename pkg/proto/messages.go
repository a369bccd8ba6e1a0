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
	"github.com/spaolacci/murmur3"
)

type (
	EncoderConfig struct {
		Codec               CodecType
		Profile             CodecProfile
		FrameRate           uint8
		LosslessCompression bool
	}

	// ClientConfig is sent on ChannelConfigureClient once the connection is
	// established, and again whenever the client wants another encoding.
	ClientConfig struct {
		RenderingAreaSize Vec2u16
		Encoder           EncoderConfig
		SupportedDevices  DeviceFlag
	}

	// ClientConfigResponse is what the renderer actually applied.
	ClientConfigResponse struct {
		Encoder           EncoderConfig
		RenderingAreaSize Vec2u16
	}

	Resize struct {
		Size Vec2u16
	}

	ResizeResponse struct {
		Size Vec2u16
	}

	// ScreenSpaceRayQuery casts a ray from a point of the viewport, in
	// normalized [0,1] coordinates.
	ScreenSpaceRayQuery struct {
		Position Vec2
		Mode     RayQueryMode
	}

	ScreenSpaceRayResult struct {
		EntityRTID RTID
		Position   Vec3
		Normal     Vec3
	}

	CameraTransformQuery struct {
		CameraRTID RTID
	}

	CameraTransformResult struct {
		CameraRTID  RTID
		Position    Vec3
		Orientation Quat
	}

	HighlightEntities struct {
		KeepOldSelection bool
		Entities         []RTID
	}

	Viewport struct {
		CameraRTID RTID
		Offset     Vec2
		Size       Vec2
	}

	SetViewports struct {
		Viewports []Viewport
	}

	ScriptEntityAssignment struct {
		ClientUUID UUID
		ScriptUUID UUID
		EntityRTID RTID
	}

	InputEvent struct {
		Operation InputOperation
		Data      []byte
	}

	ComponentUpdate struct {
		EntityRTID    RTID
		ComponentType uint32
		Data          []byte
	}
)

func (c *EncoderConfig) Fields(f FieldVisitor) {
	f.Uint8((*uint8)(&c.Codec))
	f.Uint8((*uint8)(&c.Profile))
	f.Uint8(&c.FrameRate)
	f.Bool(&c.LosslessCompression)
}

func (m *ClientConfig) Fields(f FieldVisitor) {
	m.RenderingAreaSize.Fields(f)
	m.Encoder.Fields(f)
	f.Uint8((*uint8)(&m.SupportedDevices))
}

func (m *ClientConfigResponse) Fields(f FieldVisitor) {
	m.Encoder.Fields(f)
	m.RenderingAreaSize.Fields(f)
}

func (m *Resize) Fields(f FieldVisitor) {
	m.Size.Fields(f)
}

func (m *ResizeResponse) Fields(f FieldVisitor) {
	m.Size.Fields(f)
}

func (m *ScreenSpaceRayQuery) Fields(f FieldVisitor) {
	m.Position.Fields(f)
	f.Uint8((*uint8)(&m.Mode))
}

func (m *ScreenSpaceRayResult) Fields(f FieldVisitor) {
	f.RTID(&m.EntityRTID)
	m.Position.Fields(f)
	m.Normal.Fields(f)
}

// Hit reports whether the ray touched an entity.
func (m *ScreenSpaceRayResult) Hit() bool {
	return m.EntityRTID.IsSet()
}

func (m *CameraTransformQuery) Fields(f FieldVisitor) {
	f.RTID(&m.CameraRTID)
}

func (m *CameraTransformResult) Fields(f FieldVisitor) {
	f.RTID(&m.CameraRTID)
	m.Position.Fields(f)
	m.Orientation.Fields(f)
}

func (m *HighlightEntities) Fields(f FieldVisitor) {
	f.Bool(&m.KeepOldSelection)
}

func (m *HighlightEntities) Elements() *[]RTID { return &m.Entities }

func (v *Viewport) Fields(f FieldVisitor) {
	f.RTID(&v.CameraRTID)
	v.Offset.Fields(f)
	v.Size.Fields(f)
}

func (m *SetViewports) Fields(FieldVisitor) {}

func (m *SetViewports) Elements() *[]Viewport { return &m.Viewports }

func (m *ScriptEntityAssignment) Fields(f FieldVisitor) {
	f.UUID(&m.ClientUUID)
	f.UUID(&m.ScriptUUID)
	f.RTID(&m.EntityRTID)
}

func (m *InputEvent) Fields(f FieldVisitor) {
	f.Uint8((*uint8)(&m.Operation))
}

func (m *InputEvent) Payload() *[]byte { return &m.Data }

func (m *ComponentUpdate) Fields(f FieldVisitor) {
	f.RTID(&m.EntityRTID)
	f.Uint32(&m.ComponentType)
}

func (m *ComponentUpdate) Payload() *[]byte { return &m.Data }

// ComponentTypeOf returns the wire identifier of a component, the 32-bit
// murmur3 hash of its name.
func ComponentTypeOf(name string) uint32 {
	return murmur3.Sum32([]byte(name))
}

var (
	ClientConfigCodec           = NewRecord[ClientConfig]()
	ClientConfigResponseCodec   = NewRecord[ClientConfigResponse]()
	ResizeCodec                 = NewRecord[Resize]()
	ResizeResponseCodec         = NewRecord[ResizeResponse]()
	ScreenSpaceRayQueryCodec    = NewRecord[ScreenSpaceRayQuery]()
	ScreenSpaceRayResultCodec   = NewRecord[ScreenSpaceRayResult]()
	CameraTransformQueryCodec   = NewRecord[CameraTransformQuery]()
	CameraTransformResultCodec  = NewRecord[CameraTransformResult]()
	HighlightEntitiesCodec      = NewArray[HighlightEntities, RTID](CountImplied)
	SetViewportsCodec           = NewArray[SetViewports, Viewport](CountUint8)
	ScriptEntityAssignmentCodec = NewRecord[ScriptEntityAssignment]()
	InputEventCodec             = NewHeaderPayload[InputEvent]()
	ComponentUpdateCodec        = NewHeaderPayload[ComponentUpdate]()
)
