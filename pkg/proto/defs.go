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
	"encoding/binary"
)

type (
	ChannelID      uint8
	CodecType      uint8
	CodecProfile   uint8
	InputOperation uint8
	HighlightMode  uint8
	RayQueryMode   uint8
	DeviceFlag     uint8
	FrameFlag      uint8
)

type ProtocolError struct {
	what string
}

const (
	kFrameMagic     uint16 = 0x4C4C
	kCurrentVersion uint8  = 1
	FrameHeaderSize        = 10
	kMaxPayloadSize        = 16 * 1024 * 1024
)

// Client remote operations. Each one is a logical channel multiplexed over
// the gateway connection.
const (
	ChannelConfigureClient      = ChannelID(0)
	ChannelResize               = ChannelID(1)
	ChannelCastScreenSpaceRay   = ChannelID(2)
	ChannelHighlightEntities    = ChannelID(3)
	ChannelSetViewports         = ChannelID(4)
	ChannelCameraTransform      = ChannelID(5)
	ChannelAssignClientToScript = ChannelID(6)
	ChannelInput                = ChannelID(7)
	ChannelUpdateComponent      = ChannelID(8)
	kNumChannels                = 9
)

const (
	CodecTypeUnknown = CodecType(0)
	CodecTypeH264    = CodecType(1)
	CodecTypeH265    = CodecType(2)
	CodecTypeAV1     = CodecType(3)
	CodecTypeMJPEG   = CodecType(4)
	CodecTypeRaw     = CodecType(5)
)

const (
	CodecProfileMain    = CodecProfile(0)
	CodecProfileHigh444 = CodecProfile(1)
	CodecProfileDefault = CodecProfile(2)
)

const (
	InputOperationMouseMove     = InputOperation(0)
	InputOperationMouseDown     = InputOperation(1)
	InputOperationMouseUp       = InputOperation(2)
	InputOperationMouseWheel    = InputOperation(3)
	InputOperationKeyDown       = InputOperation(4)
	InputOperationKeyUp         = InputOperation(5)
	InputOperationTouchStart    = InputOperation(6)
	InputOperationTouchMove     = InputOperation(7)
	InputOperationTouchEnd      = InputOperation(8)
	InputOperationGamepadState  = InputOperation(9)
	InputOperationViewportFocus = InputOperation(10)
)

const (
	HighlightModeNone    = HighlightMode(0)
	HighlightModeSelect  = HighlightMode(1)
	HighlightModeToggle  = HighlightMode(2)
	HighlightModeReplace = HighlightMode(3)
)

const (
	RayQueryModeClosest  = RayQueryMode(0)
	RayQueryModeSelect   = RayQueryMode(1)
	RayQueryModeHoverRTI = RayQueryMode(2)
)

const (
	DeviceKeyboard = DeviceFlag(1 << 0)
	DeviceMouse    = DeviceFlag(1 << 1)
	DeviceGamepad  = DeviceFlag(1 << 2)
	DeviceTouch    = DeviceFlag(1 << 3)
	DeviceXR       = DeviceFlag(1 << 4)
)

const (
	FrameFlagResponse   = FrameFlag(1 << 0)
	FrameFlagCompressed = FrameFlag(1 << 1)
)

var (
	EncByteOrder = binary.LittleEndian
)

var (
	channelNameMap map[ChannelID]string = map[ChannelID]string{
		ChannelConfigureClient:      "ConfigureClient",
		ChannelResize:               "Resize",
		ChannelCastScreenSpaceRay:   "CastScreenSpaceRay",
		ChannelHighlightEntities:    "HighlightEntities",
		ChannelSetViewports:         "SetViewports",
		ChannelCameraTransform:      "CameraTransform",
		ChannelAssignClientToScript: "AssignClientToScript",
		ChannelInput:                "Input",
		ChannelUpdateComponent:      "UpdateComponent",
	}
	codecTypeNameMap map[CodecType]string = map[CodecType]string{
		CodecTypeUnknown: "Unknown",
		CodecTypeH264:    "H264",
		CodecTypeH265:    "H265",
		CodecTypeAV1:     "AV1",
		CodecTypeMJPEG:   "MJPEG",
		CodecTypeRaw:     "Raw",
	}
	codecProfileNameMap map[CodecProfile]string = map[CodecProfile]string{
		CodecProfileMain:    "Main",
		CodecProfileHigh444: "High444",
		CodecProfileDefault: "Default",
	}
	inputOperationNameMap map[InputOperation]string = map[InputOperation]string{
		InputOperationMouseMove:     "MouseMove",
		InputOperationMouseDown:     "MouseDown",
		InputOperationMouseUp:       "MouseUp",
		InputOperationMouseWheel:    "MouseWheel",
		InputOperationKeyDown:       "KeyDown",
		InputOperationKeyUp:         "KeyUp",
		InputOperationTouchStart:    "TouchStart",
		InputOperationTouchMove:     "TouchMove",
		InputOperationTouchEnd:      "TouchEnd",
		InputOperationGamepadState:  "GamepadState",
		InputOperationViewportFocus: "ViewportFocus",
	}
	highlightModeNameMap map[HighlightMode]string = map[HighlightMode]string{
		HighlightModeNone:    "None",
		HighlightModeSelect:  "Select",
		HighlightModeToggle:  "Toggle",
		HighlightModeReplace: "Replace",
	}
	rayQueryModeNameMap map[RayQueryMode]string = map[RayQueryMode]string{
		RayQueryModeClosest:  "Closest",
		RayQueryModeSelect:   "Select",
		RayQueryModeHoverRTI: "Hover",
	}
)

func (c ChannelID) String() string {
	if name, ok := channelNameMap[c]; ok {
		return name
	}
	return "UnknownChannel"
}

func (c ChannelID) IsValid() bool {
	return c < kNumChannels
}

func (c CodecType) String() string {
	if name, ok := codecTypeNameMap[c]; ok {
		return name
	}
	return "UnSpecified Codec"
}

// IsValid reports whether c names a codec a renderer can be asked for.
func (c CodecType) IsValid() bool {
	_, ok := codecTypeNameMap[c]
	return ok && c != CodecTypeUnknown
}

func (p CodecProfile) String() string {
	if name, ok := codecProfileNameMap[p]; ok {
		return name
	}
	return "UnSpecified Profile"
}

func (op InputOperation) String() string {
	if name, ok := inputOperationNameMap[op]; ok {
		return name
	}
	return "UnSpecified Input"
}

func (op InputOperation) IsValid() bool {
	_, ok := inputOperationNameMap[op]
	return ok
}

func (m HighlightMode) String() string {
	if name, ok := highlightModeNameMap[m]; ok {
		return name
	}
	return "UnSpecified Mode"
}

func (m RayQueryMode) String() string {
	if name, ok := rayQueryModeNameMap[m]; ok {
		return name
	}
	return "UnSpecified Mode"
}

func (d DeviceFlag) Has(flag DeviceFlag) bool {
	return d&flag == flag
}

func (f FrameFlag) IsResponse() bool {
	return f&FrameFlagResponse != 0
}

func (f FrameFlag) IsCompressed() bool {
	return f&FrameFlagCompressed != 0
}

var (
	ErrNotSupportedMessage = &ProtocolError{"Message type not supported"}
	ErrBufferTooShort      = &ProtocolError{"Input buffer too short"}
	ErrBufferTooSmall      = &ProtocolError{"Output buffer too small"}
	ErrInvalidOffset       = &ProtocolError{"Invalid offset"}
	ErrInvalidMessage      = &ProtocolError{"Invalid Message"}
	ErrInvalidMessageSize  = &ProtocolError{"Invalid Message Size"}
	ErrInvalidFrameHeader  = &ProtocolError{"Invalid Frame Header"}
	ErrInvalidChannel      = &ProtocolError{"Invalid Channel"}
	ErrTooManyElements     = &ProtocolError{"Too many elements for count prefix"}
	ErrDecompress          = &ProtocolError{"Decompression failed"}
)

func NewProtocolError(err error) *ProtocolError {
	return &ProtocolError{
		what: err.Error(),
	}
}

func (e *ProtocolError) Error() string {
	return "ProtocolError: " + e.what
}
