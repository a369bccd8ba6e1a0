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
	"bytes"
	"io"
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameHeaderLayout(t *testing.T) {
	var h FrameHeader
	h.Init(ChannelResize, FrameFlagResponse, 0x01020304)
	b := make([]byte, FrameHeaderSize)
	require.NoError(t, h.Encode(b))
	assert.Equal(t, []byte{0x4C, 0x4C, 0x01, 0x01, 0x01, 0x00, 0x04, 0x03, 0x02, 0x01}, b)

	var out FrameHeader
	assert.Equal(t, ErrInvalidMessageSize, out.Decode(b))

	h.PayloadSize = 4
	require.NoError(t, h.Encode(b))
	require.NoError(t, out.Decode(b))
	assert.Equal(t, h, out)
	assert.True(t, out.Flags.IsResponse())
}

func TestFrameHeaderInvalid(t *testing.T) {
	var h FrameHeader
	h.Init(ChannelResize, 0, 4)
	b := make([]byte, FrameHeaderSize)
	require.NoError(t, h.Encode(b))

	bad := append([]byte(nil), b...)
	bad[0] = 0x50
	assert.Equal(t, ErrInvalidFrameHeader, h.Decode(bad))

	bad = append([]byte(nil), b...)
	bad[2] = 9
	assert.Equal(t, ErrInvalidFrameHeader, h.Decode(bad))

	bad = append([]byte(nil), b...)
	bad[3] = 0xEE
	assert.Equal(t, ErrInvalidChannel, h.Decode(bad))

	assert.Equal(t, ErrBufferTooShort, h.Decode(b[:FrameHeaderSize-1]))
}

func TestEncodeMessageFrame(t *testing.T) {
	msg := HighlightEntities{KeepOldSelection: true, Entities: []RTID{3, 4}}
	b := make([]byte, FrameHeaderSize+HighlightEntitiesCodec.Size(&msg))
	n, err := EncodeMessageFrame[HighlightEntities](b, ChannelHighlightEntities, 0, HighlightEntitiesCodec, &msg)
	require.NoError(t, err)
	assert.Equal(t, len(b), n)

	f, err := DecodeFrame(b)
	require.NoError(t, err)
	assert.Equal(t, ChannelHighlightEntities, f.Channel)
	assert.Equal(t, uint32(17), f.PayloadSize)

	out, err := Unmarshal[HighlightEntities](HighlightEntitiesCodec, f.Payload)
	require.NoError(t, err)
	assert.Equal(t, msg, out)

	_, err = EncodeMessageFrame[HighlightEntities](b[:n-1], ChannelHighlightEntities, 0, HighlightEntitiesCodec, &msg)
	assert.Equal(t, ErrBufferTooSmall, err)

	_, err = DecodeFrame(b[:n-1])
	assert.Equal(t, ErrBufferTooShort, err)
}

func TestFrameCompression(t *testing.T) {
	payload := bytes.Repeat([]byte("livelink"), 256)
	f := Frame{Payload: payload}
	f.Channel = ChannelUpdateComponent

	f.Compress(0)
	assert.False(t, f.Flags.IsCompressed())

	f.Compress(64)
	require.True(t, f.Flags.IsCompressed())
	assert.Less(t, len(f.Payload), len(payload))

	out, err := DecodeFrame(f.Bytes())
	require.NoError(t, err)
	assert.False(t, out.Flags.IsCompressed())
	assert.Equal(t, payload, out.Payload)

	// incompressible payloads are sent as is
	small := Frame{Payload: []byte{1, 2, 3}}
	small.Compress(1)
	assert.False(t, small.Flags.IsCompressed())
}

func TestFrameCorruptCompressedPayload(t *testing.T) {
	f := Frame{Payload: []byte{0xff, 0xff, 0xff, 0xff, 0xff}}
	f.Flags = FrameFlagCompressed
	_, err := DecodeFrame(f.Bytes())
	assert.Equal(t, ErrDecompress, err)
}

func TestFrameCompressedPayloadOverLimit(t *testing.T) {
	f := Frame{Payload: snappy.Encode(nil, make([]byte, kMaxPayloadSize+1))}
	f.Channel = ChannelCameraTransform
	f.Flags = FrameFlagResponse | FrameFlagCompressed
	require.Less(t, len(f.Payload), kMaxPayloadSize)

	_, err := DecodeFrame(f.Bytes())
	assert.Equal(t, ErrInvalidMessageSize, err)

	var out Frame
	_, err = out.Read(bytes.NewReader(f.Bytes()))
	assert.Equal(t, ErrInvalidMessageSize, err)

	// exactly at the limit is accepted
	f.Payload = snappy.Encode(nil, make([]byte, kMaxPayloadSize))
	out, err = DecodeFrame(f.Bytes())
	require.NoError(t, err)
	assert.Len(t, out.Payload, kMaxPayloadSize)
}

func TestReadFrameBytesChecksHeaderFirst(t *testing.T) {
	var h FrameHeader
	h.Init(ChannelResize, FrameFlagResponse, 4)
	b := make([]byte, FrameHeaderSize)
	require.NoError(t, h.Encode(b))

	raw, err := ReadFrameBytes(bytes.NewReader(append(b, 1, 2, 3, 4, 0xAA)))
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte(nil), b...), 1, 2, 3, 4), raw)

	// a size field far over the limit fails on the header alone
	huge := append([]byte(nil), b...)
	huge[6], huge[7], huge[8], huge[9] = 0xFF, 0xFF, 0xFF, 0xFF
	_, err = ReadFrameBytes(bytes.NewReader(huge))
	assert.Equal(t, ErrInvalidMessageSize, err)

	bad := append([]byte(nil), b...)
	bad[0] = 0
	_, err = ReadFrameBytes(bytes.NewReader(append(bad, 1, 2, 3, 4)))
	assert.Equal(t, ErrInvalidFrameHeader, err)

	// truncated payload
	_, err = ReadFrameBytes(bytes.NewReader(append(b, 1, 2)))
	assert.IsType(t, &ProtocolError{}, err)
}

func TestFrameReadWrite(t *testing.T) {
	var buf bytes.Buffer
	frames := []Frame{
		{Payload: []byte{1, 2, 3, 4}},
		{Payload: nil},
		{Payload: bytes.Repeat([]byte{7}, 1000)},
	}
	for i := range frames {
		frames[i].Channel = ChannelID(i)
		frames[i].Compress(100)
		_, err := frames[i].Write(&buf)
		require.NoError(t, err)
	}

	for i := range frames {
		var f Frame
		_, err := f.Read(&buf)
		require.NoError(t, err)
		assert.Equal(t, ChannelID(i), f.Channel)
		assert.Len(t, f.Payload, []int{4, 0, 1000}[i])
	}

	var f Frame
	_, err := f.Read(&buf)
	assert.Equal(t, io.EOF, err)

	// truncated in the middle of the header
	_, err = f.Read(bytes.NewReader([]byte{0x4C, 0x4C, 0x01}))
	assert.IsType(t, &ProtocolError{}, err)
}
