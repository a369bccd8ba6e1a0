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
	"fmt"
	"io"

	"github.com/golang/snappy"
)

// FrameHeader precedes every message sent over the gateway connection. See
// doc.go for the layout.
type FrameHeader struct {
	magic       uint16
	version     uint8
	Channel     ChannelID
	Flags       FrameFlag
	reserved    uint8
	PayloadSize uint32
}

type Frame struct {
	FrameHeader
	Payload []byte
}

var frameHeaderCodec = NewRecord[FrameHeader]()

func (h *FrameHeader) Fields(f FieldVisitor) {
	f.Uint16(&h.magic)
	f.Uint8(&h.version)
	f.Uint8((*uint8)(&h.Channel))
	f.Uint8((*uint8)(&h.Flags))
	f.Uint8(&h.reserved)
	f.Uint32(&h.PayloadSize)
}

func (h *FrameHeader) reset() {
	h.magic = kFrameMagic
	h.version = kCurrentVersion
	h.Channel = 0
	h.Flags = 0
	h.reserved = 0
	h.PayloadSize = 0
}

func (h *FrameHeader) Init(ch ChannelID, flags FrameFlag, payloadSize int) {
	h.reset()
	h.Channel = ch
	h.Flags = flags
	h.PayloadSize = uint32(payloadSize)
}

func (h *FrameHeader) IsSupported() bool {
	return h.magic == kFrameMagic && h.version == kCurrentVersion
}

func (h *FrameHeader) Encode(b []byte) error {
	_, err := frameHeaderCodec.Encode(h, b, 0)
	return err
}

func (h *FrameHeader) Decode(b []byte) (err error) {
	if *h, _, err = frameHeaderCodec.Decode(b, 0); err != nil {
		return
	}
	if !h.IsSupported() {
		return ErrInvalidFrameHeader
	}
	if !h.Channel.IsValid() {
		return ErrInvalidChannel
	}
	if h.PayloadSize > kMaxPayloadSize {
		return ErrInvalidMessageSize
	}
	return nil
}

func (h *FrameHeader) String() string {
	return fmt.Sprintf("channel=%s flags=%#x size=%d", h.Channel, uint8(h.Flags), h.PayloadSize)
}

// EncodeMessageFrame writes a frame header and the message v encoded with c
// into b, which must hold at least FrameHeaderSize+c.Size(v) bytes.
func EncodeMessageFrame[T any](b []byte, ch ChannelID, flags FrameFlag, c Codec[T], v *T) (int, error) {
	sz := c.Size(v)
	if len(b) < FrameHeaderSize+sz {
		return 0, ErrBufferTooSmall
	}
	var h FrameHeader
	h.Init(ch, flags, sz)
	if err := h.Encode(b); err != nil {
		return 0, err
	}
	n, err := c.Encode(v, b, FrameHeaderSize)
	if err != nil {
		return 0, err
	}
	return FrameHeaderSize + n, nil
}

// DecodeFrame parses one frame out of b. The payload is decompressed if the
// frame is flagged compressed, otherwise it aliases b.
func DecodeFrame(b []byte) (f Frame, err error) {
	if len(b) < FrameHeaderSize {
		err = ErrBufferTooShort
		return
	}
	if err = f.FrameHeader.Decode(b[:FrameHeaderSize]); err != nil {
		return
	}
	end := FrameHeaderSize + int(f.PayloadSize)
	if len(b) < end {
		err = ErrBufferTooShort
		return
	}
	f.Payload = b[FrameHeaderSize:end]
	if f.Flags.IsCompressed() {
		err = f.decompress()
	}
	return
}

// Compress snappy-encodes the payload when it is at least threshold bytes
// long. A non-positive threshold disables compression.
func (f *Frame) Compress(threshold int) {
	if threshold <= 0 || len(f.Payload) < threshold || f.Flags.IsCompressed() {
		return
	}
	encoded := snappy.Encode(nil, f.Payload)
	if len(encoded) >= len(f.Payload) {
		return
	}
	f.Payload = encoded
	f.PayloadSize = uint32(len(encoded))
	f.Flags |= FrameFlagCompressed
}

// decompress expands the payload in place. The decoded length is checked
// against the payload limit before anything is allocated.
func (f *Frame) decompress() error {
	sz, err := snappy.DecodedLen(f.Payload)
	if err != nil {
		return ErrDecompress
	}
	if sz > kMaxPayloadSize {
		return ErrInvalidMessageSize
	}
	decoded, err := snappy.Decode(nil, f.Payload)
	if err != nil {
		return ErrDecompress
	}
	f.Payload = decoded
	f.PayloadSize = uint32(len(decoded))
	f.Flags &^= FrameFlagCompressed
	return nil
}

// Bytes returns the frame with its header, ready to be sent.
func (f *Frame) Bytes() []byte {
	b := make([]byte, FrameHeaderSize+len(f.Payload))
	f.FrameHeader.Init(f.Channel, f.Flags, len(f.Payload))
	_ = f.FrameHeader.Encode(b) // b holds the header
	copy(b[FrameHeaderSize:], f.Payload)
	return b
}

func (f *Frame) Read(r io.Reader) (n int, err error) {
	var b []byte
	if b, err = ReadFrameBytes(r); err != nil {
		return
	}
	n = len(b)
	*f, err = DecodeFrame(b)
	return
}

// ReadFrameBytes reads one raw frame, header included, from a byte stream.
// The header is validated before the payload is read, so a corrupt or
// oversized header never causes a large allocation.
func ReadFrameBytes(r io.Reader) (b []byte, err error) {
	var hBuffer [FrameHeaderSize]byte
	header := hBuffer[:]

	var n int
	if n, err = io.ReadFull(r, header); err != nil {
		if n != 0 {
			err = NewProtocolError(err)
		}
		return
	}
	var h FrameHeader
	if err = h.Decode(header); err != nil {
		return
	}
	b = make([]byte, FrameHeaderSize+int(h.PayloadSize))
	copy(b, header)
	if _, err = io.ReadFull(r, b[FrameHeaderSize:]); err != nil {
		return nil, NewProtocolError(err)
	}
	return
}

func (f *Frame) Write(w io.Writer) (int, error) {
	return w.Write(f.Bytes())
}
