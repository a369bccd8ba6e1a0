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

// Shape is the wire layout category of a message.
type Shape uint8

const (
	ShapeRecord Shape = iota
	ShapeArray
	ShapeHeaderPayload
)

// CountPrefix is the width of the element count written in front of the
// elements of an Array message. CountImplied writes no count; the element
// count is then derived from the length of the buffer handed to Decode.
type CountPrefix uint8

const (
	CountImplied CountPrefix = 0
	CountUint8   CountPrefix = 1
	CountUint16  CountPrefix = 2
	CountUint32  CountPrefix = 4
)

var shapeNames = []string{"Record", "Array", "HeaderPayload"}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "UnknownShape"
}

// Codec is the encode/decode/size triad for one wire message type.
//
// Encode writes v into b starting at off and returns the number of bytes
// written. b is never grown. Decode reads a value starting at off and
// returns it with the number of bytes consumed.
type Codec[T any] interface {
	Shape() Shape
	Size(v *T) int
	// MinSize is the size of the fixed part of the message. For a Record
	// it is the whole message.
	MinSize() int
	Encode(v *T, b []byte, off int) (int, error)
	Decode(b []byte, off int) (T, int, error)
}

type fielder[T any] interface {
	*T
	Fielder
}

type arrayMessage[T any, E any] interface {
	*T
	Fielder
	Elements() *[]E
}

type payloadMessage[T any] interface {
	*T
	Fielder
	Payload() *[]byte
}

func checkDst(b []byte, off int, n int) error {
	if off < 0 || off > len(b) {
		return ErrInvalidOffset
	}
	if len(b)-off < n {
		return ErrBufferTooSmall
	}
	return nil
}

func checkSrc(b []byte, off int, n int) error {
	if off < 0 || off > len(b) {
		return ErrInvalidOffset
	}
	if len(b)-off < n {
		return ErrBufferTooShort
	}
	return nil
}

// Record is the driver for fixed-width messages.
type Record[T any, P fielder[T]] struct {
	width int
}

func NewRecord[T any, P fielder[T]]() Record[T, P] {
	var zero T
	return Record[T, P]{width: SizeOf(P(&zero))}
}

func (r Record[T, P]) Shape() Shape { return ShapeRecord }

func (r Record[T, P]) Size(*T) int { return r.width }

func (r Record[T, P]) MinSize() int { return r.width }

func (r Record[T, P]) Encode(v *T, b []byte, off int) (int, error) {
	if err := checkDst(b, off, r.width); err != nil {
		return 0, err
	}
	w := fieldWriter{buf: b, off: off}
	P(v).Fields(&w)
	return w.off - off, w.err
}

func (r Record[T, P]) Decode(b []byte, off int) (v T, n int, err error) {
	if err = checkSrc(b, off, r.width); err != nil {
		return
	}
	rd := fieldReader{buf: b, off: off}
	P(&v).Fields(&rd)
	return v, rd.off - off, rd.err
}

// Array is the driver for a fixed header followed by fixed-width elements.
type Array[T any, E any, P arrayMessage[T, E], PE fielder[E]] struct {
	prefix      CountPrefix
	headerWidth int
	elemWidth   int
}

func NewArray[T any, E any, P arrayMessage[T, E], PE fielder[E]](prefix CountPrefix) Array[T, E, P, PE] {
	var zero T
	var elem E
	return Array[T, E, P, PE]{
		prefix:      prefix,
		headerWidth: SizeOf(P(&zero)),
		elemWidth:   SizeOf(PE(&elem)),
	}
}

func (a Array[T, E, P, PE]) Shape() Shape { return ShapeArray }

func (a Array[T, E, P, PE]) MinSize() int {
	return a.headerWidth + int(a.prefix)
}

func (a Array[T, E, P, PE]) ElementSize() int { return a.elemWidth }

func (a Array[T, E, P, PE]) Size(v *T) int {
	return a.MinSize() + len(*P(v).Elements())*a.elemWidth
}

func (a Array[T, E, P, PE]) maxCount() uint64 {
	switch a.prefix {
	case CountUint8:
		return 0xFF
	case CountUint16:
		return 0xFFFF
	case CountUint32:
		return 0xFFFFFFFF
	}
	return ^uint64(0)
}

func (a Array[T, E, P, PE]) Encode(v *T, b []byte, off int) (int, error) {
	elems := *P(v).Elements()
	if uint64(len(elems)) > a.maxCount() {
		return 0, ErrTooManyElements
	}
	if err := checkDst(b, off, a.Size(v)); err != nil {
		return 0, err
	}
	w := fieldWriter{buf: b, off: off}
	P(v).Fields(&w)
	switch a.prefix {
	case CountUint8:
		w.off += PutUint8(b, w.off, uint8(len(elems)))
	case CountUint16:
		w.off += PutUint16(b, w.off, uint16(len(elems)))
	case CountUint32:
		w.off += PutUint32(b, w.off, uint32(len(elems)))
	}
	for i := range elems {
		PE(&elems[i]).Fields(&w)
	}
	return w.off - off, w.err
}

func (a Array[T, E, P, PE]) Decode(b []byte, off int) (v T, n int, err error) {
	if err = checkSrc(b, off, a.MinSize()); err != nil {
		return
	}
	rd := fieldReader{buf: b, off: off}
	P(&v).Fields(&rd)
	if rd.err != nil {
		return v, 0, rd.err
	}

	var count int
	switch a.prefix {
	case CountImplied:
		rest := len(b) - rd.off
		if a.elemWidth == 0 || rest%a.elemWidth != 0 {
			return v, 0, ErrInvalidMessageSize
		}
		count = rest / a.elemWidth
	case CountUint8:
		c, k := GetUint8(b, rd.off)
		count, rd.off = int(c), rd.off+k
	case CountUint16:
		c, k := GetUint16(b, rd.off)
		count, rd.off = int(c), rd.off+k
	case CountUint32:
		c, k := GetUint32(b, rd.off)
		count, rd.off = int(c), rd.off+k
	}
	if count*a.elemWidth > len(b)-rd.off {
		return v, 0, ErrBufferTooShort
	}
	if count > 0 {
		elems := make([]E, count)
		for i := range elems {
			PE(&elems[i]).Fields(&rd)
		}
		*P(&v).Elements() = elems
	}
	return v, rd.off - off, rd.err
}

// HeaderPayload is the driver for a fixed header followed by raw bytes. The
// payload length is not written; Decode takes everything after the header.
type HeaderPayload[T any, P payloadMessage[T]] struct {
	headerWidth int
}

func NewHeaderPayload[T any, P payloadMessage[T]]() HeaderPayload[T, P] {
	var zero T
	return HeaderPayload[T, P]{headerWidth: SizeOf(P(&zero))}
}

func (h HeaderPayload[T, P]) Shape() Shape { return ShapeHeaderPayload }

func (h HeaderPayload[T, P]) MinSize() int { return h.headerWidth }

func (h HeaderPayload[T, P]) Size(v *T) int {
	return h.headerWidth + len(*P(v).Payload())
}

func (h HeaderPayload[T, P]) Encode(v *T, b []byte, off int) (int, error) {
	if err := checkDst(b, off, h.Size(v)); err != nil {
		return 0, err
	}
	w := fieldWriter{buf: b, off: off}
	P(v).Fields(&w)
	if w.err != nil {
		return 0, w.err
	}
	w.off += copy(b[w.off:], *P(v).Payload())
	return w.off - off, nil
}

func (h HeaderPayload[T, P]) Decode(b []byte, off int) (v T, n int, err error) {
	if err = checkSrc(b, off, h.headerWidth); err != nil {
		return
	}
	rd := fieldReader{buf: b, off: off}
	P(&v).Fields(&rd)
	if rd.err != nil {
		return v, 0, rd.err
	}
	if rest := b[rd.off:]; len(rest) > 0 {
		payload := make([]byte, len(rest))
		copy(payload, rest)
		*P(&v).Payload() = payload
	}
	return v, len(b) - off, nil
}

// Marshal encodes v into a newly allocated buffer of exactly Size(v) bytes.
func Marshal[T any](c Codec[T], v *T) ([]byte, error) {
	b := make([]byte, c.Size(v))
	if _, err := c.Encode(v, b, 0); err != nil {
		return nil, err
	}
	return b, nil
}

func Unmarshal[T any](c Codec[T], b []byte) (v T, err error) {
	v, _, err = c.Decode(b, 0)
	return
}
