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

// FieldVisitor walks the fields of a message in its canonical order.
//
// Every message declares its layout once, in a Fields method, and the same
// walk is used to size, encode and decode it:
//
//	func (m *Resize) Fields(f FieldVisitor) {
//		m.Size.Fields(f)
//	}
//
// Composite fields recurse into their own Fields method.
type FieldVisitor interface {
	Uint8(v *uint8)
	Uint16(v *uint16)
	Uint32(v *uint32)
	Uint64(v *uint64)
	Int8(v *int8)
	Int16(v *int16)
	Int32(v *int32)
	Int64(v *int64)
	Float32(v *float32)
	Float64(v *float64)
	Bool(v *bool)
	UUID(v *UUID)
	RTID(v *RTID)
}

type Fielder interface {
	Fields(f FieldVisitor)
}

// sizeCounter only adds up field widths.
type sizeCounter struct {
	n int
}

func (s *sizeCounter) Uint8(*uint8)     { s.n += SizeOfUint8 }
func (s *sizeCounter) Uint16(*uint16)   { s.n += SizeOfUint16 }
func (s *sizeCounter) Uint32(*uint32)   { s.n += SizeOfUint32 }
func (s *sizeCounter) Uint64(*uint64)   { s.n += SizeOfUint64 }
func (s *sizeCounter) Int8(*int8)       { s.n += SizeOfUint8 }
func (s *sizeCounter) Int16(*int16)     { s.n += SizeOfUint16 }
func (s *sizeCounter) Int32(*int32)     { s.n += SizeOfUint32 }
func (s *sizeCounter) Int64(*int64)     { s.n += SizeOfUint64 }
func (s *sizeCounter) Float32(*float32) { s.n += SizeOfFloat32 }
func (s *sizeCounter) Float64(*float64) { s.n += SizeOfFloat64 }
func (s *sizeCounter) Bool(*bool)       { s.n += SizeOfBool }
func (s *sizeCounter) UUID(*UUID)       { s.n += SizeOfUUID }
func (s *sizeCounter) RTID(*RTID)       { s.n += SizeOfRTID }

// SizeOf returns the encoded width of the fields of m.
func SizeOf(m Fielder) int {
	var s sizeCounter
	m.Fields(&s)
	return s.n
}

// fieldWriter encodes fields at off. The first failure sticks and all
// later fields become no-ops.
type fieldWriter struct {
	buf []byte
	off int
	err error
}

func (w *fieldWriter) reserve(n int) bool {
	if w.err != nil {
		return false
	}
	if w.off+n > len(w.buf) {
		w.err = ErrBufferTooSmall
		return false
	}
	return true
}

func (w *fieldWriter) Uint8(v *uint8) {
	if w.reserve(SizeOfUint8) {
		w.off += PutUint8(w.buf, w.off, *v)
	}
}

func (w *fieldWriter) Uint16(v *uint16) {
	if w.reserve(SizeOfUint16) {
		w.off += PutUint16(w.buf, w.off, *v)
	}
}

func (w *fieldWriter) Uint32(v *uint32) {
	if w.reserve(SizeOfUint32) {
		w.off += PutUint32(w.buf, w.off, *v)
	}
}

func (w *fieldWriter) Uint64(v *uint64) {
	if w.reserve(SizeOfUint64) {
		w.off += PutUint64(w.buf, w.off, *v)
	}
}

func (w *fieldWriter) Int8(v *int8) {
	if w.reserve(SizeOfUint8) {
		w.off += PutUint8(w.buf, w.off, uint8(*v))
	}
}

func (w *fieldWriter) Int16(v *int16) {
	if w.reserve(SizeOfUint16) {
		w.off += PutUint16(w.buf, w.off, uint16(*v))
	}
}

func (w *fieldWriter) Int32(v *int32) {
	if w.reserve(SizeOfUint32) {
		w.off += PutUint32(w.buf, w.off, uint32(*v))
	}
}

func (w *fieldWriter) Int64(v *int64) {
	if w.reserve(SizeOfUint64) {
		w.off += PutUint64(w.buf, w.off, uint64(*v))
	}
}

func (w *fieldWriter) Float32(v *float32) {
	if w.reserve(SizeOfFloat32) {
		w.off += PutFloat32(w.buf, w.off, *v)
	}
}

func (w *fieldWriter) Float64(v *float64) {
	if w.reserve(SizeOfFloat64) {
		w.off += PutFloat64(w.buf, w.off, *v)
	}
}

func (w *fieldWriter) Bool(v *bool) {
	if w.reserve(SizeOfBool) {
		w.off += PutBool(w.buf, w.off, *v)
	}
}

func (w *fieldWriter) UUID(v *UUID) {
	if w.reserve(SizeOfUUID) {
		w.off += PutUUID(w.buf, w.off, *v)
	}
}

func (w *fieldWriter) RTID(v *RTID) {
	if w.reserve(SizeOfRTID) {
		w.off += PutRTID(w.buf, w.off, *v)
	}
}

// fieldReader decodes fields from off. It never writes to buf.
type fieldReader struct {
	buf []byte
	off int
	err error
}

func (r *fieldReader) available(n int) bool {
	if r.err != nil {
		return false
	}
	if r.off+n > len(r.buf) {
		r.err = ErrBufferTooShort
		return false
	}
	return true
}

func (r *fieldReader) Uint8(v *uint8) {
	if r.available(SizeOfUint8) {
		var n int
		*v, n = GetUint8(r.buf, r.off)
		r.off += n
	}
}

func (r *fieldReader) Uint16(v *uint16) {
	if r.available(SizeOfUint16) {
		var n int
		*v, n = GetUint16(r.buf, r.off)
		r.off += n
	}
}

func (r *fieldReader) Uint32(v *uint32) {
	if r.available(SizeOfUint32) {
		var n int
		*v, n = GetUint32(r.buf, r.off)
		r.off += n
	}
}

func (r *fieldReader) Uint64(v *uint64) {
	if r.available(SizeOfUint64) {
		var n int
		*v, n = GetUint64(r.buf, r.off)
		r.off += n
	}
}

func (r *fieldReader) Int8(v *int8) {
	if r.available(SizeOfUint8) {
		u, n := GetUint8(r.buf, r.off)
		*v = int8(u)
		r.off += n
	}
}

func (r *fieldReader) Int16(v *int16) {
	if r.available(SizeOfUint16) {
		u, n := GetUint16(r.buf, r.off)
		*v = int16(u)
		r.off += n
	}
}

func (r *fieldReader) Int32(v *int32) {
	if r.available(SizeOfUint32) {
		u, n := GetUint32(r.buf, r.off)
		*v = int32(u)
		r.off += n
	}
}

func (r *fieldReader) Int64(v *int64) {
	if r.available(SizeOfUint64) {
		u, n := GetUint64(r.buf, r.off)
		*v = int64(u)
		r.off += n
	}
}

func (r *fieldReader) Float32(v *float32) {
	if r.available(SizeOfFloat32) {
		var n int
		*v, n = GetFloat32(r.buf, r.off)
		r.off += n
	}
}

func (r *fieldReader) Float64(v *float64) {
	if r.available(SizeOfFloat64) {
		var n int
		*v, n = GetFloat64(r.buf, r.off)
		r.off += n
	}
}

func (r *fieldReader) Bool(v *bool) {
	if r.available(SizeOfBool) {
		var n int
		*v, n = GetBool(r.buf, r.off)
		r.off += n
	}
}

func (r *fieldReader) UUID(v *UUID) {
	if r.available(SizeOfUUID) {
		var n int
		*v, n = GetUUID(r.buf, r.off)
		r.off += n
	}
}

func (r *fieldReader) RTID(v *RTID) {
	if r.available(SizeOfRTID) {
		var n int
		*v, n = GetRTID(r.buf, r.off)
		r.off += n
	}
}
