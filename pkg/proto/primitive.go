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
	"math"
	"strconv"

	"github.com/chewxy/math32"
	uuid "github.com/satori/go.uuid"
)

const (
	SizeOfUint8   = 1
	SizeOfUint16  = 2
	SizeOfUint32  = 4
	SizeOfUint64  = 8
	SizeOfFloat32 = 4
	SizeOfFloat64 = 8
	SizeOfBool    = 1
	SizeOfUUID    = uuid.Size
	SizeOfRTID    = 8
	SizeOfVec2    = 2 * SizeOfFloat32
	SizeOfVec3    = 3 * SizeOfFloat32
	SizeOfVec4    = 4 * SizeOfFloat32
	SizeOfQuat    = 4 * SizeOfFloat32
	SizeOfVec2i16 = 2 * SizeOfUint16
	SizeOfVec2u16 = 2 * SizeOfUint16
	SizeOfVec3i32 = 3 * SizeOfUint32
)

type (
	// UUID is the stable identity of an entity, client or session.
	UUID = uuid.UUID

	// RTID is a connection-scoped handle of a live entity instance.
	RTID uint64

	Vec2 struct {
		X, Y float32
	}
	Vec3 struct {
		X, Y, Z float32
	}
	Vec4 struct {
		X, Y, Z, W float32
	}
	Quat struct {
		X, Y, Z, W float32
	}
	Vec2i16 struct {
		X, Y int16
	}
	Vec2u16 struct {
		X, Y uint16
	}
	Vec3i32 struct {
		X, Y, Z int32
	}
)

var NilUUID = uuid.Nil

func NewUUID() UUID {
	return uuid.NewV4()
}

func ParseUUID(str string) (UUID, error) {
	return uuid.FromString(str)
}

func (r RTID) String() string {
	return strconv.FormatUint(uint64(r), 10)
}

func (r RTID) IsSet() bool {
	return r != 0
}

func (r *RTID) Fields(f FieldVisitor) { f.RTID(r) }

func (v *Vec2) Fields(f FieldVisitor) {
	f.Float32(&v.X)
	f.Float32(&v.Y)
}

func (v *Vec3) Fields(f FieldVisitor) {
	f.Float32(&v.X)
	f.Float32(&v.Y)
	f.Float32(&v.Z)
}

func (v *Vec4) Fields(f FieldVisitor) {
	f.Float32(&v.X)
	f.Float32(&v.Y)
	f.Float32(&v.Z)
	f.Float32(&v.W)
}

func (q *Quat) Fields(f FieldVisitor) {
	f.Float32(&q.X)
	f.Float32(&q.Y)
	f.Float32(&q.Z)
	f.Float32(&q.W)
}

func (v *Vec2i16) Fields(f FieldVisitor) {
	f.Int16(&v.X)
	f.Int16(&v.Y)
}

func (v *Vec2u16) Fields(f FieldVisitor) {
	f.Uint16(&v.X)
	f.Uint16(&v.Y)
}

func (v *Vec3i32) Fields(f FieldVisitor) {
	f.Int32(&v.X)
	f.Int32(&v.Y)
	f.Int32(&v.Z)
}

func (v Vec3) Len() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns v scaled to unit length. The zero vector is returned as is.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

func (v Vec3) ApproxEqual(o Vec3, tolerance float32) bool {
	return math32.Abs(v.X-o.X) <= tolerance &&
		math32.Abs(v.Y-o.Y) <= tolerance &&
		math32.Abs(v.Z-o.Z) <= tolerance
}

func IdentityQuat() Quat {
	return Quat{W: 1}
}

func (q Quat) Normalize() Quat {
	l := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return IdentityQuat()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

func (q Quat) ApproxEqual(o Quat, tolerance float32) bool {
	return math32.Abs(q.X-o.X) <= tolerance &&
		math32.Abs(q.Y-o.Y) <= tolerance &&
		math32.Abs(q.Z-o.Z) <= tolerance &&
		math32.Abs(q.W-o.W) <= tolerance
}

func (v Vec2) String() string {
	return fmt.Sprintf("{%.3f, %.3f}", v.X, v.Y)
}

func (v Vec3) String() string {
	return fmt.Sprintf("{%.3f, %.3f, %.3f}", v.X, v.Y, v.Z)
}

func (v Vec2u16) String() string {
	return fmt.Sprintf("%dx%d", v.X, v.Y)
}

//
// Unchecked little-endian primitives. Each returns the number of bytes it
// consumed so offsets can be threaded through a sequence of fields. Bounds
// are checked by the field visitors in visitor.go.
//

func PutUint8(b []byte, off int, v uint8) int {
	b[off] = v
	return SizeOfUint8
}

func PutUint16(b []byte, off int, v uint16) int {
	EncByteOrder.PutUint16(b[off:], v)
	return SizeOfUint16
}

func PutUint32(b []byte, off int, v uint32) int {
	EncByteOrder.PutUint32(b[off:], v)
	return SizeOfUint32
}

func PutUint64(b []byte, off int, v uint64) int {
	EncByteOrder.PutUint64(b[off:], v)
	return SizeOfUint64
}

func PutFloat32(b []byte, off int, v float32) int {
	return PutUint32(b, off, math.Float32bits(v))
}

func PutFloat64(b []byte, off int, v float64) int {
	return PutUint64(b, off, math.Float64bits(v))
}

func PutBool(b []byte, off int, v bool) int {
	if v {
		return PutUint8(b, off, 1)
	}
	return PutUint8(b, off, 0)
}

func PutUUID(b []byte, off int, v UUID) int {
	return copy(b[off:off+SizeOfUUID], v[:])
}

func PutRTID(b []byte, off int, v RTID) int {
	return PutUint64(b, off, uint64(v))
}

func GetUint8(b []byte, off int) (uint8, int) {
	return b[off], SizeOfUint8
}

func GetUint16(b []byte, off int) (uint16, int) {
	return EncByteOrder.Uint16(b[off:]), SizeOfUint16
}

func GetUint32(b []byte, off int) (uint32, int) {
	return EncByteOrder.Uint32(b[off:]), SizeOfUint32
}

func GetUint64(b []byte, off int) (uint64, int) {
	return EncByteOrder.Uint64(b[off:]), SizeOfUint64
}

func GetFloat32(b []byte, off int) (float32, int) {
	v, n := GetUint32(b, off)
	return math.Float32frombits(v), n
}

func GetFloat64(b []byte, off int) (float64, int) {
	v, n := GetUint64(b, off)
	return math.Float64frombits(v), n
}

// GetBool treats any non-zero byte as true.
func GetBool(b []byte, off int) (bool, int) {
	return b[off] != 0, SizeOfBool
}

func GetUUID(b []byte, off int) (v UUID, n int) {
	n = copy(v[:], b[off:off+SizeOfUUID])
	return
}

func GetRTID(b []byte, off int) (RTID, int) {
	v, n := GetUint64(b, off)
	return RTID(v), n
}
