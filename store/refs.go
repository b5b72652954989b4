// Copyright 2018 Mark Wardle / Eldrix Ltd
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.
//

package store

import "encoding/binary"

// Refs is the pool of variable-length uint32 sequences: concept parent
// lists, description lists, refset member lists, stem concept-sets and so
// on. Each entry is a 4-byte count followed by that many little-endian
// uint32s. Offset 0 is the empty list.
type Refs struct {
	a *arena
}

// NewRefs creates an empty, appendable refs pool.
func NewRefs() *Refs {
	return &Refs{a: newArena()}
}

// WrapRefs reopens a previously-encoded refs pool for reading.
func WrapRefs(data []byte) *Refs {
	return &Refs{a: wrap(data)}
}

// Append stores ids as a single sequence, returning its offset. An empty or
// nil slice is always assigned offset 0.
func (r *Refs) Append(ids []uint32) Offset {
	if len(ids) == 0 {
		return 0
	}
	buf := make([]byte, 4+4*len(ids))
	binary.LittleEndian.PutUint32(buf, uint32(len(ids)))
	for i, id := range ids {
		binary.LittleEndian.PutUint32(buf[4+4*i:], id)
	}
	return r.a.append(buf)
}

// AppendOffsets is a convenience wrapper for the common case of storing a
// list of store offsets.
func (r *Refs) AppendOffsets(offsets []Offset) Offset {
	ids := make([]uint32, len(offsets))
	for i, o := range offsets {
		ids[i] = uint32(o)
	}
	return r.Append(ids)
}

// Read returns the sequence stored at offset.
func (r *Refs) Read(offset Offset) []uint32 {
	if offset == 0 {
		return nil
	}
	r.a.checkBounds(offset, 4)
	n := binary.LittleEndian.Uint32(r.a.data[offset:])
	r.a.checkBounds(offset+4, int(n)*4)
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(r.a.data[offset+4+Offset(i*4):])
	}
	return out
}

// ReadOffsets is Read, typed as store offsets.
func (r *Refs) ReadOffsets(offset Offset) []Offset {
	raw := r.Read(offset)
	out := make([]Offset, len(raw))
	for i, v := range raw {
		out[i] = Offset(v)
	}
	return out
}

// Bytes returns the encoded arena, for writing to the cache file.
func (r *Refs) Bytes() []byte {
	return r.a.bytes()
}

// Len reports the arena's total byte size.
func (r *Refs) Len() int {
	return len(r.a.data)
}
