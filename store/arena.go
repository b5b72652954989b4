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

// Package store implements the packed byte arenas ("stores") that hold every
// durable fact about a SNOMED CT release: strings, integer-list pools,
// concepts, descriptions, relationships, words, stems and reference sets.
//
// Every store is a typed byte arena addressed by 32-bit offset. During
// import, each store is append-only and an append returns the offset at
// which the appended value begins; after import, the same store is read-only
// and every offset it ever returned remains valid. Fixed-width stores (CONCEPT,
// DESCRIPTION, RELATIONSHIP, WORDS, STEMS, REFSET-INDEX, REFSET-MEMBER) are
// additionally indexable by record number via Count/OffsetOf, because their
// record width is constant.
//
// All multi-byte fields are little-endian. Offsets are 32-bit, so a single
// store is capped at 4 GiB.
package store

import (
	"encoding/binary"
	"fmt"
)

// Offset addresses a record or variable-width entry within a store. Offset 0
// is reserved: in STRINGS it names the empty string, and a zero refs-offset
// names the empty list.
type Offset uint32

// Sentinel values for the CONCEPT store's all-descendants field (spec §3, §4.4 phase 11).
const (
	NoDescendants  Offset = 0xFFFFFFFF // leaf concept: no descendants
	InProgressDesc Offset = 0xFFFFFFFE // cycle-detection sentinel, never persisted
)

// arena is the shared append-only byte buffer underlying every store. It
// exposes no notion of "frozen" beyond convention: during import the single
// importer goroutine appends; after import, readers only call Bytes/len, so
// there is no concurrent-write hazard to guard against at runtime.
type arena struct {
	data []byte
}

func newArena() *arena {
	// offset 0 is reserved, so every arena starts with a one-byte pad;
	// the empty string and empty refs-list are both represented by offset 0
	// without ever reading this byte.
	return &arena{data: make([]byte, 1, 4096)}
}

// wrap constructs an arena over an already-encoded byte slice, as produced by
// the cache codec on load.
func wrap(data []byte) *arena {
	return &arena{data: data}
}

func (a *arena) append(b []byte) Offset {
	off := Offset(len(a.data))
	a.data = append(a.data, b...)
	return off
}

func (a *arena) bytes() []byte {
	return a.data
}

func (a *arena) checkBounds(offset Offset, n int) {
	o := int(offset)
	if o < 0 || o+n > len(a.data) {
		panic(fmt.Sprintf("store: offset %d (len %d) out of bounds (arena size %d)", offset, n, len(a.data)))
	}
}

func (a *arena) uint32At(offset Offset) uint32 {
	a.checkBounds(offset, 4)
	return binary.LittleEndian.Uint32(a.data[offset:])
}
