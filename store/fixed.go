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

// fixed is shared machinery for the fixed-width record stores (CONCEPT,
// DESCRIPTION, RELATIONSHIP, WORDS, STEMS, REFSET-INDEX, REFSET-MEMBER).
// Every record has the same byte width, so the store additionally supports
// positional access (Count/OffsetOf) alongside offset-based access.
type fixed struct {
	a          *arena
	recordSize int
}

func newFixed(recordSize int) *fixed {
	return &fixed{a: newArena(), recordSize: recordSize}
}

func wrapFixed(data []byte, recordSize int) *fixed {
	return &fixed{a: wrap(data), recordSize: recordSize}
}

// append reserves a new record slot, zero-filled, returning its offset.
func (f *fixed) append() Offset {
	off := Offset(len(f.a.data))
	f.a.data = append(f.a.data, make([]byte, f.recordSize)...)
	return off
}

func (f *fixed) slot(offset Offset) []byte {
	f.a.checkBounds(offset, f.recordSize)
	return f.a.data[offset : offset+Offset(f.recordSize)]
}

// Count returns the number of records in this store, excluding the
// reserved offset-0 pad byte.
func (f *fixed) Count() int {
	if len(f.a.data) <= 1 {
		return 0
	}
	return (len(f.a.data) - 1) / f.recordSize
}

// OffsetOf returns the store offset of the nth record (0-based).
func (f *fixed) OffsetOf(n int) Offset {
	return Offset(1 + n*f.recordSize)
}

func (f *fixed) Bytes() []byte {
	return f.a.bytes()
}

func (f *fixed) Len() int {
	return len(f.a.data)
}
