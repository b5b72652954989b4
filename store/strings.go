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

// Strings is the UTF-8 string pool. Each entry is a 4-byte length prefix
// followed by that many bytes. Offset 0 is the empty string.
type Strings struct {
	a *arena
}

// NewStrings creates an empty, appendable string pool.
func NewStrings() *Strings {
	return &Strings{a: newArena()}
}

// WrapStrings reopens a previously-encoded string pool for reading, and for
// further appends (used for the "reopen" phases of import: refset titles and
// concept normal forms, added after the bulk of import has completed).
func WrapStrings(data []byte) *Strings {
	return &Strings{a: wrap(data)}
}

// Append stores str, returning its offset; every call appends a new entry,
// even for a string already present. The empty string is always
// assigned offset 0 without growing the arena.
func (s *Strings) Append(str string) Offset {
	if str == "" {
		return 0
	}
	buf := make([]byte, 4+len(str))
	binary.LittleEndian.PutUint32(buf, uint32(len(str)))
	copy(buf[4:], str)
	return s.a.append(buf)
}

// Get returns the string stored at offset.
func (s *Strings) Get(offset Offset) string {
	if offset == 0 {
		return ""
	}
	s.a.checkBounds(offset, 4)
	n := binary.LittleEndian.Uint32(s.a.data[offset:])
	s.a.checkBounds(offset+4, int(n))
	return string(s.a.data[offset+4 : offset+4+Offset(n)])
}

// Bytes returns the encoded arena, for writing to the cache file.
func (s *Strings) Bytes() []byte {
	return s.a.bytes()
}

// Len reports the arena's total byte size.
func (s *Strings) Len() int {
	return len(s.a.data)
}
