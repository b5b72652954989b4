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

const stemRecordSize = 8

const (
	sfString   = 0 // uint32 string-offset
	sfConcepts = 4 // uint32 refs-offset into concept-offset list
)

// Stems is the STEMS store: one entry per distinct stem, with the set of
// concepts any of whose descriptions contain a word stemming to it.
type Stems struct {
	f *fixed
}

// NewStems creates an empty, appendable stem store.
func NewStems() *Stems {
	return &Stems{f: newFixed(stemRecordSize)}
}

// WrapStems reopens a previously-encoded stem store for reading.
func WrapStems(data []byte) *Stems {
	return &Stems{f: wrapFixed(data, stemRecordSize)}
}

// Append reserves a new stem slot.
func (s *Stems) Append(str Offset, concepts Offset) Offset {
	off := s.f.append()
	slot := s.f.slot(off)
	binary.LittleEndian.PutUint32(slot[sfString:], uint32(str))
	binary.LittleEndian.PutUint32(slot[sfConcepts:], uint32(concepts))
	return off
}

func (s *Stems) Count() int            { return s.f.Count() }
func (s *Stems) OffsetOf(n int) Offset { return s.f.OffsetOf(n) }
func (s *Stems) Bytes() []byte         { return s.f.Bytes() }
func (s *Stems) Len() int              { return s.f.Len() }

func (s *Stems) String(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(s.f.slot(offset)[sfString:]))
}
func (s *Stems) Concepts(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(s.f.slot(offset)[sfConcepts:]))
}
func (s *Stems) SetConcepts(offset Offset, ref Offset) {
	binary.LittleEndian.PutUint32(s.f.slot(offset)[sfConcepts:], uint32(ref))
}
