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

const refsetIndexRecordSize = 36

const (
	rifTitle           = 0  // uint32 string-offset
	rifFilename        = 4  // uint32 string-offset
	rifConcept         = 8  // uint32 concept-offset (defining concept)
	rifMembersByRef    = 12 // uint32 refs-offset, members sorted by ref
	rifMembersByDisp   = 16 // uint32 refs-offset, members sorted by display name
	rifFieldTypes      = 20 // uint32 refs-offset
	rifFieldNames      = 24 // uint32 refs-offset
	rifLanguageBitmap  = 28 // uint64, 8 bytes
)

// RefsetIndex is the REFSET-INDEX store: one record per reference set.
type RefsetIndex struct {
	f *fixed
}

// NewRefsetIndex creates an empty, appendable refset index.
func NewRefsetIndex() *RefsetIndex {
	return &RefsetIndex{f: newFixed(refsetIndexRecordSize)}
}

// WrapRefsetIndex reopens a previously-encoded refset index for reading.
func WrapRefsetIndex(data []byte) *RefsetIndex {
	return &RefsetIndex{f: wrapFixed(data, refsetIndexRecordSize)}
}

// Append reserves a new refset-index slot.
func (r *RefsetIndex) Append(title, filename Offset, concept Offset) Offset {
	off := r.f.append()
	slot := r.f.slot(off)
	binary.LittleEndian.PutUint32(slot[rifTitle:], uint32(title))
	binary.LittleEndian.PutUint32(slot[rifFilename:], uint32(filename))
	binary.LittleEndian.PutUint32(slot[rifConcept:], uint32(concept))
	return off
}

func (r *RefsetIndex) Count() int            { return r.f.Count() }
func (r *RefsetIndex) OffsetOf(n int) Offset { return r.f.OffsetOf(n) }
func (r *RefsetIndex) Bytes() []byte         { return r.f.Bytes() }
func (r *RefsetIndex) Len() int              { return r.f.Len() }

func (r *RefsetIndex) Title(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(r.f.slot(offset)[rifTitle:]))
}
func (r *RefsetIndex) Filename(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(r.f.slot(offset)[rifFilename:]))
}
func (r *RefsetIndex) Concept(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(r.f.slot(offset)[rifConcept:]))
}
func (r *RefsetIndex) MembersByRef(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(r.f.slot(offset)[rifMembersByRef:]))
}
func (r *RefsetIndex) MembersByDisplay(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(r.f.slot(offset)[rifMembersByDisp:]))
}
func (r *RefsetIndex) FieldTypes(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(r.f.slot(offset)[rifFieldTypes:]))
}
func (r *RefsetIndex) FieldNames(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(r.f.slot(offset)[rifFieldNames:]))
}
func (r *RefsetIndex) LanguageBitmap(offset Offset) uint64 {
	return binary.LittleEndian.Uint64(r.f.slot(offset)[rifLanguageBitmap:])
}

func (r *RefsetIndex) SetMembersByRef(offset Offset, ref Offset) {
	binary.LittleEndian.PutUint32(r.f.slot(offset)[rifMembersByRef:], uint32(ref))
}
func (r *RefsetIndex) SetMembersByDisplay(offset Offset, ref Offset) {
	binary.LittleEndian.PutUint32(r.f.slot(offset)[rifMembersByDisp:], uint32(ref))
}
func (r *RefsetIndex) SetFieldTypes(offset Offset, ref Offset) {
	binary.LittleEndian.PutUint32(r.f.slot(offset)[rifFieldTypes:], uint32(ref))
}
func (r *RefsetIndex) SetFieldNames(offset Offset, ref Offset) {
	binary.LittleEndian.PutUint32(r.f.slot(offset)[rifFieldNames:], uint32(ref))
}
func (r *RefsetIndex) SetLanguageBitmap(offset Offset, bitmap uint64) {
	binary.LittleEndian.PutUint64(r.f.slot(offset)[rifLanguageBitmap:], bitmap)
}

// ---- REFSET-MEMBER store ----

const refsetMemberRecordSize = 32

const (
	rmfKind      = 0  // uint8: 0 concept, 1 description, 2 relationship, 3 other
	rmfComponent = 1  // uint32 component-offset
	rmfModule    = 5  // uint32 concept-offset
	rmfDate      = 9  // uint16
	rmfGUID      = 11 // 16 bytes
	rmfHasGUID   = 27 // uint8
	rmfValues    = 28 // uint32 refs-offset to typed additional-field values
)

// MemberKind identifies the sort of component a refset member references.
type MemberKind uint8

const (
	MemberConcept MemberKind = iota
	MemberDescription
	MemberRelationship
	MemberOther
)

// RefsetMembers is the REFSET-MEMBER store: one record per reference set row.
type RefsetMembers struct {
	f *fixed
}

// NewRefsetMembers creates an empty, appendable refset member store.
func NewRefsetMembers() *RefsetMembers {
	return &RefsetMembers{f: newFixed(refsetMemberRecordSize)}
}

// WrapRefsetMembers reopens a previously-encoded refset member store for reading.
func WrapRefsetMembers(data []byte) *RefsetMembers {
	return &RefsetMembers{f: wrapFixed(data, refsetMemberRecordSize)}
}

// Append reserves a new refset-member slot. guid may be nil if the member
// carries no GUID (a pure description-refset member, for example).
func (m *RefsetMembers) Append(kind MemberKind, component, module Offset, date uint16, guid []byte, values Offset) Offset {
	off := m.f.append()
	slot := m.f.slot(off)
	slot[rmfKind] = byte(kind)
	binary.LittleEndian.PutUint32(slot[rmfComponent:], uint32(component))
	binary.LittleEndian.PutUint32(slot[rmfModule:], uint32(module))
	binary.LittleEndian.PutUint16(slot[rmfDate:], date)
	if guid != nil {
		copy(slot[rmfGUID:rmfGUID+16], guid)
		slot[rmfHasGUID] = 1
	}
	binary.LittleEndian.PutUint32(slot[rmfValues:], uint32(values))
	return off
}

func (m *RefsetMembers) Count() int            { return m.f.Count() }
func (m *RefsetMembers) OffsetOf(n int) Offset { return m.f.OffsetOf(n) }
func (m *RefsetMembers) Bytes() []byte         { return m.f.Bytes() }
func (m *RefsetMembers) Len() int              { return m.f.Len() }

func (m *RefsetMembers) Kind(offset Offset) MemberKind {
	return MemberKind(m.f.slot(offset)[rmfKind])
}
func (m *RefsetMembers) Component(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(m.f.slot(offset)[rmfComponent:]))
}
func (m *RefsetMembers) Module(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(m.f.slot(offset)[rmfModule:]))
}
func (m *RefsetMembers) Date(offset Offset) uint16 {
	return binary.LittleEndian.Uint16(m.f.slot(offset)[rmfDate:])
}
func (m *RefsetMembers) GUID(offset Offset) ([16]byte, bool) {
	slot := m.f.slot(offset)
	var g [16]byte
	if slot[rmfHasGUID] == 0 {
		return g, false
	}
	copy(g[:], slot[rmfGUID:rmfGUID+16])
	return g, true
}
func (m *RefsetMembers) Values(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(m.f.slot(offset)[rmfValues:]))
}
