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

// descriptionRecordSize is exactly 40 bytes (spec §3).
const descriptionRecordSize = 40

const (
	dfTerm       = 0  // uint32 string-offset
	dfID         = 4  // uint64
	dfDate       = 12 // uint16
	dfConcept    = 14 // uint32 concept-offset
	dfModule     = 18 // uint32 concept-offset
	dfKind       = 22 // uint32 concept-offset (description type)
	dfCaseSig    = 26 // uint32 concept-offset
	dfActive     = 30 // uint8
	dfLanguage   = 31 // uint8 (encoded language code, see package lang)
	dfRefsets    = 32 // uint32 refs-offset (interleaved refset-offset/values-offset pairs)
	// 36..39 reserved
)

// Descriptions is the DESCRIPTION store.
type Descriptions struct {
	f *fixed
}

// NewDescriptions creates an empty, appendable description store.
func NewDescriptions() *Descriptions {
	return &Descriptions{f: newFixed(descriptionRecordSize)}
}

// WrapDescriptions reopens a previously-encoded description store for reading.
func WrapDescriptions(data []byte) *Descriptions {
	return &Descriptions{f: wrapFixed(data, descriptionRecordSize)}
}

// Append reserves a new description slot.
func (d *Descriptions) Append(term Offset, id uint64, date uint16, concept, module, kind, caseSig Offset, active bool, language byte) Offset {
	off := d.f.append()
	slot := d.f.slot(off)
	binary.LittleEndian.PutUint32(slot[dfTerm:], uint32(term))
	binary.LittleEndian.PutUint64(slot[dfID:], id)
	binary.LittleEndian.PutUint16(slot[dfDate:], date)
	binary.LittleEndian.PutUint32(slot[dfConcept:], uint32(concept))
	binary.LittleEndian.PutUint32(slot[dfModule:], uint32(module))
	binary.LittleEndian.PutUint32(slot[dfKind:], uint32(kind))
	binary.LittleEndian.PutUint32(slot[dfCaseSig:], uint32(caseSig))
	if active {
		slot[dfActive] = 1
	}
	slot[dfLanguage] = language
	return off
}

func (d *Descriptions) Count() int            { return d.f.Count() }
func (d *Descriptions) OffsetOf(n int) Offset { return d.f.OffsetOf(n) }
func (d *Descriptions) Bytes() []byte         { return d.f.Bytes() }
func (d *Descriptions) Len() int              { return d.f.Len() }

func (d *Descriptions) Term(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(d.f.slot(offset)[dfTerm:]))
}
func (d *Descriptions) ID(offset Offset) uint64 {
	return binary.LittleEndian.Uint64(d.f.slot(offset)[dfID:])
}
func (d *Descriptions) Date(offset Offset) uint16 {
	return binary.LittleEndian.Uint16(d.f.slot(offset)[dfDate:])
}
func (d *Descriptions) Concept(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(d.f.slot(offset)[dfConcept:]))
}
func (d *Descriptions) Module(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(d.f.slot(offset)[dfModule:]))
}
func (d *Descriptions) Kind(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(d.f.slot(offset)[dfKind:]))
}
func (d *Descriptions) CaseSignificance(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(d.f.slot(offset)[dfCaseSig:]))
}
func (d *Descriptions) Active(offset Offset) bool {
	return d.f.slot(offset)[dfActive] != 0
}
func (d *Descriptions) Language(offset Offset) byte {
	return d.f.slot(offset)[dfLanguage]
}
func (d *Descriptions) Refsets(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(d.f.slot(offset)[dfRefsets:]))
}
func (d *Descriptions) SetRefsets(offset Offset, ref Offset) {
	binary.LittleEndian.PutUint32(d.f.slot(offset)[dfRefsets:], uint32(ref))
}
