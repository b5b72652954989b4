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

const relationshipRecordSize = 32

const (
	rfID     = 0  // uint64
	rfSource = 8  // uint32 concept-offset
	rfTarget = 12 // uint32 concept-offset
	rfType   = 16 // uint32 concept-offset
	rfDate   = 20 // uint16
	rfFlags  = 22 // uint8: bit0 active, bit1 defining
	rfGroup  = 23 // uint16 relationship-group number
	// 25..31 reserved
)

const (
	relFlagActive   = 1 << 0
	relFlagDefining = 1 << 1
)

// Relationships is the RELATIONSHIP store.
type Relationships struct {
	f *fixed
}

// NewRelationships creates an empty, appendable relationship store.
func NewRelationships() *Relationships {
	return &Relationships{f: newFixed(relationshipRecordSize)}
}

// WrapRelationships reopens a previously-encoded relationship store for reading.
func WrapRelationships(data []byte) *Relationships {
	return &Relationships{f: wrapFixed(data, relationshipRecordSize)}
}

// Append reserves a new relationship slot.
func (r *Relationships) Append(id uint64, source, target, typ Offset, date uint16, active, defining bool, group uint16) Offset {
	off := r.f.append()
	slot := r.f.slot(off)
	binary.LittleEndian.PutUint64(slot[rfID:], id)
	binary.LittleEndian.PutUint32(slot[rfSource:], uint32(source))
	binary.LittleEndian.PutUint32(slot[rfTarget:], uint32(target))
	binary.LittleEndian.PutUint32(slot[rfType:], uint32(typ))
	binary.LittleEndian.PutUint16(slot[rfDate:], date)
	var flags byte
	if active {
		flags |= relFlagActive
	}
	if defining {
		flags |= relFlagDefining
	}
	slot[rfFlags] = flags
	binary.LittleEndian.PutUint16(slot[rfGroup:], group)
	return off
}

func (r *Relationships) Count() int            { return r.f.Count() }
func (r *Relationships) OffsetOf(n int) Offset { return r.f.OffsetOf(n) }
func (r *Relationships) Bytes() []byte         { return r.f.Bytes() }
func (r *Relationships) Len() int              { return r.f.Len() }

func (r *Relationships) ID(offset Offset) uint64 {
	return binary.LittleEndian.Uint64(r.f.slot(offset)[rfID:])
}
func (r *Relationships) Source(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(r.f.slot(offset)[rfSource:]))
}
func (r *Relationships) Target(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(r.f.slot(offset)[rfTarget:]))
}
func (r *Relationships) Type(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(r.f.slot(offset)[rfType:]))
}
func (r *Relationships) Date(offset Offset) uint16 {
	return binary.LittleEndian.Uint16(r.f.slot(offset)[rfDate:])
}
func (r *Relationships) Active(offset Offset) bool {
	return r.f.slot(offset)[rfFlags]&relFlagActive != 0
}
func (r *Relationships) Defining(offset Offset) bool {
	return r.f.slot(offset)[rfFlags]&relFlagDefining != 0
}
func (r *Relationships) Group(offset Offset) uint16 {
	return binary.LittleEndian.Uint16(r.f.slot(offset)[rfGroup:])
}
