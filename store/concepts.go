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

// conceptRecordSize is ~56 bytes (spec §3): 7 reserved bytes trail the
// defined fields for forward compatibility without reflowing the layout.
const conceptRecordSize = 56

// byte offsets within a concept record
const (
	cfSCTID          = 0  // uint64
	cfEffectiveDate  = 8  // uint16
	cfStatusFlags    = 10 // uint8: bit 0 = inactive
	cfActiveParents  = 11 // uint32 refs-offset
	cfInactiveParent = 15 // uint32 refs-offset
	cfDescriptions   = 19 // uint32 refs-offset
	cfOutbound       = 23 // uint32 refs-offset
	cfInbound        = 27 // uint32 refs-offset
	cfAllDesc        = 31 // uint32: refs-offset OR sentinel
	cfRefsets        = 35 // uint32 refs-offset (interleaved refset-offset/values-offset pairs)
	cfStems          = 39 // uint32 refs-offset
	cfNormalForm     = 43 // uint32 string-offset
	cfDepth          = 47 // uint8
	cfDefStatus      = 48 // uint8: 1 if sufficiently defined, 0 if primitive
	// 49..55 reserved
)

const statusInactive = 1 << 0
const defStatusDefined = 1 << 0

// Concepts is the CONCEPT store: one fixed-width record per concept.
type Concepts struct {
	f *fixed
}

// NewConcepts creates an empty, appendable concept store.
func NewConcepts() *Concepts {
	return &Concepts{f: newFixed(conceptRecordSize)}
}

// WrapConcepts reopens a previously-encoded concept store for reading.
func WrapConcepts(data []byte) *Concepts {
	return &Concepts{f: wrapFixed(data, conceptRecordSize)}
}

// Append reserves a new concept slot with the given identity, returning its
// offset. Cross-references (parents, descriptions, closure, ...) are filled
// in later via the setters below, once every concept has been appended.
func (c *Concepts) Append(sctid uint64, effectiveDate uint16, inactive bool) Offset {
	off := c.f.append()
	slot := c.f.slot(off)
	binary.LittleEndian.PutUint64(slot[cfSCTID:], sctid)
	binary.LittleEndian.PutUint16(slot[cfEffectiveDate:], effectiveDate)
	if inactive {
		slot[cfStatusFlags] = statusInactive
	}
	binary.LittleEndian.PutUint32(slot[cfAllDesc:], uint32(NoDescendants))
	return off
}

func (c *Concepts) Count() int            { return c.f.Count() }
func (c *Concepts) OffsetOf(n int) Offset { return c.f.OffsetOf(n) }
func (c *Concepts) Bytes() []byte         { return c.f.Bytes() }
func (c *Concepts) Len() int              { return c.f.Len() }

// SCTID returns the identifier of the concept at offset.
func (c *Concepts) SCTID(offset Offset) uint64 {
	return binary.LittleEndian.Uint64(c.f.slot(offset)[cfSCTID:])
}

// EffectiveDate returns the concept's stored effective-date day offset.
func (c *Concepts) EffectiveDate(offset Offset) uint16 {
	return binary.LittleEndian.Uint16(c.f.slot(offset)[cfEffectiveDate:])
}

// IsInactive reports whether the concept's inactive bit is set.
func (c *Concepts) IsInactive(offset Offset) bool {
	return c.f.slot(offset)[cfStatusFlags]&statusInactive != 0
}

// ActiveParents returns the refs-offset of this concept's active parents list.
func (c *Concepts) ActiveParents(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(c.f.slot(offset)[cfActiveParents:]))
}

// InactiveParents returns the refs-offset of this concept's inactive parents list.
func (c *Concepts) InactiveParents(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(c.f.slot(offset)[cfInactiveParent:]))
}

// Descriptions returns the refs-offset of this concept's description list.
func (c *Concepts) Descriptions(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(c.f.slot(offset)[cfDescriptions:]))
}

// Outbound returns the refs-offset of this concept's outbound relationship list.
func (c *Concepts) Outbound(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(c.f.slot(offset)[cfOutbound:]))
}

// Inbound returns the refs-offset of this concept's inbound relationship list.
func (c *Concepts) Inbound(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(c.f.slot(offset)[cfInbound:]))
}

// AllDescendants returns the raw all-descendants field: either a refs-offset,
// or one of NoDescendants / InProgressDesc.
func (c *Concepts) AllDescendants(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(c.f.slot(offset)[cfAllDesc:]))
}

// Refsets returns the refs-offset of this concept's refset-membership list.
func (c *Concepts) Refsets(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(c.f.slot(offset)[cfRefsets:]))
}

// Stems returns the refs-offset of this concept's stem-id list.
func (c *Concepts) Stems(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(c.f.slot(offset)[cfStems:]))
}

// NormalForm returns the string-offset of this concept's cached normal form,
// or 0 if none was recorded (normal form identical to the bare concept).
func (c *Concepts) NormalForm(offset Offset) Offset {
	return Offset(binary.LittleEndian.Uint32(c.f.slot(offset)[cfNormalForm:]))
}

// Depth returns the concept's reachable-shortest-path depth from an active root.
func (c *Concepts) Depth(offset Offset) uint8 {
	return c.f.slot(offset)[cfDepth]
}

// IsSufficientlyDefined reports whether the concept carries a formal logic
// definition sufficient to distinguish it from other similar concepts, as
// opposed to being primitive.
func (c *Concepts) IsSufficientlyDefined(offset Offset) bool {
	return c.f.slot(offset)[cfDefStatus]&defStatusDefined != 0
}

// setters, used only during linking (§4.4 phase 10 onward) once every
// concept has an assigned offset.

func (c *Concepts) SetActiveParents(offset Offset, ref Offset) {
	binary.LittleEndian.PutUint32(c.f.slot(offset)[cfActiveParents:], uint32(ref))
}
func (c *Concepts) SetInactiveParents(offset Offset, ref Offset) {
	binary.LittleEndian.PutUint32(c.f.slot(offset)[cfInactiveParent:], uint32(ref))
}
func (c *Concepts) SetDescriptions(offset Offset, ref Offset) {
	binary.LittleEndian.PutUint32(c.f.slot(offset)[cfDescriptions:], uint32(ref))
}
func (c *Concepts) SetOutbound(offset Offset, ref Offset) {
	binary.LittleEndian.PutUint32(c.f.slot(offset)[cfOutbound:], uint32(ref))
}
func (c *Concepts) SetInbound(offset Offset, ref Offset) {
	binary.LittleEndian.PutUint32(c.f.slot(offset)[cfInbound:], uint32(ref))
}
func (c *Concepts) SetAllDescendants(offset Offset, ref Offset) {
	binary.LittleEndian.PutUint32(c.f.slot(offset)[cfAllDesc:], uint32(ref))
}
func (c *Concepts) SetRefsets(offset Offset, ref Offset) {
	binary.LittleEndian.PutUint32(c.f.slot(offset)[cfRefsets:], uint32(ref))
}
func (c *Concepts) SetStems(offset Offset, ref Offset) {
	binary.LittleEndian.PutUint32(c.f.slot(offset)[cfStems:], uint32(ref))
}
func (c *Concepts) SetNormalForm(offset Offset, strOffset Offset) {
	binary.LittleEndian.PutUint32(c.f.slot(offset)[cfNormalForm:], uint32(strOffset))
}
func (c *Concepts) SetDepth(offset Offset, depth uint8) {
	c.f.slot(offset)[cfDepth] = depth
}
func (c *Concepts) SetSufficientlyDefined(offset Offset, defined bool) {
	if defined {
		c.f.slot(offset)[cfDefStatus] |= defStatusDefined
	} else {
		c.f.slot(offset)[cfDefStatus] &^= defStatusDefined
	}
}
