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

// Package refset implements the reference-set layer: discovery, typed
// additional-field access, and language-refset handling (§4.8).
package refset

import (
	"fmt"

	"github.com/wardle/go-terminology/snomed"
	"github.com/wardle/go-terminology/store"
)

// FieldKind is the type of one reference set's additional column, decoded
// from the filename suffix preceding "Refset" (§4.4 phase 13: c/i/s map to
// concept/integer/string).
type FieldKind uint32

const (
	FieldConcept FieldKind = iota
	FieldInteger
	FieldString
)

// ParseFieldKind maps one filename-suffix character onto a FieldKind.
func ParseFieldKind(ch byte) (FieldKind, bool) {
	switch ch {
	case 'c', 'C':
		return FieldConcept, true
	case 'i', 'I':
		return FieldInteger, true
	case 's', 'S':
		return FieldString, true
	default:
		return 0, false
	}
}

// Layer exposes the reference-set operations consumed by the query layer:
// per-component membership, per-refset enumeration, and typed field access.
type Layer struct {
	Index    *store.RefsetIndex
	Members  *store.RefsetMembers
	Refs     *store.Refs
	Strings  *store.Strings
	Concepts *store.Concepts
}

// New wraps the built refset stores for querying.
func New(idx *store.RefsetIndex, members *store.RefsetMembers, refs *store.Refs, strings *store.Strings, concepts *store.Concepts) *Layer {
	return &Layer{Index: idx, Members: members, Refs: refs, Strings: strings, Concepts: concepts}
}

// Acceptability classifies a description's standing within one language
// reference set: Preferred, Acceptable, or (if neither) Unacceptable.
type Acceptability int

const (
	Unacceptable Acceptability = iota
	AcceptableValue
	PreferredValue
)

// IsAcceptable reports whether a is acceptable but not preferred in the
// language refset it was classified against.
func (a Acceptability) IsAcceptable() bool { return a == AcceptableValue }

// IsPreferred reports whether a is the preferred term in the language
// refset it was classified against.
func (a Acceptability) IsPreferred() bool { return a == PreferredValue }

// IsUnacceptable reports whether a is neither acceptable nor preferred: a
// description not marked either way in its language refset is unacceptable
// for that language.
func (a Acceptability) IsUnacceptable() bool { return a == Unacceptable }

// ClassifyAcceptability resolves a language-refset member's values list
// (the interleaved acceptabilityId field recorded for one description's
// membership, per ComponentValues) into its Acceptability.
func (l *Layer) ClassifyAcceptability(values store.Offset) Acceptability {
	for _, v := range l.Refs.Read(values) {
		switch snomed.ID(l.Concepts.SCTID(store.Offset(v))) {
		case snomed.Preferred:
			return PreferredValue
		case snomed.Acceptable:
			return AcceptableValue
		}
	}
	return Unacceptable
}

// Title returns a refset's display title.
func (l *Layer) Title(refset store.Offset) string {
	return l.Strings.Get(l.Index.Title(refset))
}

// MembersByRef returns a refset's member offsets sorted by referenced
// component.
func (l *Layer) MembersByRef(refset store.Offset) []store.Offset {
	return l.Refs.ReadOffsets(l.Index.MembersByRef(refset))
}

// MembersByDisplay returns a refset's member offsets sorted by display text.
func (l *Layer) MembersByDisplay(refset store.Offset) []store.Offset {
	return l.Refs.ReadOffsets(l.Index.MembersByDisplay(refset))
}

// FieldKinds decodes a refset's additional-field type signature.
func (l *Layer) FieldKinds(refset store.Offset) []FieldKind {
	raw := l.Refs.Read(l.Index.FieldTypes(refset))
	out := make([]FieldKind, len(raw))
	for i, v := range raw {
		out[i] = FieldKind(v)
	}
	return out
}

// FieldNames decodes a refset's additional-field names.
func (l *Layer) FieldNames(refset store.Offset) []string {
	offs := l.Refs.ReadOffsets(l.Index.FieldNames(refset))
	out := make([]string, len(offs))
	for i, o := range offs {
		out[i] = l.Strings.Get(o)
	}
	return out
}

// IsLanguageRefset reports whether refset carries a non-zero language
// bitmap, set during import for refsets found under a directory whose name
// contains "language" (§4.4 phase 13).
func (l *Layer) IsLanguageRefset(refset store.Offset) bool {
	return l.Index.LanguageBitmap(refset) != 0
}

// FieldValue returns the raw uint32 payload of member's i'th additional
// field: a concept-offset for FieldConcept, a literal integer for
// FieldInteger, or a string-offset for FieldString.
func (l *Layer) FieldValue(member store.Offset, i int) (uint32, bool) {
	vals := l.Refs.Read(l.Members.Values(member))
	if i < 0 || i >= len(vals) {
		return 0, false
	}
	return vals[i], true
}

// ConceptField resolves member's i'th field as a concept-offset, failing if
// the field is not of kind FieldConcept.
func (l *Layer) ConceptField(refset, member store.Offset, i int) (store.Offset, error) {
	kinds := l.FieldKinds(refset)
	if i < 0 || i >= len(kinds) || kinds[i] != FieldConcept {
		return 0, fmt.Errorf("refset: field %d is not a concept field", i)
	}
	v, ok := l.FieldValue(member, i)
	if !ok {
		return 0, fmt.Errorf("refset: member has no field %d", i)
	}
	return store.Offset(v), nil
}

// StringField resolves member's i'th field as a string, failing if the
// field is not of kind FieldString.
func (l *Layer) StringField(refset, member store.Offset, i int) (string, error) {
	kinds := l.FieldKinds(refset)
	if i < 0 || i >= len(kinds) || kinds[i] != FieldString {
		return "", fmt.Errorf("refset: field %d is not a string field", i)
	}
	v, ok := l.FieldValue(member, i)
	if !ok {
		return "", fmt.Errorf("refset: member has no field %d", i)
	}
	return l.Strings.Get(store.Offset(v)), nil
}

// IntegerField resolves member's i'th field as an integer, failing if the
// field is not of kind FieldInteger.
func (l *Layer) IntegerField(refset, member store.Offset, i int) (int32, error) {
	kinds := l.FieldKinds(refset)
	if i < 0 || i >= len(kinds) || kinds[i] != FieldInteger {
		return 0, fmt.Errorf("refset: field %d is not an integer field", i)
	}
	v, ok := l.FieldValue(member, i)
	if !ok {
		return 0, fmt.Errorf("refset: member has no field %d", i)
	}
	return int32(v), nil
}

// ComponentHasMember reports whether the refs-list at componentRefsets (a
// concept's or description's interleaved refset-offset/values-offset pairs,
// per the CONCEPT/DESCRIPTION store layout) includes refsetConcept.
func ComponentHasMember(refs *store.Refs, componentRefsets store.Offset, refsetConcept store.Offset) bool {
	_, ok := ComponentValues(refs, componentRefsets, refsetConcept)
	return ok
}

// ComponentValues returns the values-offset recorded against refsetConcept
// in componentRefsets, the interleaved (refset-offset, values-offset) pair
// list held on a concept or description (§3: "refs-offset of this
// concept's/description's refset-membership list").
func ComponentValues(refs *store.Refs, componentRefsets store.Offset, refsetConcept store.Offset) (store.Offset, bool) {
	pairs := refs.Read(componentRefsets)
	for i := 0; i+1 < len(pairs); i += 2 {
		if store.Offset(pairs[i]) == refsetConcept {
			return store.Offset(pairs[i+1]), true
		}
	}
	return 0, false
}
