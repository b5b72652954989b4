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

// Package index implements the sorted-array lookups that let the query
// layer turn an identifier or a word into a store offset in O(log n): the
// concept identity index, the description identity index, and the word/stem
// text indices (§4.3).
package index

import (
	"sort"

	"github.com/wardle/go-terminology/cache"
	"github.com/wardle/go-terminology/store"
)

// ConceptIndex looks up a concept's store offset by SCTID. It requires the
// backing CONCEPT store's records to be in strictly ascending SCTID order,
// which the importer guarantees by sorting concepts before phase 4
// (build concept cache).
type ConceptIndex struct {
	concepts *store.Concepts
}

// NewConceptIndex wraps concepts for identity lookup.
func NewConceptIndex(concepts *store.Concepts) *ConceptIndex {
	return &ConceptIndex{concepts: concepts}
}

// Lookup returns the offset of the concept with the given SCTID, and
// whether it was found.
func (x *ConceptIndex) Lookup(sctid uint64) (store.Offset, bool) {
	n := x.concepts.Count()
	i := sort.Search(n, func(i int) bool {
		return x.concepts.SCTID(x.concepts.OffsetOf(i)) >= sctid
	})
	if i == n {
		return 0, false
	}
	off := x.concepts.OffsetOf(i)
	if x.concepts.SCTID(off) != sctid {
		return 0, false
	}
	return off, true
}

// Len reports the number of indexed concepts.
func (x *ConceptIndex) Len() int { return x.concepts.Count() }

// At returns the offset of the nth concept (0-based), in ascending SCTID
// order. Used by closure-building and by iteration over all concepts.
func (x *ConceptIndex) At(n int) store.Offset { return x.concepts.OffsetOf(n) }

// DescriptionIndex looks up a description's store offset by description id.
type DescriptionIndex struct {
	entries []cache.DescriptionIndexEntry
}

// NewDescriptionIndex wraps a sorted description-id index, as produced by
// the importer (phase 7) and persisted verbatim in the cache file.
func NewDescriptionIndex(entries []cache.DescriptionIndexEntry) *DescriptionIndex {
	return &DescriptionIndex{entries: entries}
}

// Lookup returns the offset of the description with the given id.
func (x *DescriptionIndex) Lookup(id uint64) (store.Offset, bool) {
	n := len(x.entries)
	i := sort.Search(n, func(i int) bool { return x.entries[i].ID >= id })
	if i == n || x.entries[i].ID != id {
		return 0, false
	}
	return x.entries[i].Offset, true
}

// BuildDescriptionIndex sorts pairs collected during import (phase 6/7) into
// the persisted entry form.
func BuildDescriptionIndex(pairs []cache.DescriptionIndexEntry) []cache.DescriptionIndexEntry {
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].ID < pairs[j].ID })
	return pairs
}
