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

// Package cache assembles the packed stores of package store into a single
// on-disk image: a type-tagged, length-prefixed binary format that must
// round-trip bit-exactly (§4.2, §6.1). It also knows how to memory-map a
// previously-written image back open for query use.
package cache

import (
	"github.com/wardle/go-terminology/store"
)

// CacheVersion identifies the codec generation written by this package. It
// is recorded in every cache file and is purely informational; the reader
// does not branch on it.
const CacheVersion = "go-terminology/2"

// Cache is the fully-built, in-memory image of one imported distribution: a
// release's worth of concepts, descriptions, relationships and reference
// sets, plus the small amount of identity metadata recorded alongside them.
//
// Cache owns every store; nothing outside it holds a heap pointer into a
// concept or description. Everything else in this module addresses into a
// Cache by Offset.
type Cache struct {
	Version string // codec generation, see CacheVersion
	URI     string // canonical code system URI for this edition/version
	Date    string // release date, RF2 YYYYMMDD form

	Strings       *store.Strings
	Refs          *store.Refs
	Descriptions  *store.Descriptions
	Words         *store.Words
	Stems         *store.Stems
	Concepts      *store.Concepts
	Relationships *store.Relationships
	RefsetIndex   *store.RefsetIndex
	RefsetMembers *store.RefsetMembers

	// DescriptionIndex is the DESCRIPTION-ID-INDEX: (description-id, offset)
	// pairs sorted ascending by id, packed on disk as fixed 12-byte records
	// (8-byte id, 4-byte offset); see codec.go.
	DescriptionIndex []DescriptionIndexEntry

	IsA Offset // concept-offset of the is-a relationship type concept

	InactiveRoots []uint64 // SCTIDs of roots with no active parent, inactive concepts
	ActiveRoots   []uint64 // SCTIDs of roots with no active parent, active concepts

	DefaultLanguage int32 // encoded lang.Code of the import's default language
}

// Offset is a store.Offset alias, kept local so callers of this package
// don't need to import package store just to spell the type of Cache.IsA.
type Offset = store.Offset

// DescriptionIndexEntry is one row of the description identity index.
type DescriptionIndexEntry struct {
	ID     uint64
	Offset store.Offset
}

// New returns an empty Cache with freshly-initialised, empty stores, ready
// for the importer to populate.
func New() *Cache {
	return &Cache{
		Version:       CacheVersion,
		Strings:       store.NewStrings(),
		Refs:          store.NewRefs(),
		Descriptions:  store.NewDescriptions(),
		Words:         store.NewWords(),
		Stems:         store.NewStems(),
		Concepts:      store.NewConcepts(),
		Relationships: store.NewRelationships(),
		RefsetIndex:   store.NewRefsetIndex(),
		RefsetMembers: store.NewRefsetMembers(),
	}
}
