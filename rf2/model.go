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

// Package rf2 defines the specification for SNOMED-CT release files in the
// RF2 format and the low-level machinery (file discovery, tab-separated row
// scanning) needed to read them.
// See https://confluence.ihtsdotools.org/display/DOCRELFMT/SNOMED+CT+Release+File+Specifications
//
// These structures are raw representations of release rows; they carry no
// behaviour of their own. The importer resolves them against the packed
// stores to build a working cache.
//
// NB: only snapshot files are supported; a full distribution, which carries
// multiple versions of the same component, is rejected as a duplicate
// identifier error during import.
package rf2

// ConceptRow is a single row of a Concept snapshot file.
type ConceptRow struct {
	ID                 uint64
	EffectiveTime      string // raw YYYYMMDD
	Active             bool
	ModuleID           uint64
	DefinitionStatusID uint64
}

// DescriptionRow is a single row of a Description (or TextDefinition) snapshot file.
type DescriptionRow struct {
	ID                 uint64
	EffectiveTime      string
	Active             bool
	ModuleID           uint64
	ConceptID          uint64
	LanguageCode       string
	TypeID             uint64
	Term               string
	CaseSignificanceID uint64
}

// RelationshipRow is a single row of a Relationship snapshot file.
type RelationshipRow struct {
	ID                   uint64
	EffectiveTime        string
	Active               bool
	ModuleID             uint64
	SourceID             uint64
	DestinationID        uint64
	RelationshipGroup    int
	TypeID               uint64
	CharacteristicTypeID uint64
	ModifierID           uint64
}

// RefsetMemberRow is a single row of a reference set snapshot file. Columns
// beyond the standard six carry the refset-specific typed fields, in the
// order they appear in the file; the importer maps them using the
// refset-descriptor field-type signature derived from the filename.
type RefsetMemberRow struct {
	ID                    string // UUID
	EffectiveTime         string
	Active                bool
	ModuleID              uint64
	RefsetID              uint64
	ReferencedComponentID uint64
	ExtraFields           []string
}
