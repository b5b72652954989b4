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

package snomed

// Well-known SNOMED CT metadata concept identifiers used throughout import
// and query. Most of these identify concepts in the metadata hierarchy and
// are used as "magic" sentinels because the RF2 release itself uses SNOMED
// concepts to populate what would, in another scheme, be enumerations.

// IsA is the defining subsumption relationship: "is a".
const IsA ID = 116680003

// DefinitionStatusID values: whether a concept is fully defined or primitive.
const (
	Primitive ID = 900000000000074008
	Defined   ID = 900000000000073002
)

// DescriptionTypeID values.
const (
	Definition         ID = 900000000000550004
	FullySpecifiedName ID = 900000000000003001
	Synonym            ID = 900000000000013009
)

// CaseSignificanceID values.
const (
	EntireTermCaseInsensitive     ID = 900000000000448009
	EntireTermCaseSensitive       ID = 900000000000017005
	InitialCharacterCaseSensitive ID = 900000000000020002
)

// CharacteristicTypeID values. A relationship is "defining" (spec §4.4 phase
// 9, §9 open questions) if its characteristic type is stated, inferred, or
// the (rarely seen) generic "defining" value; we retain that permissive
// behaviour deliberately, matching the source this was distilled from.
const (
	AdditionalRelationship ID = 900000000000227009
	DefiningRelationship   ID = 900000000000006009 // has children: inferred and stated
	InferredRelationship   ID = 900000000000011006
	StatedRelationship     ID = 900000000000010007
	QualifyingRelationship ID = 900000000000225001
)

// IsDefiningCharacteristic reports whether a characteristic-type identifier
// marks a relationship as contributing to a concept's logical definition.
func IsDefiningCharacteristic(characteristicTypeID ID) bool {
	switch characteristicTypeID {
	case DefiningRelationship, InferredRelationship, StatedRelationship:
		return true
	default:
		return false
	}
}

// Reference set root and kind identifiers.
const (
	RootRefset             ID = 900000000000455006
	RefsetDescriptorRefset ID = 900000000000456007
	SimpleRefset           ID = 446609009
	LanguageRefset         ID = 900000000000506000
	SimpleMapRefset        ID = 900000000000496009
	ComplexMapRefset       ID = 447250001
	ExtendedMapRefset      ID = 609331003
)

// Acceptability values used within language reference sets.
const (
	Acceptable ID = 900000000000549004
	Preferred  ID = 900000000000548007
)

// Status strings returned by query.GetStatus, matching the taxonomy implied
// by spec §4.7 (`getStatus(ctx) -> "active" | "inactive" | "retired" | …`).
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)
