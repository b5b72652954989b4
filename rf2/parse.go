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

package rf2

import (
	"fmt"
	"strconv"
)

// ParseConceptRow parses the standard five-column Concept snapshot row.
func ParseConceptRow(fields []string) (ConceptRow, error) {
	if len(fields) < 5 {
		return ConceptRow{}, fmt.Errorf("concept row: expected 5 columns, got %d", len(fields))
	}
	id, err := parseUint64(fields[0])
	if err != nil {
		return ConceptRow{}, fmt.Errorf("concept id: %w", err)
	}
	active, err := parseBool(fields[2])
	if err != nil {
		return ConceptRow{}, fmt.Errorf("concept %d active flag: %w", id, err)
	}
	moduleID, err := parseUint64(fields[3])
	if err != nil {
		return ConceptRow{}, fmt.Errorf("concept %d module: %w", id, err)
	}
	defStatus, err := parseUint64(fields[4])
	if err != nil {
		return ConceptRow{}, fmt.Errorf("concept %d definitionStatusId: %w", id, err)
	}
	return ConceptRow{
		ID:                 id,
		EffectiveTime:      fields[1],
		Active:             active,
		ModuleID:           moduleID,
		DefinitionStatusID: defStatus,
	}, nil
}

// ParseDescriptionRow parses the standard nine-column Description snapshot row.
func ParseDescriptionRow(fields []string) (DescriptionRow, error) {
	if len(fields) < 9 {
		return DescriptionRow{}, fmt.Errorf("description row: expected 9 columns, got %d", len(fields))
	}
	id, err := parseUint64(fields[0])
	if err != nil {
		return DescriptionRow{}, fmt.Errorf("description id: %w", err)
	}
	active, err := parseBool(fields[2])
	if err != nil {
		return DescriptionRow{}, fmt.Errorf("description %d active flag: %w", id, err)
	}
	moduleID, err := parseUint64(fields[3])
	if err != nil {
		return DescriptionRow{}, fmt.Errorf("description %d module: %w", id, err)
	}
	conceptID, err := parseUint64(fields[4])
	if err != nil {
		return DescriptionRow{}, fmt.Errorf("description %d concept: %w", id, err)
	}
	typeID, err := parseUint64(fields[6])
	if err != nil {
		return DescriptionRow{}, fmt.Errorf("description %d typeId: %w", id, err)
	}
	caseSig, err := parseUint64(fields[8])
	if err != nil {
		return DescriptionRow{}, fmt.Errorf("description %d caseSignificanceId: %w", id, err)
	}
	return DescriptionRow{
		ID:                 id,
		EffectiveTime:      fields[1],
		Active:             active,
		ModuleID:           moduleID,
		ConceptID:          conceptID,
		LanguageCode:       fields[5],
		TypeID:             typeID,
		Term:               fields[7],
		CaseSignificanceID: caseSig,
	}, nil
}

// ParseRelationshipRow parses the standard ten-column Relationship snapshot row.
func ParseRelationshipRow(fields []string) (RelationshipRow, error) {
	if len(fields) < 10 {
		return RelationshipRow{}, fmt.Errorf("relationship row: expected 10 columns, got %d", len(fields))
	}
	id, err := parseUint64(fields[0])
	if err != nil {
		return RelationshipRow{}, fmt.Errorf("relationship id: %w", err)
	}
	active, err := parseBool(fields[2])
	if err != nil {
		return RelationshipRow{}, fmt.Errorf("relationship %d active flag: %w", id, err)
	}
	moduleID, err := parseUint64(fields[3])
	if err != nil {
		return RelationshipRow{}, fmt.Errorf("relationship %d module: %w", id, err)
	}
	sourceID, err := parseUint64(fields[4])
	if err != nil {
		return RelationshipRow{}, fmt.Errorf("relationship %d sourceId: %w", id, err)
	}
	destID, err := parseUint64(fields[5])
	if err != nil {
		return RelationshipRow{}, fmt.Errorf("relationship %d destinationId: %w", id, err)
	}
	group, err := strconv.Atoi(fields[6])
	if err != nil {
		return RelationshipRow{}, fmt.Errorf("relationship %d relationshipGroup: %w", id, err)
	}
	typeID, err := parseUint64(fields[7])
	if err != nil {
		return RelationshipRow{}, fmt.Errorf("relationship %d typeId: %w", id, err)
	}
	charType, err := parseUint64(fields[8])
	if err != nil {
		return RelationshipRow{}, fmt.Errorf("relationship %d characteristicTypeId: %w", id, err)
	}
	modifier, err := parseUint64(fields[9])
	if err != nil {
		return RelationshipRow{}, fmt.Errorf("relationship %d modifierId: %w", id, err)
	}
	return RelationshipRow{
		ID:                   id,
		EffectiveTime:        fields[1],
		Active:               active,
		ModuleID:             moduleID,
		SourceID:             sourceID,
		DestinationID:        destID,
		RelationshipGroup:    group,
		TypeID:               typeID,
		CharacteristicTypeID: charType,
		ModifierID:           modifier,
	}, nil
}

// ParseRefsetMemberRow parses the common six-column refset member prefix;
// any remaining columns are returned verbatim as ExtraFields for the
// importer to decode using the refset's field-type signature.
func ParseRefsetMemberRow(fields []string) (RefsetMemberRow, error) {
	if len(fields) < 6 {
		return RefsetMemberRow{}, fmt.Errorf("refset member row: expected at least 6 columns, got %d", len(fields))
	}
	active, err := parseBool(fields[2])
	if err != nil {
		return RefsetMemberRow{}, fmt.Errorf("refset member %s active flag: %w", fields[0], err)
	}
	moduleID, err := parseUint64(fields[3])
	if err != nil {
		return RefsetMemberRow{}, fmt.Errorf("refset member %s module: %w", fields[0], err)
	}
	refsetID, err := parseUint64(fields[4])
	if err != nil {
		return RefsetMemberRow{}, fmt.Errorf("refset member %s refsetId: %w", fields[0], err)
	}
	componentID, err := parseUint64(fields[5])
	if err != nil {
		return RefsetMemberRow{}, fmt.Errorf("refset member %s referencedComponentId: %w", fields[0], err)
	}
	var extra []string
	if len(fields) > 6 {
		extra = fields[6:]
	}
	return RefsetMemberRow{
		ID:                    fields[0],
		EffectiveTime:         fields[1],
		Active:                active,
		ModuleID:              moduleID,
		RefsetID:              refsetID,
		ReferencedComponentID: componentID,
		ExtraFields:           extra,
	}, nil
}
