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

package importer

import (
	"fmt"

	"github.com/wardle/go-terminology/cache"
	"github.com/wardle/go-terminology/lang"
	"github.com/wardle/go-terminology/rf2"
	"github.com/wardle/go-terminology/snomed"
)

// readDescriptions reads every Description (or TextDefinition) snapshot file
// (§4.4 phase 5).
func (imp *importer) readDescriptions(files []rf2.File) ([]rf2.DescriptionRow, error) {
	var rows []rf2.DescriptionRow
	for _, f := range files {
		if f.Kind != rf2.KindDescription {
			continue
		}
		if err := imp.scanRows(f, func(fields []string, line int) error {
			row, err := rf2.ParseDescriptionRow(fields)
			if err != nil {
				logger.Printf("%s:%d: skipping malformed description row: %v", f.Path, line, err)
				return nil
			}
			rows = append(rows, row)
			return nil
		}); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// buildDescriptions appends rows (already sorted ascending by id) to the
// DESCRIPTION store, builds the DESCRIPTION-ID-INDEX alongside it, and
// records each concept's description offsets for linking in a later phase
// (§4.4 phases 6-7). A row referencing a concept or description-type concept
// that isn't in this release is skipped and logged: the description simply
// can't be attached or classified.
func (imp *importer) buildDescriptions(rows []rf2.DescriptionRow) error {
	entries := make([]cache.DescriptionIndexEntry, 0, len(rows))
	for i, row := range rows {
		if i%4096 == 0 {
			if err := imp.token.DeadCheck("build description cache"); err != nil {
				return err
			}
		}
		concept, ok := imp.offsetByConcept[row.ConceptID]
		if !ok {
			logger.Printf("description %d: concept %d not found, skipping", row.ID, row.ConceptID)
			continue
		}
		kind, ok := imp.offsetByConcept[row.TypeID]
		if !ok {
			logger.Printf("description %d: type concept %d not found, skipping", row.ID, row.TypeID)
			continue
		}
		module := imp.offsetByConcept[row.ModuleID] // 0 if unresolved: non-essential metadata
		caseSig := imp.offsetByConcept[row.CaseSignificanceID]

		day, err := snomed.ParseEffectiveTime(row.EffectiveTime)
		if err != nil {
			return fmt.Errorf("%w: description %d: %v", ErrDateOutOfRange, row.ID, err)
		}

		term := imp.c.Strings.Append(row.Term)
		langCode := lang.ParseCode(row.LanguageCode)
		off := imp.c.Descriptions.Append(term, row.ID, day, concept, module, kind, caseSig, row.Active, byte(langCode))

		imp.offsetByDescription[row.ID] = off
		imp.descriptionsOf[concept] = append(imp.descriptionsOf[concept], off)
		entries = append(entries, cache.DescriptionIndexEntry{ID: row.ID, Offset: off})
	}
	imp.c.DescriptionIndex = entries
	return nil
}
