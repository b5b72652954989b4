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

	"github.com/wardle/go-terminology/rf2"
	"github.com/wardle/go-terminology/snomed"
)

// readConcepts reads every Concept snapshot file (§4.4 phase 2), rejecting a
// duplicate identifier outright: seeing the same SCTID twice means this isn't
// a snapshot, and the closure/depth machinery that follows assumes one row
// per concept.
func (imp *importer) readConcepts(files []rf2.File) ([]rf2.ConceptRow, error) {
	var rows []rf2.ConceptRow
	seen := make(map[uint64]bool)
	for _, f := range files {
		if f.Kind != rf2.KindConcept {
			continue
		}
		if err := imp.scanRows(f, func(fields []string, line int) error {
			row, err := rf2.ParseConceptRow(fields)
			if err != nil {
				logger.Printf("%s:%d: skipping malformed concept row: %v", f.Path, line, err)
				return nil
			}
			if seen[row.ID] {
				return fmt.Errorf("%w: concept %d (%s:%d)", ErrDuplicateIdentifier, row.ID, f.Path, line)
			}
			seen[row.ID] = true
			rows = append(rows, row)
			return nil
		}); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// buildConcepts appends rows (already sorted ascending by SCTID) to the
// CONCEPT store and records each concept's offset, recording its
// effective-time as a 16-bit day count (§4.4 phase 4). A row whose date
// overflows the representable range is fatal: it would silently corrupt
// every later concept's day count were it merely skipped.
func (imp *importer) buildConcepts(rows []rf2.ConceptRow) error {
	for i, row := range rows {
		if i%4096 == 0 {
			if err := imp.token.DeadCheck("build concept cache"); err != nil {
				return err
			}
		}
		day, err := snomed.ParseEffectiveTime(row.EffectiveTime)
		if err != nil {
			return fmt.Errorf("%w: concept %d: %v", ErrDateOutOfRange, row.ID, err)
		}
		off := imp.c.Concepts.Append(row.ID, day, !row.Active)
		imp.c.Concepts.SetSufficientlyDefined(off, snomed.ID(row.DefinitionStatusID) == snomed.Defined)
		imp.offsetByConcept[row.ID] = off
		if snomed.ID(row.ID) == snomed.IsA {
			imp.isA = off
			imp.c.IsA = off
		}
	}
	return nil
}
