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
	"sort"

	"github.com/wardle/go-terminology/closure"
	"github.com/wardle/go-terminology/rf2"
	"github.com/wardle/go-terminology/snomed"
	"github.com/wardle/go-terminology/store"
)

// readRelationships reads every inferred Relationship snapshot file
// (stated relationships were already excluded at discovery) (§4.4 phase 9).
func (imp *importer) readRelationships(files []rf2.File) ([]rf2.RelationshipRow, error) {
	var rows []rf2.RelationshipRow
	for _, f := range files {
		if f.Kind != rf2.KindRelationship {
			continue
		}
		if err := imp.scanRows(f, func(fields []string, line int) error {
			row, err := rf2.ParseRelationshipRow(fields)
			if err != nil {
				logger.Printf("%s:%d: skipping malformed relationship row: %v", f.Path, line, err)
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

// linkConcepts appends every relationship to the RELATIONSHIP store, links
// each concept's descriptions, active/inactive is-a parents and in/outbound
// relationship lists, and partitions parentless concepts into active and
// inactive roots (§4.4 phase 10). A relationship referencing an unresolvable
// concept is skipped and logged; it is never essential to the hierarchy by
// itself.
func (imp *importer) linkConcepts(rows []rf2.RelationshipRow) error {
	if imp.c.IsA == 0 {
		return ErrIsAMissing
	}

	for i, row := range rows {
		if i%8192 == 0 {
			if err := imp.token.DeadCheck("link relationships"); err != nil {
				return err
			}
		}
		source, ok := imp.offsetByConcept[row.SourceID]
		if !ok {
			logger.Printf("relationship %d: source concept %d not found, skipping", row.ID, row.SourceID)
			continue
		}
		target, ok := imp.offsetByConcept[row.DestinationID]
		if !ok {
			logger.Printf("relationship %d: destination concept %d not found, skipping", row.ID, row.DestinationID)
			continue
		}
		typ, ok := imp.offsetByConcept[row.TypeID]
		if !ok {
			logger.Printf("relationship %d: type concept %d not found, skipping", row.ID, row.TypeID)
			continue
		}
		day, err := snomed.ParseEffectiveTime(row.EffectiveTime)
		if err != nil {
			logger.Printf("relationship %d: %v, skipping", row.ID, err)
			continue
		}
		defining := snomed.IsDefiningCharacteristic(snomed.ID(row.CharacteristicTypeID))
		off := imp.c.Relationships.Append(row.ID, source, target, typ, day, row.Active, defining, uint16(row.RelationshipGroup))
		imp.offsetByRelationship[row.ID] = off

		imp.outboundOf[source] = append(imp.outboundOf[source], off)
		imp.inboundOf[target] = append(imp.inboundOf[target], off)

		if typ == imp.c.IsA && defining {
			if row.Active {
				imp.parentsOf[source] = append(imp.parentsOf[source], target)
			} else {
				imp.inactiveParentsOf[source] = append(imp.inactiveParentsOf[source], target)
			}
		}
	}

	n := imp.c.Concepts.Count()
	for i := 0; i < n; i++ {
		c := imp.c.Concepts.OffsetOf(i)

		parents := dedupSorted(imp.parentsOf[c])
		imp.c.Concepts.SetActiveParents(c, imp.c.Refs.AppendOffsets(parents))
		inactiveParents := dedupSorted(imp.inactiveParentsOf[c])
		imp.c.Concepts.SetInactiveParents(c, imp.c.Refs.AppendOffsets(inactiveParents))

		descs := dedupSorted(imp.descriptionsOf[c])
		imp.c.Concepts.SetDescriptions(c, imp.c.Refs.AppendOffsets(descs))

		outbound := dedupSorted(imp.outboundOf[c])
		imp.c.Concepts.SetOutbound(c, imp.c.Refs.AppendOffsets(outbound))
		inbound := dedupSorted(imp.inboundOf[c])
		imp.c.Concepts.SetInbound(c, imp.c.Refs.AppendOffsets(inbound))

		if len(parents) == 0 {
			sctid := imp.c.Concepts.SCTID(c)
			if imp.c.Concepts.IsInactive(c) {
				imp.inactiveRoots = append(imp.inactiveRoots, c)
				imp.c.InactiveRoots = append(imp.c.InactiveRoots, sctid)
			} else {
				imp.activeRoots = append(imp.activeRoots, c)
				imp.c.ActiveRoots = append(imp.c.ActiveRoots, sctid)
			}
		}
	}

	if len(imp.activeRoots) == 0 {
		return ErrMissingRoot
	}
	return nil
}

// buildClosure computes the transitive closure and depth of every concept
// from the combined active and inactive roots (§4.4 phases 11-12).
func (imp *importer) buildClosure() error {
	roots := make([]store.Offset, 0, len(imp.activeRoots)+len(imp.inactiveRoots))
	roots = append(roots, imp.activeRoots...)
	roots = append(roots, imp.inactiveRoots...)
	b := closure.NewBuilder(imp.c.Concepts, imp.c.Refs, imp.c.Relationships, imp.c.IsA)
	return b.Build(roots)
}

func dedupSorted(offs []store.Offset) []store.Offset {
	if len(offs) == 0 {
		return nil
	}
	sort.Slice(offs, func(i, j int) bool { return offs[i] < offs[j] })
	out := offs[:1]
	for _, o := range offs[1:] {
		if o != out[len(out)-1] {
			out = append(out, o)
		}
	}
	return out
}
