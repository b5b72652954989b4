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

package expression

import (
	"fmt"
	"sort"

	"github.com/wardle/go-terminology/index"
	"github.com/wardle/go-terminology/store"
)

// Normalizer expands bare concepts into their defining relationships and
// merges composite expressions into one canonical form (§4.6 Normalise).
// It needs read access to the built stores: normalisation is a query-time
// operation, run once more at import time (phase 17) to cache concept
// normal forms.
type Normalizer struct {
	Concepts      *store.Concepts
	Relationships *store.Relationships
	Refs          *store.Refs
	Index         *index.ConceptIndex
	IsA           store.Offset
}

// Normalize produces the canonical expansion of e. A bare single-concept
// expression expands to that concept's active outbound defining
// relationships, partitioned by relationship-group, if the concept is
// sufficiently defined; a primitive concept expands to itself alone (see
// expand). A composite expression
// normalises each constituent focus concept and merges the results with its
// own refinements/groups, deduplicating.
func (n *Normalizer) Normalize(e *Expression) (*Expression, error) {
	out := &Expression{Status: e.Status}

	var refinements []Refinement
	var groups []RefinementGroup

	for _, c := range e.Concepts {
		off, ok := n.Index.Lookup(c.SCTID)
		if !ok {
			return nil, fmt.Errorf("expression: unknown concept %d", c.SCTID)
		}
		out.Concepts = append(out.Concepts, c)
		cr, cg, err := n.expand(off)
		if err != nil {
			return nil, err
		}
		refinements = append(refinements, cr...)
		groups = append(groups, cg...)
	}
	refinements = append(refinements, e.Refinements...)
	groups = append(groups, e.Groups...)

	sort.SliceStable(out.Concepts, func(i, j int) bool { return out.Concepts[i].SCTID < out.Concepts[j].SCTID })
	out.Refinements = dedupeRefinements(refinements)
	out.Groups = dedupeGroups(groups)
	return out, nil
}

// expand walks c's active outbound defining relationships (excluding is-a,
// which defines the focus rather than a refinement) and partitions them by
// relationship-group: group 0 becomes ungrouped refinements, any other
// group number becomes one RefinementGroup. A primitive concept has no
// formal logic definition sufficient to distinguish it from its supertypes,
// so its normal form is itself: expand returns no refinements for it.
func (n *Normalizer) expand(c store.Offset) ([]Refinement, []RefinementGroup, error) {
	if !n.Concepts.IsSufficientlyDefined(c) {
		return nil, nil, nil
	}
	outbound := n.Refs.ReadOffsets(n.Concepts.Outbound(c))
	byGroup := make(map[uint16][]Refinement)

	for _, rel := range outbound {
		if !n.Relationships.Active(rel) || !n.Relationships.Defining(rel) {
			continue
		}
		typ := n.Relationships.Type(rel)
		if typ == n.IsA {
			continue
		}
		r := Refinement{
			Name:  Concept{SCTID: n.Concepts.SCTID(typ)},
			Value: Concept{SCTID: n.Concepts.SCTID(n.Relationships.Target(rel))},
		}
		byGroup[n.Relationships.Group(rel)] = append(byGroup[n.Relationships.Group(rel)], r)
	}

	var ungrouped []Refinement
	var groups []RefinementGroup
	groupNums := make([]uint16, 0, len(byGroup))
	for g := range byGroup {
		groupNums = append(groupNums, g)
	}
	sort.Slice(groupNums, func(i, j int) bool { return groupNums[i] < groupNums[j] })
	for _, g := range groupNums {
		if g == 0 {
			ungrouped = append(ungrouped, byGroup[g]...)
			continue
		}
		groups = append(groups, RefinementGroup{Refinements: byGroup[g]})
	}
	return ungrouped, groups, nil
}

func dedupeRefinements(rs []Refinement) []Refinement {
	seen := make(map[string]struct{}, len(rs))
	out := make([]Refinement, 0, len(rs))
	for _, r := range rs {
		key := refinementKey(r)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return sortedRefinements(out)
}

func dedupeGroups(gs []RefinementGroup) []RefinementGroup {
	seen := make(map[string]struct{}, len(gs))
	out := make([]RefinementGroup, 0, len(gs))
	for _, g := range gs {
		g.Refinements = dedupeRefinements(g.Refinements)
		key := renderGroup(g)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool { return renderGroup(out[i]) < renderGroup(out[j]) })
	return out
}

func refinementKey(r Refinement) string {
	if r.Nested != nil {
		return fmt.Sprintf("%d=(%s)", r.Name.SCTID, Render(r.Nested, Minimal))
	}
	return fmt.Sprintf("%d=%d", r.Name.SCTID, r.Value.SCTID)
}
