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
	"sort"
	"strconv"
	"strings"
)

// Mode selects a Render style.
type Mode int

const (
	// Minimal renders SCTIDs only, with no terms; separators are written
	// with fixed spacing (" + ", " : ", ", "). Canonical for equivalence.
	Minimal Mode = iota
	// AsIs preserves terms as captured during parsing (or attached later via
	// a display lookup).
	AsIs
)

// Render renders e per mode (§4.6).
func Render(e *Expression, mode Mode) string {
	var b strings.Builder
	if e.Status != NoStatus {
		b.WriteString(e.Status.String())
		b.WriteByte(' ')
	}
	for i, c := range e.Concepts {
		if i > 0 {
			b.WriteString(" + ")
		}
		renderConcept(&b, c, mode)
	}
	if len(e.Refinements) > 0 || len(e.Groups) > 0 {
		b.WriteString(" : ")
		renderRefinementSet(&b, e, mode)
	}
	return b.String()
}

func renderRefinementSet(b *strings.Builder, e *Expression, mode Mode) {
	first := true
	for _, r := range sortedRefinements(e.Refinements) {
		if !first {
			b.WriteString(", ")
		}
		first = false
		renderRefinement(b, r, mode)
	}
	for _, g := range sortedGroups(e.Groups, mode) {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteByte('{')
		for i, r := range sortedRefinements(g.Refinements) {
			if i > 0 {
				b.WriteString(", ")
			}
			renderRefinement(b, r, mode)
		}
		b.WriteByte('}')
	}
}

func renderRefinement(b *strings.Builder, r Refinement, mode Mode) {
	renderConcept(b, r.Name, mode)
	b.WriteByte('=')
	if r.Nested != nil {
		b.WriteByte('(')
		b.WriteString(Render(r.Nested, mode))
		b.WriteByte(')')
		return
	}
	renderConcept(b, r.Value, mode)
}

func renderConcept(b *strings.Builder, c Concept, mode Mode) {
	b.WriteString(strconv.FormatUint(c.SCTID, 10))
	if mode == AsIs && c.Term != "" {
		b.WriteString(" |")
		b.WriteString(c.Term)
		b.WriteString("|")
	}
}

// sortedRefinements orders refinements by (property SCTID, value SCTID), the
// stable key required for normalised output (§4.6).
func sortedRefinements(rs []Refinement) []Refinement {
	out := make([]Refinement, len(rs))
	copy(out, rs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name.SCTID != out[j].Name.SCTID {
			return out[i].Name.SCTID < out[j].Name.SCTID
		}
		return refinementValueKey(out[i]) < refinementValueKey(out[j])
	})
	return out
}

func refinementValueKey(r Refinement) uint64 {
	if r.Nested != nil {
		return 0 // nested values sort before plain concept values at equal property id
	}
	return r.Value.SCTID
}

// sortedGroups orders refinement groups lexicographically by their own
// canonical (Minimal) render, per §4.6.
func sortedGroups(gs []RefinementGroup, mode Mode) []RefinementGroup {
	out := make([]RefinementGroup, len(gs))
	copy(out, gs)
	sort.SliceStable(out, func(i, j int) bool {
		return renderGroup(out[i]) < renderGroup(out[j])
	})
	return out
}

func renderGroup(g RefinementGroup) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, r := range sortedRefinements(g.Refinements) {
		if i > 0 {
			b.WriteString(", ")
		}
		renderRefinement(&b, r, Minimal)
	}
	b.WriteByte('}')
	return b.String()
}
