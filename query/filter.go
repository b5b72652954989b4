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

package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/wardle/go-terminology/lang"
	"github.com/wardle/go-terminology/progress"
	"github.com/wardle/go-terminology/snomed"
	"github.com/wardle/go-terminology/store"
)

// ErrFilterNotSupported is returned for a compose.include filter whose
// property/op/value this provider cannot honour (§4.7, §6.2 doesFilter).
var ErrFilterNotSupported = errors.New("query: unsupported filter")

// ErrTooCostly re-exports progress.ErrTooCostly under the query package, for
// callers that only import query and need to recognise a cancelled or
// over-budget long-running operation (§4.7, §5).
var ErrTooCostly = progress.ErrTooCostly

// FilterOp names a value-predicate comparison (§4.7 Filter API).
type FilterOp int

const (
	OpEquals FilterOp = iota
	OpIn
	OpRegex
)

// FilterContext accumulates filter predicates and, on Execute, produces an
// indexable, sorted result set of concept offsets (§4.7 Filter API). It
// mirrors the host FHIR server's ValueSet.compose.include filter model:
// each predicate narrows the set by intersection.
type FilterContext struct {
	engine     *Engine
	candidates []store.Offset // nil until the first predicate narrows it
	started    bool
	results    []store.Offset
	cursor     int
}

// GetPrepContext returns a new, empty FilterContext. iterate is accepted for
// interface parity with §6.2's getPrepContext(iterate) — this implementation
// has no distinct iterate/non-iterate mode.
func (e *Engine) GetPrepContext(iterate bool) *FilterContext {
	return &FilterContext{engine: e}
}

// DoesFilter reports whether this provider can honour a filter of the given
// shape, used by the host to reject unsupported compose.include filters
// early (§6.2 doesFilter).
func (e *Engine) DoesFilter(property string, op FilterOp, value string) bool {
	switch property {
	case "is-a", "descendent-of", "is-not-a":
		return true
	default:
		return false
	}
}

// Filter adds one predicate to fc, intersecting its running candidate set
// (§6.2 filter). Supported properties: "is-a" (self and descendants),
// "descendent-of" (strict descendants), "is-not-a" (complement of is-a
// within the running set).
func (fc *FilterContext) Filter(property string, op FilterOp, value string) error {
	e := fc.engine
	switch property {
	case "is-a":
		r := e.Locate(value)
		if r.Context == nil {
			return fmt.Errorf("filter: %s", r.Message)
		}
		off, err := e.focusOffset(r.Context)
		if err != nil {
			return err
		}
		set := append([]store.Offset{off}, e.closure.AllDescendants(off)...)
		fc.intersect(set)
	case "descendent-of":
		r := e.Locate(value)
		if r.Context == nil {
			return fmt.Errorf("filter: %s", r.Message)
		}
		off, err := e.focusOffset(r.Context)
		if err != nil {
			return err
		}
		fc.intersect(e.closure.AllDescendants(off))
	case "is-not-a":
		r := e.Locate(value)
		if r.Context == nil {
			return fmt.Errorf("filter: %s", r.Message)
		}
		off, err := e.focusOffset(r.Context)
		if err != nil {
			return err
		}
		excluded := make(map[store.Offset]bool)
		excluded[off] = true
		for _, d := range e.closure.AllDescendants(off) {
			excluded[d] = true
		}
		fc.exclude(excluded)
	default:
		return fmt.Errorf("%w: property %q", ErrFilterNotSupported, property)
	}
	return nil
}

func (fc *FilterContext) intersect(set []store.Offset) {
	sorted := append([]store.Offset(nil), set...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if !fc.started {
		fc.candidates = sorted
		fc.started = true
		return
	}
	fc.candidates = intersectSorted(fc.candidates, sorted)
}

func (fc *FilterContext) exclude(excluded map[store.Offset]bool) {
	if !fc.started {
		n := fc.engine.concepts.Len()
		all := make([]store.Offset, 0, n)
		for i := 0; i < n; i++ {
			all = append(all, fc.engine.concepts.At(i))
		}
		fc.candidates = all
		fc.started = true
	}
	out := fc.candidates[:0:0]
	for _, c := range fc.candidates {
		if !excluded[c] {
			out = append(out, c)
		}
	}
	fc.candidates = out
}

func intersectSorted(a, b []store.Offset) []store.Offset {
	var out []store.Offset
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// ExecuteFilters finalises fc's accumulated predicates into its result set
// (§6.2 executeFilters).
func (fc *FilterContext) ExecuteFilters() []store.Offset {
	fc.results = fc.candidates
	fc.cursor = 0
	return fc.results
}

// FilterSize reports the size of fc's executed result set (§6.2 filterSize).
func (fc *FilterContext) FilterSize() int { return len(fc.results) }

// FilterMore reports whether FilterConcept has more results to yield (§6.2 filterMore).
func (fc *FilterContext) FilterMore() bool { return fc.cursor < len(fc.results) }

// FilterConcept returns the next concept offset in fc's result set (§6.2 filterConcept).
func (fc *FilterContext) FilterConcept() (store.Offset, bool) {
	if !fc.FilterMore() {
		return 0, false
	}
	off := fc.results[fc.cursor]
	fc.cursor++
	return off, true
}

// FilterLocate reports whether sctid's concept is present in fc's result
// set, without consuming the cursor (§6.2 filterLocate).
func (fc *FilterContext) FilterLocate(sctid uint64) bool {
	off, ok := fc.engine.concepts.Lookup(sctid)
	if !ok {
		return false
	}
	i := sort.Search(len(fc.results), func(i int) bool { return fc.results[i] >= off })
	return i < len(fc.results) && fc.results[i] == off
}

// FilterCheck validates op/value against property without running the
// filter (§6.2 filterCheck).
func (fc *FilterContext) FilterCheck(property string, op FilterOp, value string) error {
	if !fc.engine.DoesFilter(property, op, value) {
		return fmt.Errorf("%w: property %q", ErrFilterNotSupported, property)
	}
	return nil
}

// FilterFinish releases fc's result set (§6.2 filterFinish).
func (fc *FilterContext) FilterFinish() {
	fc.results = nil
	fc.candidates = nil
	fc.cursor = 0
}

// Rating bands returned by SearchFilter, matching §4.7's prescribed scoring:
// exact code/display = 100, code prefix = 90, display prefix = 80 scaled by
// length ratio, substring = 60/50, definition match = 30, designation
// match = 40.
const (
	ratingExact         = 100
	ratingCodePrefix    = 90
	ratingDisplayPrefix = 80
	ratingSubstringCode = 60
	ratingSubstringDisp = 50
	ratingDefinition    = 30
	ratingDesignation   = 40
)

// SearchResult is one scored hit from SearchFilter.
type SearchResult struct {
	Concept store.Offset
	Rating  int
}

// SearchFilter runs a text search over fc's candidate set (or the whole
// cache if fc is nil), scoring and ordering hits per §4.7's rating scheme.
func (e *Engine) SearchFilter(fc *FilterContext, text string, sortDescending bool) []SearchResult {
	candidates := e.searchCandidates(fc, text)
	var out []SearchResult
	for _, off := range candidates {
		if rating, ok := e.rate(off, text); ok {
			out = append(out, SearchResult{Concept: off, Rating: rating})
		}
	}
	if sortDescending {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out
}

// searchCandidates narrows the search to fc's set (if any), else every
// concept whose stems intersect the query's tokens, else (as a last resort,
// for very short queries) every concept.
func (e *Engine) searchCandidates(fc *FilterContext, text string) []store.Offset {
	if fc != nil && fc.started {
		return fc.candidates
	}
	tokens := tokenize(text)
	if len(tokens) == 0 {
		// A pure-digit or very short query (a code, or too short to stem
		// usefully) bypasses the stem index and scans every concept so that
		// an exact/prefix code match still surfaces.
		n := e.concepts.Len()
		out := make([]store.Offset, n)
		for i := 0; i < n; i++ {
			out[i] = e.concepts.At(i)
		}
		return out
	}
	seen := make(map[store.Offset]bool)
	var out []store.Offset
	for _, tok := range tokens {
		stem := lang.Stem(tok, e.defaultLang)
		off, ok := e.stems.Lookup(stem)
		if !ok {
			continue
		}
		for _, c := range e.Cache.Refs.ReadOffsets(e.Cache.Stems.Concepts(off)) {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

func tokenize(s string) []string {
	sep := func(r rune) bool {
		return strings.ContainsRune(",\t:.!@#$%^&*(){}[]|\\;\"<>?/~`-_+= \n\r", r)
	}
	fields := strings.FieldsFunc(strings.ToLower(s), sep)
	var out []string
	for _, f := range fields {
		if len(f) > 2 && !isNumeric(f) {
			out = append(out, f)
		}
	}
	return out
}

func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// rate scores concept off against the raw query text per §4.7's scheme,
// returning the best (highest) rating across its code and active
// descriptions, or ok=false if nothing matched at all.
func (e *Engine) rate(off store.Offset, text string) (int, bool) {
	code := snomed.ID(e.Cache.Concepts.SCTID(off)).String()
	lowered := strings.ToLower(text)
	best := 0
	matched := false

	if code == text {
		best, matched = ratingExact, true
	} else if strings.HasPrefix(code, text) {
		best, matched = max(best, ratingCodePrefix), true
	} else if strings.Contains(code, text) {
		best, matched = max(best, ratingSubstringCode), true
	}

	for _, d := range e.Cache.Refs.ReadOffsets(e.Cache.Concepts.Descriptions(off)) {
		if !e.Cache.Descriptions.Active(d) {
			continue
		}
		term := e.Cache.Strings.Get(e.Cache.Descriptions.Term(d))
		termLower := strings.ToLower(term)
		isDefinition := snomed.ID(e.Cache.Concepts.SCTID(e.Cache.Descriptions.Kind(d))) == snomed.Definition

		switch {
		case termLower == lowered:
			best, matched = max(best, ratingExact), true
		case strings.HasPrefix(termLower, lowered):
			base := stripSemanticTag(termLower)
			if len(base) < len(lowered) {
				base = termLower
			}
			ratio := float64(len(lowered)) / float64(len(base))
			r := int(ratingDisplayPrefix * ratio)
			if r > ratingDisplayPrefix {
				r = ratingDisplayPrefix
			}
			best, matched = max(best, r), true
		case isDefinition && strings.Contains(termLower, lowered):
			best, matched = max(best, ratingDefinition), true
		case strings.Contains(termLower, lowered):
			best, matched = max(best, ratingSubstringDisp), true
		}

		if e.acceptability(d).IsPreferred() && termLower != lowered && !strings.HasPrefix(termLower, lowered) && strings.Contains(termLower, lowered) {
			best, matched = max(best, ratingDesignation), true
		}
	}
	return best, matched
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// stripSemanticTag removes a trailing FSN semantic tag ("Disease
// (disorder)" -> "Disease") so a display-prefix rating reflects how much of
// the clinically meaningful term the query covers, not how much of the tag
// decoration it happens to leave unmatched.
func stripSemanticTag(s string) string {
	if i := strings.LastIndex(s, " ("); i >= 0 && strings.HasSuffix(s, ")") {
		return s[:i]
	}
	return s
}
