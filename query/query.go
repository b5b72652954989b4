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

// Package query implements the runtime API surface consumed by the
// enclosing FHIR terminology server: locate, display, designations,
// subsumption, filters and iteration (§4.7, §6.2).
package query

import (
	"fmt"
	"strings"

	"github.com/wardle/go-terminology/cache"
	"github.com/wardle/go-terminology/closure"
	"github.com/wardle/go-terminology/expression"
	"github.com/wardle/go-terminology/index"
	"github.com/wardle/go-terminology/lang"
	"github.com/wardle/go-terminology/refset"
	"github.com/wardle/go-terminology/snomed"
	"github.com/wardle/go-terminology/store"
)

// Engine is the code-system provider: the single object a FHIR-facing
// collaborator holds to answer concept lookup, hierarchy, search and
// expression queries against one loaded cache (§6.2).
type Engine struct {
	Cache *cache.Cache

	concepts     *index.ConceptIndex
	descriptions *index.DescriptionIndex
	words        *index.WordIndex
	stems        *index.StemIndex
	closure      *closure.Engine
	refsets      *refset.Layer
	normalizer   *expression.Normalizer
	defaultLang  lang.Code
}

// New builds an Engine over an already-loaded cache.
func New(c *cache.Cache, defaultLanguage lang.Code) *Engine {
	conceptIdx := index.NewConceptIndex(c.Concepts)
	e := &Engine{
		Cache:        c,
		concepts:     conceptIdx,
		descriptions: index.NewDescriptionIndex(c.DescriptionIndex),
		words:        index.NewWordIndex(c.Words, c.Strings),
		stems:        index.NewStemIndex(c.Stems, c.Strings),
		closure:      closure.New(c.Concepts, c.Refs),
		refsets:      refset.New(c.RefsetIndex, c.RefsetMembers, c.Refs, c.Strings, c.Concepts),
		defaultLang:  defaultLanguage,
	}
	e.normalizer = &expression.Normalizer{
		Concepts:      c.Concepts,
		Relationships: c.Relationships,
		Refs:          c.Refs,
		Index:         conceptIdx,
		IsA:           c.IsA,
	}
	return e
}

// System returns the code system's canonical URI (§6.2 system()).
func (e *Engine) System() string { return e.Cache.URI }

// Version returns the code system's version string (§6.2 version()).
func (e *Engine) Version() string { return e.Cache.Date }

// DefLang returns the default language tag for this code system (§6.2 defLang()).
func (e *Engine) DefLang() string { return e.defaultLang.String() }

// TotalCount returns the number of concepts held in the cache (§6.2 totalCount()).
func (e *Engine) TotalCount() int { return e.concepts.Len() }

// Result is the outcome of Locate: either a populated Context, or a
// human-readable message explaining why none was found (§4.7, §7 "Not
// found" taxonomy — a typed result, never an error, for ordinary misses).
type Result struct {
	Context *expression.Context
	Message string
}

// Locate resolves a code or expression string into a Context (§4.7 locate,
// §6.2 locate). A string of pure decimal digits is an identity lookup;
// anything else is parsed as a compositional-grammar expression.
func (e *Engine) Locate(s string) Result {
	s = strings.TrimSpace(s)
	if isAllDigits(s) {
		id, err := snomed.ParseAndValidate(s)
		if err != nil {
			return Result{Message: fmt.Sprintf("locate: %v", err)}
		}
		if _, ok := e.concepts.Lookup(uint64(id)); !ok {
			return Result{Message: fmt.Sprintf("locate: concept %s not found", s)}
		}
		return Result{Context: &expression.Context{Kind: expression.Reference, ConceptRef: uint64(id)}}
	}

	expr, err := expression.Parse(s)
	if err != nil {
		return Result{Message: fmt.Sprintf("locate: %v", err)}
	}
	for _, c := range expr.Concepts {
		if _, ok := e.concepts.Lookup(c.SCTID); !ok {
			return Result{Message: fmt.Sprintf("locate: concept %d not found", c.SCTID)}
		}
	}
	if err := checkRefinementKinds(expr.Refinements); err != nil {
		return Result{Message: fmt.Sprintf("locate: %v", err)}
	}
	for _, g := range expr.Groups {
		if err := checkRefinementKinds(g.Refinements); err != nil {
			return Result{Message: fmt.Sprintf("locate: %v", err)}
		}
	}
	if !expr.IsComposite() {
		return Result{Context: &expression.Context{Kind: expression.Reference, ConceptRef: expr.Concepts[0].SCTID}}
	}
	return Result{Context: &expression.Context{Kind: expression.Complex, Source: s, Expr: expr}}
}

// checkRefinementKinds reports an error naming the offending SCTID's actual
// component kind if any refinement in rs names a relationship type or value
// whose partition identifier doesn't mark it as a concept — a refinement
// can only ever be refined by and valued with concepts, never descriptions
// or relationships.
func checkRefinementKinds(rs []expression.Refinement) error {
	for _, r := range rs {
		if kind := snomed.ID(r.Name.SCTID).Kind(); kind != "concept" {
			return fmt.Errorf("refinement name %d is a %s, not a concept", r.Name.SCTID, kind)
		}
		if r.Nested != nil {
			if err := checkRefinementKinds(r.Nested.Refinements); err != nil {
				return err
			}
			for _, g := range r.Nested.Groups {
				if err := checkRefinementKinds(g.Refinements); err != nil {
					return err
				}
			}
			continue
		}
		if kind := snomed.ID(r.Value.SCTID).Kind(); kind != "concept" {
			return fmt.Errorf("refinement value %d is a %s, not a concept", r.Value.SCTID, kind)
		}
	}
	return nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// focusOffset returns the store offset of ctx's representative concept: its
// sole reference for a Reference context, or its first focus concept for a
// Complex one. Every query operation that ultimately inspects the CONCEPT
// store funnels through this.
func (e *Engine) focusOffset(ctx *expression.Context) (store.Offset, error) {
	var sctid uint64
	switch ctx.Kind {
	case expression.Reference:
		sctid = ctx.ConceptRef
	case expression.Complex:
		if len(ctx.Expr.Concepts) == 0 {
			return 0, fmt.Errorf("query: expression has no focus concept")
		}
		sctid = ctx.Expr.Concepts[0].SCTID
	}
	off, ok := e.concepts.Lookup(sctid)
	if !ok {
		return 0, fmt.Errorf("query: concept %d not found", sctid)
	}
	return off, nil
}

// IsAbstract reports whether ctx's focus concept is a metadata/grouper
// concept with no independent clinical meaning. This module has no
// separate "abstract" flag in the packed CONCEPT record; abstractness is
// approximated, as the source this was distilled from does, by a concept
// having no active defining content of its own beyond is-a.
func (e *Engine) IsAbstract(ctx *expression.Context) (bool, error) {
	off, err := e.focusOffset(ctx)
	if err != nil {
		return false, err
	}
	outbound := e.Cache.Refs.ReadOffsets(e.Cache.Concepts.Outbound(off))
	for _, rel := range outbound {
		if e.Cache.Relationships.Type(rel) != e.Cache.IsA && e.Cache.Relationships.Active(rel) && e.Cache.Relationships.Defining(rel) {
			return false, nil
		}
	}
	return true, nil
}

// IsInactive reports whether ctx's focus concept is inactive.
func (e *Engine) IsInactive(ctx *expression.Context) (bool, error) {
	off, err := e.focusOffset(ctx)
	if err != nil {
		return false, err
	}
	return e.Cache.Concepts.IsInactive(off), nil
}

// IsPrimitive reports whether ctx's focus concept lacks a sufficient formal
// logic definition, relying instead on its position in the hierarchy to
// convey its meaning (§4.6 Normalise: a primitive concept's normal form is
// itself).
func (e *Engine) IsPrimitive(ctx *expression.Context) (bool, error) {
	off, err := e.focusOffset(ctx)
	if err != nil {
		return false, err
	}
	return !e.Cache.Concepts.IsSufficientlyDefined(off), nil
}

// GetStatus returns a human-readable status string for ctx's focus concept
// (§4.7 getStatus, §6.2 getStatus).
func (e *Engine) GetStatus(ctx *expression.Context) (string, error) {
	inactive, err := e.IsInactive(ctx)
	if err != nil {
		return "", err
	}
	if inactive {
		return snomed.StatusInactive, nil
	}
	return snomed.StatusActive, nil
}

// SameConcept reports whether a and b resolve to the same concept (§6.2
// sameConcept).
func (e *Engine) SameConcept(a, b *expression.Context) bool {
	offA, errA := e.focusOffset(a)
	offB, errB := e.focusOffset(b)
	return errA == nil && errB == nil && offA == offB
}

// SubsumesTest compares two codes' positions in the hierarchy (§4.5, §4.7
// subsumesTest, §8 scenario 1).
func (e *Engine) SubsumesTest(a, b string) (closure.Subsumption, error) {
	ra := e.Locate(a)
	if ra.Context == nil {
		return closure.NotSubsumed, fmt.Errorf("subsumesTest: %s", ra.Message)
	}
	rb := e.Locate(b)
	if rb.Context == nil {
		return closure.NotSubsumed, fmt.Errorf("subsumesTest: %s", rb.Message)
	}
	offA, err := e.focusOffset(ra.Context)
	if err != nil {
		return closure.NotSubsumed, err
	}
	offB, err := e.focusOffset(rb.Context)
	if err != nil {
		return closure.NotSubsumed, err
	}
	return e.closure.Subsumes(offA, offB), nil
}

// LocateIsA returns a context for code only if it is equal to (when
// disallowSelf is false) or a proper descendant of parent (§4.7 locateIsA,
// §6.2 locateIsA).
func (e *Engine) LocateIsA(code, parent string, disallowSelf bool) Result {
	r := e.Locate(code)
	if r.Context == nil {
		return r
	}
	pr := e.Locate(parent)
	if pr.Context == nil {
		return Result{Message: fmt.Sprintf("locateIsA: parent %s not found", parent)}
	}
	codeOff, err := e.focusOffset(r.Context)
	if err != nil {
		return Result{Message: err.Error()}
	}
	parentOff, err := e.focusOffset(pr.Context)
	if err != nil {
		return Result{Message: err.Error()}
	}
	if codeOff == parentOff {
		if disallowSelf {
			return Result{Message: fmt.Sprintf("locateIsA: %s is not a descendant of itself and self is disallowed", code)}
		}
		return r
	}
	if e.closure.IsDescendant(codeOff, parentOff) {
		return r
	}
	return Result{Message: fmt.Sprintf("locateIsA: %s is not a descendant of %s", code, parent)}
}

// Iterator yields a position within a breadth-first walk of the hierarchy:
// the active roots, or the direct children of a concept (§4.7 Iteration,
// §6.2 iterator/nextContext).
type Iterator struct {
	concepts *store.Concepts
	offsets  []store.Offset
	pos      int
}

// NewIterator returns an iterator over the active roots (ctx == nil) or
// over ctx's direct children.
func (e *Engine) NewIterator(ctx *expression.Context) (*Iterator, error) {
	if ctx == nil {
		offs := make([]store.Offset, 0, len(e.Cache.ActiveRoots))
		for _, sctid := range e.Cache.ActiveRoots {
			if off, ok := e.concepts.Lookup(sctid); ok {
				offs = append(offs, off)
			}
		}
		return &Iterator{concepts: e.Cache.Concepts, offsets: offs}, nil
	}
	off, err := e.focusOffset(ctx)
	if err != nil {
		return nil, err
	}
	children := e.closure.Children(off, e.Cache.Relationships, e.Cache.IsA)
	return &Iterator{concepts: e.Cache.Concepts, offsets: children}, nil
}

// Next returns the next context in the walk, or nil once exhausted (§6.2
// nextContext).
func (it *Iterator) Next() *expression.Context {
	if it.pos >= len(it.offsets) {
		return nil
	}
	off := it.offsets[it.pos]
	it.pos++
	return &expression.Context{Kind: expression.Reference, ConceptRef: it.concepts.SCTID(off)}
}
