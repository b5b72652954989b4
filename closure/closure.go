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

// Package closure computes and serves the transitive is-a closure over the
// concept hierarchy: descendants, depths, child/parent iteration and
// subsumption testing (§4.5). Closures are computed once, during import, and
// never recomputed at query time.
package closure

import (
	"errors"
	"fmt"
	"sort"

	"github.com/wardle/go-terminology/store"
)

// ErrCycle is wrapped into the error returned by Builder.Build when the is-a
// hierarchy contains a cycle (§4.4 phase 11: fatal).
var ErrCycle = errors.New("closure: cycle detected")

// ErrDepthOverflow is wrapped into the error returned by Builder.Build when a
// concept's depth exceeds MaxDepth (§4.4 phase 12: fatal).
var ErrDepthOverflow = errors.New("closure: depth overflow")

// Subsumption is the result of comparing two concepts' positions in the
// is-a hierarchy.
type Subsumption int

const (
	NotSubsumed Subsumption = iota
	Subsumes                // a is a proper ancestor of b
	SubsumedBy              // a is a descendant of b
	Equivalent              // a and b are the same concept
)

func (s Subsumption) String() string {
	switch s {
	case Subsumes:
		return "subsumes"
	case SubsumedBy:
		return "subsumed-by"
	case Equivalent:
		return "equivalent"
	default:
		return "not-subsumed"
	}
}

// MaxDepth is the largest depth value that fits the CONCEPT store's 1-byte
// depth field (§3, §4.4 phase 12: "Error if depth reaches 256").
const MaxDepth = 255

// Engine answers hierarchy queries against a built concept store. It holds
// no state of its own beyond the store reference: everything it returns was
// computed once by Build and is read directly off CONCEPT records.
type Engine struct {
	concepts *store.Concepts
	refs     *store.Refs
}

// New wraps a frozen concept/refs pair for querying.
func New(concepts *store.Concepts, refs *store.Refs) *Engine {
	return &Engine{concepts: concepts, refs: refs}
}

// Parents returns the active is-a parents of c.
func (e *Engine) Parents(c store.Offset) []store.Offset {
	return e.refs.ReadOffsets(e.concepts.ActiveParents(c))
}

// Children returns the concepts with an active defining is-a edge to c,
// i.e. the direct descendants. This is O(|inbound|): it scans c's inbound
// relationships rather than consulting AllDescendants, since the latter
// holds the full transitive set, not just direct children.
func (e *Engine) Children(c store.Offset, relationships *store.Relationships, isA store.Offset) []store.Offset {
	inbound := e.refs.ReadOffsets(e.concepts.Inbound(c))
	var out []store.Offset
	for _, rel := range inbound {
		if relationships.Type(rel) != isA || !relationships.Active(rel) || !relationships.Defining(rel) {
			continue
		}
		out = append(out, relationships.Source(rel))
	}
	return out
}

// AllDescendants returns the full transitive descendant set of c, as built
// by Build and stored in the CONCEPT record's all-descendants field. A leaf
// concept (sentinel store.NoDescendants) returns nil.
func (e *Engine) AllDescendants(c store.Offset) []store.Offset {
	off := e.concepts.AllDescendants(c)
	if off == store.NoDescendants || off == store.InProgressDesc {
		return nil
	}
	return e.refs.ReadOffsets(off)
}

// Depth returns c's reachable-shortest-path depth from the nearest active
// root; roots have depth 0.
func (e *Engine) Depth(c store.Offset) int {
	return int(e.concepts.Depth(c))
}

// IsDescendant reports whether c is a (transitive) descendant of ancestor.
// AllDescendants is stored sorted by offset, so this is O(log n).
func (e *Engine) IsDescendant(c, ancestor store.Offset) bool {
	desc := e.AllDescendants(ancestor)
	i := sort.Search(len(desc), func(i int) bool { return desc[i] >= c })
	return i < len(desc) && desc[i] == c
}

// Subsumes compares a and b's positions in the hierarchy (§4.5, §8 scenario 1).
func (e *Engine) Subsumes(a, b store.Offset) Subsumption {
	if a == b {
		return Equivalent
	}
	if e.IsDescendant(b, a) {
		return Subsumes
	}
	if e.IsDescendant(a, b) {
		return SubsumedBy
	}
	return NotSubsumed
}

// Builder accumulates the transitive closure and depth assignment over the
// whole concept store during import (§4.4 phases 11-12). It is discarded
// once Build returns; nothing it holds survives into the read-only Engine.
type Builder struct {
	concepts *store.Concepts
	refs     *store.Refs
	relationships *store.Relationships
	isA      store.Offset

	childrenOf map[store.Offset][]store.Offset // populated from inbound active defining is-a edges
}

// NewBuilder prepares to compute closure and depth for every concept in
// concepts, given the fully-linked relationship store and the is-a type's
// concept-offset.
func NewBuilder(concepts *store.Concepts, refs *store.Refs, relationships *store.Relationships, isA store.Offset) *Builder {
	return &Builder{concepts: concepts, refs: refs, relationships: relationships, isA: isA}
}

// Build computes AllDescendants and Depth for every concept and writes them
// back into the CONCEPT store via its setters. roots lists the offsets of
// concepts with no active parent (both active and inactive roots combined);
// the caller partitions and validates root non-emptiness before calling.
func (b *Builder) Build(roots []store.Offset) error {
	b.childrenOf = make(map[store.Offset][]store.Offset)
	n := b.concepts.Count()
	for i := 0; i < n; i++ {
		c := b.concepts.OffsetOf(i)
		for _, rel := range b.refs.ReadOffsets(b.concepts.Inbound(c)) {
			if b.relationships.Type(rel) == b.isA && b.relationships.Active(rel) && b.relationships.Defining(rel) {
				b.childrenOf[c] = append(b.childrenOf[c], b.relationships.Source(rel))
			}
		}
	}

	state := make(map[store.Offset]store.Offset, n) // computed all-descendants offset, once known
	for i := 0; i < n; i++ {
		c := b.concepts.OffsetOf(i)
		if _, err := b.allDescendants(c, state); err != nil {
			return err
		}
	}

	if err := b.assignDepths(roots); err != nil {
		return err
	}
	return nil
}

// allDescendants computes (and memoises) the sorted, deduplicated
// transitive descendant set of c, persisting it into the CONCEPT store the
// first time it is fully known (§4.4 phase 11).
func (b *Builder) allDescendants(c store.Offset, state map[store.Offset]store.Offset) (store.Offset, error) {
	if off, ok := state[c]; ok {
		if off == store.InProgressDesc {
			return 0, fmt.Errorf("%w: concept offset %d", ErrCycle, c)
		}
		return off, nil
	}
	state[c] = store.InProgressDesc

	children := b.childrenOf[c]
	if len(children) == 0 {
		b.concepts.SetAllDescendants(c, store.NoDescendants)
		state[c] = store.NoDescendants
		return store.NoDescendants, nil
	}

	set := make(map[store.Offset]struct{})
	for _, child := range children {
		set[child] = struct{}{}
		childDesc, err := b.allDescendants(child, state)
		if err != nil {
			return 0, err
		}
		if childDesc != store.NoDescendants {
			for _, d := range b.refs.ReadOffsets(childDesc) {
				set[d] = struct{}{}
			}
		}
	}
	merged := make([]store.Offset, 0, len(set))
	for d := range set {
		merged = append(merged, d)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i] < merged[j] })

	off := b.refs.AppendOffsets(merged)
	b.concepts.SetAllDescendants(c, off)
	state[c] = off
	return off, nil
}

// assignDepths runs a breadth-first relaxation from every root, setting
// each concept's depth to one plus the minimum depth of its active parents
// (§4.4 phase 12, §8 universal property).
func (b *Builder) assignDepths(roots []store.Offset) error {
	const unset = -1
	depth := make(map[store.Offset]int, b.concepts.Count())

	queue := make([]store.Offset, 0, len(roots))
	for _, r := range roots {
		depth[r] = 0
		queue = append(queue, r)
	}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		d := depth[c]
		for _, child := range b.childrenOf[c] {
			nd := d + 1
			if nd > MaxDepth {
				return fmt.Errorf("%w: concept offset %d", ErrDepthOverflow, child)
			}
			cur, ok := depth[child]
			if !ok || nd < cur {
				depth[child] = nd
				queue = append(queue, child)
			}
		}
	}

	n := b.concepts.Count()
	for i := 0; i < n; i++ {
		c := b.concepts.OffsetOf(i)
		d, ok := depth[c]
		if !ok {
			d = 0 // unreachable from any root: treat as its own root, depth 0
		}
		b.concepts.SetDepth(c, uint8(d))
	}
	return nil
}
