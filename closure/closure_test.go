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

package closure

import (
	"testing"

	"github.com/wardle/go-terminology/store"
)

// buildSmallHierarchy constructs:
//
//	root(1)
//	 `- a(2)
//	     `- b(3)
//	         `- c(4)
//	 `- d(5)   (root's second child, unrelated branch)
func buildSmallHierarchy(t *testing.T) (*store.Concepts, *store.Refs, *store.Relationships, store.Offset, []store.Offset) {
	t.Helper()
	concepts := store.NewConcepts()
	refs := store.NewRefs()
	rels := store.NewRelationships()

	const isAType = 116680003
	isA := concepts.Append(isAType, 0, false)

	root := concepts.Append(1, 0, false)
	a := concepts.Append(2, 0, false)
	b := concepts.Append(3, 0, false)
	c := concepts.Append(4, 0, false)
	d := concepts.Append(5, 0, false)

	link := func(source, target store.Offset, id uint64) {
		rel := rels.Append(id, source, target, isA, 0, true, true, 0)
		concepts.SetOutbound(source, refs.AppendOffsets(append(refs.ReadOffsets(concepts.Outbound(source)), rel)))
		concepts.SetInbound(target, refs.AppendOffsets(append(refs.ReadOffsets(concepts.Inbound(target)), rel)))
	}
	link(a, root, 100)
	link(b, a, 101)
	link(c, b, 102)
	link(d, root, 103)

	concepts.SetActiveParents(a, refs.AppendOffsets([]store.Offset{root}))
	concepts.SetActiveParents(b, refs.AppendOffsets([]store.Offset{a}))
	concepts.SetActiveParents(c, refs.AppendOffsets([]store.Offset{b}))
	concepts.SetActiveParents(d, refs.AppendOffsets([]store.Offset{root}))

	return concepts, refs, rels, isA, []store.Offset{root}
}

func TestBuildClosureAndDepth(t *testing.T) {
	concepts, refs, rels, isA, roots := buildSmallHierarchy(t)
	b := NewBuilder(concepts, refs, rels, isA)
	if err := b.Build(roots); err != nil {
		t.Fatalf("build: %v", err)
	}
	e := New(concepts, refs)

	root := roots[0]
	desc := e.AllDescendants(root)
	if len(desc) != 4 {
		t.Fatalf("expected 4 descendants of root, got %d", len(desc))
	}
	if e.Depth(root) != 0 {
		t.Errorf("expected root depth 0, got %d", e.Depth(root))
	}

	a := concepts.OffsetOf(2) // isA, root, a, b, c, d => a is index 2
	if e.Depth(a) != 1 {
		t.Errorf("expected depth(a) = 1, got %d", e.Depth(a))
	}
	c := concepts.OffsetOf(4)
	if e.Depth(c) != 3 {
		t.Errorf("expected depth(c) = 3, got %d", e.Depth(c))
	}
	if !e.IsDescendant(c, root) {
		t.Errorf("expected c to be a descendant of root")
	}
	if e.IsDescendant(root, c) {
		t.Errorf("did not expect root to be a descendant of c")
	}
}

func TestSubsumes(t *testing.T) {
	concepts, refs, rels, isA, roots := buildSmallHierarchy(t)
	b := NewBuilder(concepts, refs, rels, isA)
	if err := b.Build(roots); err != nil {
		t.Fatalf("build: %v", err)
	}
	e := New(concepts, refs)

	root := roots[0]
	c := concepts.OffsetOf(4)

	if got := e.Subsumes(root, c); got != Subsumes {
		t.Errorf("expected root subsumes c, got %v", got)
	}
	if got := e.Subsumes(c, root); got != SubsumedBy {
		t.Errorf("expected c subsumed-by root, got %v", got)
	}
	if got := e.Subsumes(root, root); got != Equivalent {
		t.Errorf("expected root equivalent root, got %v", got)
	}
	d := concepts.OffsetOf(5)
	if got := e.Subsumes(c, d); got != NotSubsumed {
		t.Errorf("expected c not-subsumed with d, got %v", got)
	}
}

func TestLeafHasNoDescendants(t *testing.T) {
	concepts, refs, rels, isA, roots := buildSmallHierarchy(t)
	b := NewBuilder(concepts, refs, rels, isA)
	if err := b.Build(roots); err != nil {
		t.Fatalf("build: %v", err)
	}
	c := concepts.OffsetOf(4)
	if concepts.AllDescendants(c) != store.NoDescendants {
		t.Errorf("expected leaf sentinel for c, got %v", concepts.AllDescendants(c))
	}
}
