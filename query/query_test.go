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
	"sort"
	"testing"

	"github.com/wardle/go-terminology/cache"
	"github.com/wardle/go-terminology/closure"
	"github.com/wardle/go-terminology/expression"
	"github.com/wardle/go-terminology/lang"
	"github.com/wardle/go-terminology/store"
)

// fixture is a small but complete hierarchy used across the query package's
// tests:
//
//	64572001   |Disease|
//	  128045006 |Cellulitis| (FSN + preferred synonym "Cellulitis", plus
//	             a synonym "Skin infection" and a textual definition)
//	  128046007 |Cellulitis of foot| (child of Cellulitis)
//
// The fixture's disease/cellulitis/ofFoot fields hold SCTIDs, not store
// offsets. Two metadata concepts (FullySpecifiedName, Preferred) back the
// description-kind and acceptability machinery, and one language refset
// records "Cellulitis" as the preferred synonym for English.
type fixture struct {
	c          *cache.Cache
	disease    uint64
	cellulitis uint64
	ofFoot     uint64
}

func buildFixture(t *testing.T) (*Engine, *fixture) {
	t.Helper()
	c := cache.New()

	// Concepts must be appended in ascending SCTID order: ConceptIndex's
	// binary search assumes it, as the importer guarantees at phase 4.
	// Dates are day counts since snomed.Epoch: 41670 is 2014-01-31.
	disease := c.Concepts.Append(64572001, 41670, false)
	isA := c.Concepts.Append(116680003, 41670, false)
	cellulitis := c.Concepts.Append(128045006, 41670, false)
	ofFoot := c.Concepts.Append(128046007, 41670, false)
	fsnKind := c.Concepts.Append(900000000000003001, 41670, false)
	synonymKind := c.Concepts.Append(900000000000013009, 41670, false)
	refsetConcept := c.Concepts.Append(900000000000509007, 41670, false)
	preferred := c.Concepts.Append(900000000000548007, 41670, false)
	c.IsA = isA

	// cellulitis --is-a--> disease
	relCD := c.Relationships.Append(1, cellulitis, disease, isA, 41670, true, true, 0)
	c.Concepts.SetOutbound(cellulitis, c.Refs.AppendOffsets([]store.Offset{relCD}))
	c.Concepts.SetInbound(disease, c.Refs.AppendOffsets([]store.Offset{relCD}))
	c.Concepts.SetActiveParents(cellulitis, c.Refs.AppendOffsets([]store.Offset{disease}))

	// ofFoot --is-a--> cellulitis
	relFC := c.Relationships.Append(2, ofFoot, cellulitis, isA, 41670, true, true, 0)
	c.Concepts.SetOutbound(ofFoot, c.Refs.AppendOffsets([]store.Offset{relFC}))
	c.Concepts.SetInbound(cellulitis, c.Refs.AppendOffsets([]store.Offset{relFC}))
	c.Concepts.SetActiveParents(ofFoot, c.Refs.AppendOffsets([]store.Offset{cellulitis}))

	b := closure.NewBuilder(c.Concepts, c.Refs, c.Relationships, isA)
	if err := b.Build([]store.Offset{disease}); err != nil {
		t.Fatalf("build closure: %v", err)
	}

	// language refset: Preferred membership for the "Cellulitis" synonym.
	refsetTitle := c.Strings.Append("English language refset")
	refsetIdx := c.RefsetIndex.Append(refsetTitle, 0, refsetConcept)

	fsnTerm := c.Strings.Append("Cellulitis (disorder)")
	fsnDesc := c.Descriptions.Append(fsnTerm, 100, 41670, cellulitis, 0, fsnKind, 0, true, byte(lang.English))

	prefTerm := c.Strings.Append("Cellulitis")
	prefDesc := c.Descriptions.Append(prefTerm, 101, 41670, cellulitis, 0, synonymKind, 0, true, byte(lang.English))
	acceptability := c.Refs.AppendOffsets([]store.Offset{preferred})
	prefPairs := c.Refs.AppendOffsets([]store.Offset{refsetIdx, acceptability})
	c.Descriptions.SetRefsets(prefDesc, prefPairs)

	synTerm := c.Strings.Append("Skin infection")
	synDesc := c.Descriptions.Append(synTerm, 102, 41670, cellulitis, 0, synonymKind, 0, true, byte(lang.English))

	c.Concepts.SetDescriptions(cellulitis, c.Refs.AppendOffsets([]store.Offset{fsnDesc, prefDesc, synDesc}))

	fsnTermFoot := c.Strings.Append("Cellulitis of foot (disorder)")
	fsnDescFoot := c.Descriptions.Append(fsnTermFoot, 103, 41670, ofFoot, 0, fsnKind, 0, true, byte(lang.English))
	c.Concepts.SetDescriptions(ofFoot, c.Refs.AppendOffsets([]store.Offset{fsnDescFoot}))

	fsnTermDisease := c.Strings.Append("Disease (disorder)")
	fsnDescDisease := c.Descriptions.Append(fsnTermDisease, 104, 41670, disease, 0, fsnKind, 0, true, byte(lang.English))
	c.Concepts.SetDescriptions(disease, c.Refs.AppendOffsets([]store.Offset{fsnDescDisease}))

	c.ActiveRoots = []uint64{64572001}

	// words/stems, sorted ascending for binary search.
	c.Words.Append(c.Strings.Append("cellulitis"), 0)
	c.Words.Append(c.Strings.Append("disease"), 0)
	c.Words.Append(c.Strings.Append("foot"), 0)
	c.Words.Append(c.Strings.Append("infection"), 0)
	c.Words.Append(c.Strings.Append("skin"), 0)

	// Stems are computed with the same stemmer the search path uses, so this
	// fixture stays correct regardless of the stemmer's exact output shape.
	stems := []struct {
		word    string
		concept store.Offset
	}{
		{"cellulitis", cellulitis},
		{"disease", disease},
		{"foot", ofFoot},
		{"infection", cellulitis},
		{"skin", cellulitis},
	}
	type stemEntry struct {
		stem    string
		concept store.Offset
	}
	var entries []stemEntry
	for _, s := range stems {
		entries = append(entries, stemEntry{stem: lang.Stem(s.word, lang.English), concept: s.concept})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].stem < entries[j].stem })
	for _, e := range entries {
		c.Stems.Append(c.Strings.Append(e.stem), c.Refs.AppendOffsets([]store.Offset{e.concept}))
	}

	e := New(c, lang.English)
	return e, &fixture{c: c, disease: 64572001, cellulitis: 128045006, ofFoot: 128046007}
}

func TestLocateByIdentity(t *testing.T) {
	e, fx := buildFixture(t)
	r := e.Locate("128045006")
	if r.Context == nil {
		t.Fatalf("expected a context, got message %q", r.Message)
	}
	if r.Context.ConceptRef != fx.cellulitis {
		t.Fatalf("unexpected concept ref: %d", r.Context.ConceptRef)
	}
}

func TestLocateUnknownConcept(t *testing.T) {
	e, _ := buildFixture(t)
	r := e.Locate("999999999")
	if r.Context != nil {
		t.Fatalf("expected no context for unknown concept")
	}
}

func TestLocateExpression(t *testing.T) {
	e, _ := buildFixture(t)
	r := e.Locate("128045006:363698007=56459004")
	if r.Context == nil {
		t.Fatalf("expected a context, got message %q", r.Message)
	}
	if r.Context.Kind != expression.Complex {
		t.Fatalf("expected a complex context")
	}
}

func TestSubsumesTest(t *testing.T) {
	e, _ := buildFixture(t)
	sub, err := e.SubsumesTest("64572001", "128046007")
	if err != nil {
		t.Fatalf("subsumesTest: %v", err)
	}
	if sub != closure.Subsumes {
		t.Fatalf("expected disease to subsume cellulitis-of-foot, got %s", sub)
	}
	sub, err = e.SubsumesTest("128046007", "64572001")
	if err != nil {
		t.Fatalf("subsumesTest: %v", err)
	}
	if sub != closure.SubsumedBy {
		t.Fatalf("expected cellulitis-of-foot to be subsumed by disease, got %s", sub)
	}
}

func TestLocateIsA(t *testing.T) {
	e, _ := buildFixture(t)
	r := e.LocateIsA("128046007", "64572001", true)
	if r.Context == nil {
		t.Fatalf("expected 128046007 to be a descendant of 64572001: %s", r.Message)
	}
	r = e.LocateIsA("64572001", "64572001", true)
	if r.Context != nil {
		t.Fatalf("expected self-match to fail when disallowSelf is set")
	}
}

func TestDisplayPrefersPreferredSynonym(t *testing.T) {
	e, fx := buildFixture(t)
	ctx := &expression.Context{Kind: expression.Reference, ConceptRef: fx.cellulitis}
	d, err := e.Display(ctx)
	if err != nil {
		t.Fatalf("display: %v", err)
	}
	if d != "Cellulitis" {
		t.Fatalf("expected preferred synonym %q, got %q", "Cellulitis", d)
	}
}

func TestDesignationsIncludesFSNAndSynonyms(t *testing.T) {
	e, _ := buildFixture(t)
	r := e.Locate("128045006")
	ds, err := e.Designations(r.Context)
	if err != nil {
		t.Fatalf("designations: %v", err)
	}
	if len(ds) != 3 {
		t.Fatalf("expected 3 designations, got %d: %+v", len(ds), ds)
	}
	var sawFSN, sawPreferred bool
	for _, d := range ds {
		if d.Use == useFSN {
			sawFSN = true
		}
		if d.Use == usePreferred {
			sawPreferred = true
		}
	}
	if !sawFSN || !sawPreferred {
		t.Fatalf("expected both an FSN and a preferred designation, got %+v", ds)
	}
}

func TestIteratorWalksActiveRoots(t *testing.T) {
	e, fx := buildFixture(t)
	it, err := e.NewIterator(nil)
	if err != nil {
		t.Fatalf("new iterator: %v", err)
	}
	ctx := it.Next()
	if ctx == nil || ctx.ConceptRef != fx.disease {
		t.Fatalf("expected first root to be disease, got %+v", ctx)
	}
	if it.Next() != nil {
		t.Fatalf("expected only one root")
	}
}

func TestIteratorWalksChildren(t *testing.T) {
	e, _ := buildFixture(t)
	root := e.Locate("64572001")
	it, err := e.NewIterator(root.Context)
	if err != nil {
		t.Fatalf("new iterator: %v", err)
	}
	var seen []uint64
	for ctx := it.Next(); ctx != nil; ctx = it.Next() {
		seen = append(seen, ctx.ConceptRef)
	}
	if len(seen) != 1 || seen[0] != 128045006 {
		t.Fatalf("expected disease's only child to be cellulitis, got %v", seen)
	}
}
