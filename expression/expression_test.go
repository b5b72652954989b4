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

import "testing"

func TestParseRefinementGroup(t *testing.T) {
	e, err := Parse(`128045006|Cellulitis|:{363698007|finding site|=56459004|foot structure|}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(e.Concepts) != 1 || e.Concepts[0].SCTID != 128045006 {
		t.Fatalf("expected one focus concept 128045006, got %+v", e.Concepts)
	}
	if len(e.Refinements) != 0 {
		t.Fatalf("expected no ungrouped refinements, got %d", len(e.Refinements))
	}
	if len(e.Groups) != 1 || len(e.Groups[0].Refinements) != 1 {
		t.Fatalf("expected one group with one refinement, got %+v", e.Groups)
	}
	r := e.Groups[0].Refinements[0]
	if r.Name.SCTID != 363698007 || r.Value.SCTID != 56459004 {
		t.Fatalf("unexpected refinement: %+v", r)
	}
}

func TestParseStatusPrefix(t *testing.T) {
	e, err := Parse(`<<< 73211009 : 363698007 = 113331007`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if e.Status != SubsumedBy {
		t.Fatalf("expected SubsumedBy, got %v", e.Status)
	}
	if len(e.Concepts) != 1 || e.Concepts[0].SCTID != 73211009 {
		t.Fatalf("unexpected focus: %+v", e.Concepts)
	}
	if len(e.Refinements) != 1 {
		t.Fatalf("expected one refinement, got %d", len(e.Refinements))
	}
}

func TestEquivalencePlainSCTID(t *testing.T) {
	a, err := Parse("116680003")
	if err != nil {
		t.Fatalf("parse a: %v", err)
	}
	b, err := Parse("116680003")
	if err != nil {
		t.Fatalf("parse b: %v", err)
	}
	if !Equivalent(a, b) {
		t.Fatalf("expected equivalence for identical SCTIDs")
	}
}

func TestEquivalenceIgnoresTerm(t *testing.T) {
	a, err := Parse("116680003 |is a|")
	if err != nil {
		t.Fatalf("parse a: %v", err)
	}
	b, err := Parse("116680003")
	if err != nil {
		t.Fatalf("parse b: %v", err)
	}
	if !Equivalent(a, b) {
		t.Fatalf("expected term to be non-semantic")
	}
}

func TestRenderMinimalIdempotent(t *testing.T) {
	const src = `128045006|Cellulitis|:{363698007|finding site|=56459004|foot structure|}`
	e, err := Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	once := Render(e, Minimal)
	reparsed, err := Parse(once)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	twice := Render(reparsed, Minimal)
	if once != twice {
		t.Fatalf("render not idempotent: %q != %q", once, twice)
	}
}

func TestParseMalformedInput(t *testing.T) {
	cases := []string{
		"128045006:{363698007=}",
		"128045006|unterminated",
		"abc",
		"128045006:363698007=(113331007",
	}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Errorf("expected error parsing %q", c)
		}
	}
}

func TestParseNestedRefinementValue(t *testing.T) {
	e, err := Parse(`71388002:405815000=(123037004:{272741003=7771000}),260686004=129304002`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(e.Refinements) != 2 {
		t.Fatalf("expected two refinements, got %d", len(e.Refinements))
	}
	nested := e.Refinements[0]
	if nested.Nested == nil {
		t.Fatalf("expected first refinement to have a nested expression")
	}
	if nested.Nested.Concepts[0].SCTID != 123037004 {
		t.Fatalf("unexpected nested focus: %+v", nested.Nested.Concepts)
	}
}
