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

import "testing"

func TestFilterIsADescendantOf(t *testing.T) {
	e, fx := buildFixture(t)
	fc := e.GetPrepContext(false)
	if err := fc.Filter("is-a", OpEquals, "64572001"); err != nil {
		t.Fatalf("filter: %v", err)
	}
	fc.ExecuteFilters()
	if fc.FilterSize() != 3 {
		t.Fatalf("expected disease + its 2 descendants, got %d", fc.FilterSize())
	}
	if !fc.FilterLocate(fx.cellulitis) {
		t.Fatalf("expected cellulitis to be present in the is-a(disease) filter")
	}
}

func TestFilterDescendentOfExcludesSelf(t *testing.T) {
	e, fx := buildFixture(t)
	fc := e.GetPrepContext(false)
	if err := fc.Filter("descendent-of", OpEquals, "64572001"); err != nil {
		t.Fatalf("filter: %v", err)
	}
	fc.ExecuteFilters()
	if fc.FilterSize() != 2 {
		t.Fatalf("expected 2 strict descendants, got %d", fc.FilterSize())
	}
	if fc.FilterLocate(fx.disease) {
		t.Fatalf("descendent-of must exclude the concept itself")
	}
}

func TestFilterIsNotA(t *testing.T) {
	e, fx := buildFixture(t)
	fc := e.GetPrepContext(false)
	if err := fc.Filter("is-not-a", OpEquals, "128045006"); err != nil {
		t.Fatalf("filter: %v", err)
	}
	fc.ExecuteFilters()
	if fc.FilterLocate(fx.cellulitis) || fc.FilterLocate(fx.ofFoot) {
		t.Fatalf("is-not-a(cellulitis) must exclude cellulitis and its descendants")
	}
	if !fc.FilterLocate(fx.disease) {
		t.Fatalf("is-not-a(cellulitis) must still include disease")
	}
}

func TestSearchFilterRatesExactCodeHighest(t *testing.T) {
	e, fx := buildFixture(t)
	results := e.SearchFilter(nil, "128045006", true)
	if len(results) == 0 || e.Cache.Concepts.SCTID(results[0].Concept) != fx.cellulitis || results[0].Rating != ratingExact {
		t.Fatalf("expected an exact code match rated %d first, got %+v", ratingExact, results)
	}
}

func TestSearchFilterFindsByStem(t *testing.T) {
	e, fx := buildFixture(t)
	results := e.SearchFilter(nil, "cellulitis", true)
	var found bool
	for _, r := range results {
		if e.Cache.Concepts.SCTID(r.Concept) == fx.cellulitis {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a text search for %q to find cellulitis, got %+v", "cellulitis", results)
	}
}

// TestSearchFilterRatesDisplayPrefixInBand reproduces spec.md's "disease"
// search scenario verbatim: a query that exactly matches an FSN's
// clinically meaningful term, modulo its trailing semantic tag, must rate
// as a display-prefix match (80-90 inclusive), not degrade toward zero
// because of the undecoded "(disorder)" suffix.
func TestSearchFilterRatesDisplayPrefixInBand(t *testing.T) {
	e, fx := buildFixture(t)
	results := e.SearchFilter(nil, "disease", true)
	var got *SearchResult
	for i := range results {
		if e.Cache.Concepts.SCTID(results[i].Concept) == fx.disease {
			got = &results[i]
			break
		}
	}
	if got == nil {
		t.Fatalf("expected a text search for %q to find disease, got %+v", "disease", results)
	}
	if got.Rating < 80 || got.Rating > 90 {
		t.Fatalf("expected disease's rating in [80,90], got %d", got.Rating)
	}
}

func TestSearchFilterWithinFilterContext(t *testing.T) {
	e, fx := buildFixture(t)
	fc := e.GetPrepContext(false)
	if err := fc.Filter("is-a", OpEquals, "128045006"); err != nil {
		t.Fatalf("filter: %v", err)
	}
	fc.ExecuteFilters()
	results := e.SearchFilter(fc, "foot", true)
	var sawFoot bool
	for _, r := range results {
		if e.Cache.Concepts.SCTID(r.Concept) == fx.ofFoot {
			sawFoot = true
		}
	}
	if !sawFoot {
		t.Fatalf("expected search within is-a(cellulitis) to find cellulitis-of-foot, got %+v", results)
	}
}
