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

package index

import (
	"testing"

	"github.com/wardle/go-terminology/cache"
	"github.com/wardle/go-terminology/store"
)

func TestConceptIndexLookup(t *testing.T) {
	c := store.NewConcepts()
	c.Append(100, 0, false)
	c.Append(64572001, 0, false)
	c.Append(999999999, 0, false)
	x := NewConceptIndex(c)

	off, ok := x.Lookup(64572001)
	if !ok || c.SCTID(off) != 64572001 {
		t.Fatalf("expected to find 64572001")
	}
	if _, ok := x.Lookup(42); ok {
		t.Fatalf("did not expect to find 42")
	}
}

func TestDescriptionIndexLookup(t *testing.T) {
	entries := BuildDescriptionIndex([]cache.DescriptionIndexEntry{
		{ID: 300, Offset: 30},
		{ID: 100, Offset: 10},
		{ID: 200, Offset: 20},
	})
	x := NewDescriptionIndex(entries)
	off, ok := x.Lookup(200)
	if !ok || off != 20 {
		t.Fatalf("expected offset 20, got %v ok=%v", off, ok)
	}
	if _, ok := x.Lookup(250); ok {
		t.Fatalf("did not expect to find 250")
	}
}

func TestWordIndexPrefixRange(t *testing.T) {
	strs := store.NewStrings()
	words := store.NewWords()
	for _, w := range []string{"cell", "cellulitis", "cellular", "disease", "fallot"} {
		words.Append(strs.Append(w), 0)
	}
	x := NewWordIndex(words, strs)
	lo, hi := x.PrefixRange("cell")
	if lo != 0 || hi != 3 {
		t.Fatalf("expected range [0,3), got [%d,%d)", lo, hi)
	}
	off, ok := x.Lookup("disease")
	if !ok || strs.Get(words.String(off)) != "disease" {
		t.Fatalf("expected to find disease")
	}
}

func TestStemIndexLookup(t *testing.T) {
	strs := store.NewStrings()
	stems := store.NewStems()
	stems.Append(strs.Append("cellulit"), 0)
	stems.Append(strs.Append("diseas"), 0)
	x := NewStemIndex(stems, strs)
	if _, ok := x.Lookup("nonexistent"); ok {
		t.Fatalf("did not expect to find nonexistent")
	}
}
