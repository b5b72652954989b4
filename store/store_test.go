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

package store

import "testing"

func TestStringsRoundTrip(t *testing.T) {
	s := NewStrings()
	if s.Append("") != 0 {
		t.Fatal("empty string must be offset 0")
	}
	off := s.Append("Disease (disorder)")
	s2 := WrapStrings(s.Bytes())
	if got := s2.Get(off); got != "Disease (disorder)" {
		t.Errorf("got %q", got)
	}
	if got := s2.Get(0); got != "" {
		t.Errorf("offset 0 should be empty string, got %q", got)
	}
}

func TestRefsRoundTrip(t *testing.T) {
	r := NewRefs()
	off := r.Append([]uint32{1, 2, 3})
	r2 := WrapRefs(r.Bytes())
	got := r2.Read(off)
	want := []uint32{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	if r2.Read(0) != nil {
		t.Errorf("offset 0 should be empty/nil")
	}
}

func TestConceptsAppendAndLink(t *testing.T) {
	c := NewConcepts()
	off := c.Append(64572001, 100, false)
	if c.SCTID(off) != 64572001 {
		t.Errorf("sctid mismatch")
	}
	if c.AllDescendants(off) != NoDescendants {
		t.Errorf("expected NoDescendants sentinel by default")
	}
	c.SetDepth(off, 3)
	c.SetAllDescendants(off, 42)
	c2 := WrapConcepts(c.Bytes())
	if c2.Depth(off) != 3 {
		t.Errorf("depth not persisted")
	}
	if c2.AllDescendants(off) != 42 {
		t.Errorf("all-descendants not persisted")
	}
	if c2.IsInactive(off) {
		t.Errorf("expected active concept")
	}
	if c2.IsSufficientlyDefined(off) {
		t.Errorf("expected primitive by default")
	}
	c.SetSufficientlyDefined(off, true)
	if !WrapConcepts(c.Bytes()).IsSufficientlyDefined(off) {
		t.Errorf("definition status not persisted")
	}
}

func TestRefsetMemberGUIDOptional(t *testing.T) {
	m := NewRefsetMembers()
	off := m.Append(MemberConcept, 1, 2, 100, []byte("0123456789abcdef"), 0)
	off2 := m.Append(MemberDescription, 3, 4, 100, nil, 0)
	m2 := WrapRefsetMembers(m.Bytes())
	if _, ok := m2.GUID(off); !ok {
		t.Errorf("expected GUID present")
	}
	if _, ok := m2.GUID(off2); ok {
		t.Errorf("expected GUID absent")
	}
}
