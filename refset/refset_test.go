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

package refset

import (
	"testing"

	"github.com/wardle/go-terminology/store"
)

func TestParseFieldKind(t *testing.T) {
	cases := map[byte]FieldKind{'c': FieldConcept, 'I': FieldInteger, 's': FieldString}
	for ch, want := range cases {
		got, ok := ParseFieldKind(ch)
		if !ok || got != want {
			t.Errorf("ParseFieldKind(%q) = %v, %v; want %v, true", ch, got, ok, want)
		}
	}
	if _, ok := ParseFieldKind('x'); ok {
		t.Errorf("expected 'x' to be rejected")
	}
}

func TestComponentHasMember(t *testing.T) {
	refs := store.NewRefs()
	const refsetA, refsetB, refsetC store.Offset = 100, 200, 300
	const valuesA, valuesB store.Offset = 1000, 2000
	pairs := refs.AppendOffsets([]store.Offset{refsetA, valuesA, refsetB, valuesB})

	if !ComponentHasMember(refs, pairs, refsetA) {
		t.Errorf("expected membership in refsetA")
	}
	if v, ok := ComponentValues(refs, pairs, refsetB); !ok || v != valuesB {
		t.Errorf("expected values %v for refsetB, got %v, %v", valuesB, v, ok)
	}
	if ComponentHasMember(refs, pairs, refsetC) {
		t.Errorf("did not expect membership in refsetC")
	}
}

func TestFieldAccess(t *testing.T) {
	strs := store.NewStrings()
	refs := store.NewRefs()
	idx := store.NewRefsetIndex()
	members := store.NewRefsetMembers()
	concepts := store.NewConcepts()
	l := New(idx, members, refs, strs, concepts)

	title := strs.Append("Clinical finding simple map")
	refset := idx.Append(title, 0, 0)
	idx.SetFieldTypes(refset, refs.Append([]uint32{uint32(FieldString)}))
	idx.SetFieldNames(refset, refs.AppendOffsets([]store.Offset{strs.Append("mapTarget")}))

	mapTarget := strs.Append("J18.9")
	values := refs.Append([]uint32{uint32(mapTarget)})
	member := members.Append(store.MemberConcept, 1, 2, 100, nil, values)

	got, err := l.StringField(refset, member, 0)
	if err != nil {
		t.Fatalf("StringField: %v", err)
	}
	if got != "J18.9" {
		t.Errorf("expected J18.9, got %q", got)
	}
	if _, err := l.ConceptField(refset, member, 0); err == nil {
		t.Errorf("expected error resolving string field as concept")
	}
}

func TestClassifyAcceptability(t *testing.T) {
	refs := store.NewRefs()
	concepts := store.NewConcepts()
	l := New(store.NewRefsetIndex(), store.NewRefsetMembers(), refs, store.NewStrings(), concepts)

	preferred := concepts.Append(900000000000548007, 0, false)
	acceptable := concepts.Append(900000000000549004, 0, false)
	other := concepts.Append(12345006, 0, false)

	preferredValues := refs.AppendOffsets([]store.Offset{preferred})
	if a := l.ClassifyAcceptability(preferredValues); !a.IsPreferred() || a.IsAcceptable() || a.IsUnacceptable() {
		t.Errorf("expected preferred-only classification, got %v", a)
	}

	acceptableValues := refs.AppendOffsets([]store.Offset{acceptable})
	if a := l.ClassifyAcceptability(acceptableValues); !a.IsAcceptable() || a.IsPreferred() {
		t.Errorf("expected acceptable classification, got %v", a)
	}

	unacceptableValues := refs.AppendOffsets([]store.Offset{other})
	if a := l.ClassifyAcceptability(unacceptableValues); !a.IsUnacceptable() {
		t.Errorf("expected unacceptable classification, got %v", a)
	}
}
