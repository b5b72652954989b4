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

package cache

import (
	"bytes"
	"testing"
)

func sampleCache() *Cache {
	c := New()
	c.Version = CacheVersion
	c.URI = "http://snomed.info/sct/900000000000207008"
	c.Date = "20230101"

	off := c.Concepts.Append(64572001, 100, false)
	c.Concepts.SetDepth(off, 2)
	c.IsA = off

	c.ActiveRoots = []uint64{138875005}
	c.InactiveRoots = nil
	c.DefaultLanguage = 1

	c.DescriptionIndex = []DescriptionIndexEntry{
		{ID: 41398015, Offset: off},
	}
	return c
}

func TestWriteReadRoundTrip(t *testing.T) {
	c := sampleCache()
	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Version != c.Version || got.URI != c.URI || got.Date != c.Date {
		t.Fatalf("metadata mismatch: %+v", got)
	}
	if got.Concepts.Count() != 1 {
		t.Fatalf("expected 1 concept, got %d", got.Concepts.Count())
	}
	if got.Concepts.SCTID(c.IsA) != 64572001 {
		t.Errorf("sctid mismatch after round trip")
	}
	if len(got.ActiveRoots) != 1 || got.ActiveRoots[0] != 138875005 {
		t.Errorf("active roots mismatch: %v", got.ActiveRoots)
	}
	if len(got.DescriptionIndex) != 1 || got.DescriptionIndex[0].ID != 41398015 {
		t.Errorf("description index mismatch: %v", got.DescriptionIndex)
	}
}

func TestWriteReadByteIdentical(t *testing.T) {
	c := sampleCache()
	var buf1, buf2 bytes.Buffer
	if err := Write(&buf1, c); err != nil {
		t.Fatalf("write 1: %v", err)
	}
	got, err := Read(bytes.NewReader(buf1.Bytes()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := Write(&buf2, got); err != nil {
		t.Fatalf("write 2: %v", err)
	}
	if !bytes.Equal(buf1.Bytes(), buf2.Bytes()) {
		t.Fatalf("writer(reader(file)) != file")
	}
}

func TestLongStringThreshold(t *testing.T) {
	c := New()
	c.URI = "x"
	c.Date = ""
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	c.Version = string(long)
	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Version != c.Version {
		t.Fatalf("long string round trip failed: len %d", len(got.Version))
	}
}

func TestIsTestEditionRewritesURI(t *testing.T) {
	c := New()
	c.URI = "http://snomed.info/sct/999000011000000103"
	c.Concepts.Append(31000003106, 50, false)
	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.URI != "http://snomed.info/xsct/999000011000000103" {
		t.Errorf("expected /xsct/ rewrite, got %q", got.URI)
	}
}
