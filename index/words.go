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
	"sort"

	"github.com/wardle/go-terminology/store"
)

// WordIndex looks up a word's store offset in the WORDS store. The backing
// store must hold its entries in ascending lexical order by string, which
// the importer guarantees by inserting words in sorted-map iteration order
// during phase 8 (process words).
type WordIndex struct {
	words   *store.Words
	strings *store.Strings
}

// NewWordIndex wraps words for text lookup, resolving each entry's term via
// strings.
func NewWordIndex(words *store.Words, strings *store.Strings) *WordIndex {
	return &WordIndex{words: words, strings: strings}
}

// Lookup returns the offset of the word entry matching w exactly.
func (x *WordIndex) Lookup(w string) (store.Offset, bool) {
	n := x.words.Count()
	i := sort.Search(n, func(i int) bool {
		off := x.words.OffsetOf(i)
		return x.strings.Get(x.words.String(off)) >= w
	})
	if i == n {
		return 0, false
	}
	off := x.words.OffsetOf(i)
	if x.strings.Get(x.words.String(off)) != w {
		return 0, false
	}
	return off, true
}

// PrefixRange returns the half-open range [lo, hi) of word-store positions
// whose term has prefix as a lexical prefix.
func (x *WordIndex) PrefixRange(prefix string) (lo, hi int) {
	n := x.words.Count()
	lo = sort.Search(n, func(i int) bool {
		return x.strings.Get(x.words.String(x.words.OffsetOf(i))) >= prefix
	})
	hi = sort.Search(n, func(i int) bool {
		s := x.strings.Get(x.words.String(x.words.OffsetOf(i)))
		return s >= prefix && !hasPrefix(s, prefix)
	})
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// StemIndex looks up a stem's store offset in the STEMS store, built and
// ordered the same way as WordIndex.
type StemIndex struct {
	stems   *store.Stems
	strings *store.Strings
}

// NewStemIndex wraps stems for text lookup.
func NewStemIndex(stems *store.Stems, strings *store.Strings) *StemIndex {
	return &StemIndex{stems: stems, strings: strings}
}

// Lookup returns the offset of the stem entry matching stem exactly.
func (x *StemIndex) Lookup(stem string) (store.Offset, bool) {
	n := x.stems.Count()
	i := sort.Search(n, func(i int) bool {
		off := x.stems.OffsetOf(i)
		return x.strings.Get(x.stems.String(off)) >= stem
	})
	if i == n {
		return 0, false
	}
	off := x.stems.OffsetOf(i)
	if x.strings.Get(x.stems.String(off)) != stem {
		return 0, false
	}
	return off, true
}
