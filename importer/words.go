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

package importer

import (
	"sort"
	"strings"

	"github.com/wardle/go-terminology/lang"
	"github.com/wardle/go-terminology/snomed"
	"github.com/wardle/go-terminology/store"
)

type wordAcc struct {
	active   bool
	inactive bool
	fsn      bool
}

// processWords tokenizes every description's term, populating the WORDS
// store (distinct words of 3+ characters, flagged FSN/inactive-only) and the
// STEMS store (distinct stems, each with the sorted set of concepts any of
// whose active descriptions contain a word stemming to it) (§4.4 phase 8).
func (imp *importer) processWords() error {
	words := make(map[string]*wordAcc)
	stemConcepts := make(map[string]map[store.Offset]bool)

	n := imp.c.Descriptions.Count()
	for i := 0; i < n; i++ {
		if i%8192 == 0 {
			if err := imp.token.DeadCheck("tokenize descriptions"); err != nil {
				return err
			}
		}
		d := imp.c.Descriptions.OffsetOf(i)
		term := imp.c.Strings.Get(imp.c.Descriptions.Term(d))
		active := imp.c.Descriptions.Active(d)
		isFSN := snomed.ID(imp.c.Concepts.SCTID(imp.c.Descriptions.Kind(d))) == snomed.FullySpecifiedName
		langCode := lang.Code(imp.c.Descriptions.Language(d))
		concept := imp.c.Descriptions.Concept(d)

		for _, tok := range tokenizeTerm(term) {
			acc, ok := words[tok]
			if !ok {
				acc = &wordAcc{}
				words[tok] = acc
			}
			if active {
				acc.active = true
			} else {
				acc.inactive = true
			}
			if isFSN {
				acc.fsn = true
			}
			if !active {
				continue
			}
			stem := lang.Stem(tok, langCode)
			set, ok := stemConcepts[stem]
			if !ok {
				set = make(map[store.Offset]bool)
				stemConcepts[stem] = set
			}
			set[concept] = true
		}
	}

	wordTexts := make([]string, 0, len(words))
	for w := range words {
		wordTexts = append(wordTexts, w)
	}
	sort.Strings(wordTexts)
	for _, w := range wordTexts {
		acc := words[w]
		var flags byte
		if acc.inactive && !acc.active {
			flags |= store.WordFlagInactiveOnly
		}
		if acc.fsn {
			flags |= store.WordFlagFSN
		}
		imp.c.Words.Append(imp.c.Strings.Append(w), flags)
	}

	stemTexts := make([]string, 0, len(stemConcepts))
	for s := range stemConcepts {
		stemTexts = append(stemTexts, s)
	}
	sort.Strings(stemTexts)

	conceptStems := make(map[store.Offset][]store.Offset)
	for _, s := range stemTexts {
		concepts := make([]store.Offset, 0, len(stemConcepts[s]))
		for c := range stemConcepts[s] {
			concepts = append(concepts, c)
		}
		sort.Slice(concepts, func(i, j int) bool { return concepts[i] < concepts[j] })
		stemOff := imp.c.Stems.Append(imp.c.Strings.Append(s), imp.c.Refs.AppendOffsets(concepts))
		for _, c := range concepts {
			conceptStems[c] = append(conceptStems[c], stemOff)
		}
	}

	for c, stems := range conceptStems {
		sort.Slice(stems, func(i, j int) bool { return stems[i] < stems[j] })
		imp.c.Concepts.SetStems(c, imp.c.Refs.AppendOffsets(stems))
	}
	return nil
}

// tokenizeTerm splits a description term into its indexable words: lowercase,
// stripped of punctuation, 3+ characters, not a bare number. Mirrors the
// tokenizer the query layer uses at search time (query.tokenize) so a stem
// computed here matches one computed from a search string there.
func tokenizeTerm(s string) []string {
	sep := func(r rune) bool {
		return strings.ContainsRune(",\t:.!@#$%^&*(){}[]|\\;\"<>?/~`-_+= \n\r", r)
	}
	fields := strings.FieldsFunc(strings.ToLower(s), sep)
	var out []string
	for _, f := range fields {
		if len(f) > 2 && !isNumericToken(f) {
			out = append(out, f)
		}
	}
	return out
}

func isNumericToken(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
