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

// Package lang maps BCP-47 language tags onto the single byte stored in a
// DESCRIPTION record, and stems words for the stem index (spec §4.4 phase 8,
// §9 design notes).
//
// This mirrors the language/refset mapping in the teacher's
// terminology/language.go, shrunk to a byte-sized code because the packed
// DESCRIPTION record has only one byte to spend on it.
package lang

import (
	"strings"

	"github.com/blevesearch/go-porterstemmer"
	"golang.org/x/text/language"
)

// Code is the compact, 1-byte encoding of a description's language.
type Code byte

// Supported codes. Unknown covers anything not in this table; descriptions
// in unsupported languages are still stored and searched, just without
// language-aware stemming or language-refset matching.
const (
	Unknown Code = iota
	English
	French
	Spanish
	Danish
	Swedish
	German
)

var tags = map[Code]language.Tag{
	English: language.English,
	French:  language.French,
	Spanish: language.Spanish,
	Danish:  language.Danish,
	Swedish: language.Swedish,
	German:  language.German,
}

var byISO = map[string]Code{
	"en": English,
	"fr": French,
	"es": Spanish,
	"da": Danish,
	"sv": Swedish,
	"de": German,
}

// ParseCode maps an RF2 languageCode column (a two-character ISO-639-1 code,
// case-insensitive, optionally with a region subtag) onto a Code.
func ParseCode(s string) Code {
	primary := strings.ToLower(s)
	if i := strings.IndexAny(primary, "-_"); i >= 0 {
		primary = primary[:i]
	}
	if c, ok := byISO[primary]; ok {
		return c
	}
	return Unknown
}

// Tag returns the BCP-47 tag for this code, for use with language.Matcher.
func (c Code) Tag() language.Tag {
	if t, ok := tags[c]; ok {
		return t
	}
	return language.Und
}

func (c Code) String() string {
	return c.Tag().String()
}

// Stem reduces word to its stem for the given language. Swedish, Danish and
// German fall back to the English (Porter) stemmer: this under-stems those
// languages but matches the behaviour of the system this was distilled from
// (spec §9 open questions), and a language-specific stemmer for them can be
// substituted here without changing any caller.
func Stem(word string, code Code) string {
	switch code {
	case English, Swedish, Danish, German, Unknown:
		return porterstemmer.StemString(word)
	case French, Spanish:
		// No dedicated stemmer wired for these yet; treat as already-stemmed
		// so matching degrades to whole-word rather than failing outright.
		return strings.ToLower(word)
	default:
		return porterstemmer.StemString(word)
	}
}
