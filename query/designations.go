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
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/wardle/go-terminology/expression"
	"github.com/wardle/go-terminology/lang"
	"github.com/wardle/go-terminology/refset"
	"github.com/wardle/go-terminology/snomed"
	"github.com/wardle/go-terminology/store"
)

// Designation is one rendered description of a concept, tagged with its use
// (§4.7 designations).
type Designation struct {
	Language lang.Code
	Use      string // "fsn", "preferred", "synonym", or a refset-tagged use
	Value    string
	Status   string

	offset store.Offset // backing description, for Uncapitalized
}

const (
	useFSN          = "fsn"
	usePreferred    = "preferred"
	useSynonym      = "synonym"
	useUnacceptable = "unacceptable"
)

// acceptability resolves description d's best acceptability across every
// language refset it belongs to: a description preferred in any one of them
// outranks one merely acceptable, which outranks one unacceptable in all of
// them.
func (e *Engine) acceptability(d store.Offset) refset.Acceptability {
	pairs := e.Cache.Descriptions.Refsets(d)
	raw := e.Cache.Refs.Read(pairs)
	best := refset.Unacceptable
	for i := 0; i+1 < len(raw); i += 2 {
		values := store.Offset(raw[i+1])
		if a := e.refsets.ClassifyAcceptability(values); a > best {
			best = a
		}
	}
	return best
}

// Designations lists every designation of ctx's focus concept, active or
// inactive (Status says which), including its FSN, its preferred synonym per
// language, and any
// refset-tagged designations contributed by language reference sets
// (§4.7 designations).
func (e *Engine) Designations(ctx *expression.Context) ([]Designation, error) {
	off, err := e.focusOffset(ctx)
	if err != nil {
		return nil, err
	}
	descOffsets := e.Cache.Refs.ReadOffsets(e.Cache.Concepts.Descriptions(off))

	var out []Designation
	for _, d := range descOffsets {
		status := snomed.StatusActive
		if !e.Cache.Descriptions.Active(d) {
			status = snomed.StatusInactive
		}
		use := useSynonym
		if snomed.ID(e.Cache.Concepts.SCTID(e.Cache.Descriptions.Kind(d))) == snomed.FullySpecifiedName {
			use = useFSN
		} else {
			switch a := e.acceptability(d); {
			case a.IsPreferred():
				use = usePreferred
			case a.IsUnacceptable() && len(e.Cache.Refs.Read(e.Cache.Descriptions.Refsets(d))) > 0:
				use = useUnacceptable
			}
		}
		out = append(out, Designation{
			Language: lang.Code(e.Cache.Descriptions.Language(d)),
			Use:      use,
			Value:    e.Cache.Strings.Get(e.Cache.Descriptions.Term(d)),
			Status:   status,
			offset:   d,
		})
	}
	return out, nil
}

// uncapitalized returns term as it should be rendered outside sentence-
// initial position: with its first character lowercased, unless d's case
// significance marks it (in whole or from its first character)
// case-sensitive, in which case the term must be left exactly as released.
func (e *Engine) uncapitalized(d store.Offset, term string) string {
	sig := snomed.ID(e.Cache.Concepts.SCTID(e.Cache.Descriptions.CaseSignificance(d)))
	if sig == snomed.EntireTermCaseSensitive || sig == snomed.InitialCharacterCaseSensitive {
		return term
	}
	r, size := utf8.DecodeRuneInString(term)
	if size == 0 {
		return term
	}
	return string(unicode.ToLower(r)) + term[size:]
}

// Display returns the best single designation for ctx's focus concept,
// preferring a Preferred synonym in the engine's default language, falling
// back to any active synonym, then the FSN (§4.7 display, §6.2 display).
func (e *Engine) Display(ctx *expression.Context) (string, error) {
	d, err := e.bestDesignation(ctx)
	if err != nil {
		return "", err
	}
	return d.Value, nil
}

// DisplayUncapitalized behaves like Display, but renders the chosen
// designation as it should appear outside sentence-initial position: its
// case significance, not its released (always-capitalized) form, decides
// whether it may be lowercased.
func (e *Engine) DisplayUncapitalized(ctx *expression.Context) (string, error) {
	d, err := e.bestDesignation(ctx)
	if err != nil {
		return "", err
	}
	if d.Use == useFSN {
		return d.Value, nil
	}
	return e.uncapitalized(d.offset, d.Value), nil
}

// bestDesignation picks the designation Display/DisplayUncapitalized would
// render: a Preferred synonym in the engine's default language, falling
// back to any active synonym, then the FSN.
func (e *Engine) bestDesignation(ctx *expression.Context) (Designation, error) {
	designations, err := e.Designations(ctx)
	if err != nil {
		return Designation{}, err
	}
	var fsn, anySynonym Designation
	for _, d := range designations {
		if d.Status != snomed.StatusActive {
			continue
		}
		if d.Use == usePreferred && d.Language == e.defaultLang {
			return d, nil
		}
		if d.Use == useFSN {
			fsn = d
		}
		if d.Use == useSynonym || d.Use == usePreferred {
			anySynonym = d
		}
	}
	if anySynonym.Value != "" {
		return anySynonym, nil
	}
	if fsn.Value != "" {
		return fsn, nil
	}
	return Designation{}, fmt.Errorf("query: no designation available for concept")
}

// Definition returns ctx's focus concept's textual definition designation,
// if any (§6.2 definition).
func (e *Engine) Definition(ctx *expression.Context) (string, bool, error) {
	off, err := e.focusOffset(ctx)
	if err != nil {
		return "", false, err
	}
	for _, d := range e.Cache.Refs.ReadOffsets(e.Cache.Concepts.Descriptions(off)) {
		if snomed.ID(e.Cache.Concepts.SCTID(e.Cache.Descriptions.Kind(d))) == snomed.Definition && e.Cache.Descriptions.Active(d) {
			return e.Cache.Strings.Get(e.Cache.Descriptions.Term(d)), true, nil
		}
	}
	return "", false, nil
}
