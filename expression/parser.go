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

import (
	"fmt"
	"strconv"
	"strings"
)

// parser is a hand-written recursive-descent parser over the compositional
// grammar (§4.6). The grammar is small enough that a generated parser would
// buy nothing; ECL (the much larger constraint grammar) is explicitly out of
// scope (§1 non-goals).
type parser struct {
	input string
	pos   int
}

// Parse parses a compositional-grammar expression string.
func Parse(s string) (*Expression, error) {
	p := &parser{input: s}
	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("expression: unexpected trailing input at %d: %q", p.pos, p.input[p.pos:])
	}
	return e, nil
}

func (p *parser) parseExpression() (*Expression, error) {
	e := &Expression{}
	e.Status = p.parseStatus()

	c, err := p.parseConcept()
	if err != nil {
		return nil, err
	}
	e.Concepts = append(e.Concepts, c)

	for p.consumeSpace('+') {
		c, err := p.parseConcept()
		if err != nil {
			return nil, err
		}
		e.Concepts = append(e.Concepts, c)
	}

	if p.consumeSpace(':') {
		if err := p.parseRefinementSet(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (p *parser) parseStatus() Status {
	p.skipSpace()
	if strings.HasPrefix(p.input[p.pos:], "===") {
		p.pos += 3
		return EquivalentTo
	}
	if strings.HasPrefix(p.input[p.pos:], "<<<") {
		p.pos += 3
		return SubsumedBy
	}
	return NoStatus
}

// parseRefinementSet parses either a comma-separated list of bare
// refinements, or a comma-separated list of `{...}` refinement groups.
func (p *parser) parseRefinementSet(e *Expression) error {
	p.skipSpace()
	if p.peek() == '{' {
		for {
			g, err := p.parseRefinementGroup()
			if err != nil {
				return err
			}
			e.Groups = append(e.Groups, g)
			if !p.consumeSpace(',') {
				return nil
			}
		}
	}
	for {
		r, err := p.parseRefinement()
		if err != nil {
			return err
		}
		e.Refinements = append(e.Refinements, r)
		if !p.consumeSpace(',') {
			return nil
		}
	}
}

func (p *parser) parseRefinementGroup() (RefinementGroup, error) {
	var g RefinementGroup
	if !p.consumeSpace('{') {
		return g, fmt.Errorf("expression: expected '{' at %d", p.pos)
	}
	for {
		r, err := p.parseRefinement()
		if err != nil {
			return g, err
		}
		g.Refinements = append(g.Refinements, r)
		if !p.consumeSpace(',') {
			break
		}
	}
	if !p.consumeSpace('}') {
		return g, fmt.Errorf("expression: expected '}' at %d", p.pos)
	}
	return g, nil
}

func (p *parser) parseRefinement() (Refinement, error) {
	var r Refinement
	name, err := p.parseConcept()
	if err != nil {
		return r, err
	}
	r.Name = name
	if !p.consumeSpace('=') {
		return r, fmt.Errorf("expression: expected '=' at %d", p.pos)
	}
	p.skipSpace()
	if p.peek() == '(' {
		p.pos++
		nested, err := p.parseExpression()
		if err != nil {
			return r, err
		}
		if !p.consumeSpace(')') {
			return r, fmt.Errorf("expression: expected ')' at %d", p.pos)
		}
		r.Nested = nested
		return r, nil
	}
	v, err := p.parseConcept()
	if err != nil {
		return r, err
	}
	r.Value = v
	return r, nil
}

func (p *parser) parseConcept() (Concept, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) && isDigit(p.input[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return Concept{}, fmt.Errorf("expression: expected SCTID at %d: %q", start, remainder(p.input, start))
	}
	sctid, err := strconv.ParseUint(p.input[start:p.pos], 10, 64)
	if err != nil {
		return Concept{}, fmt.Errorf("expression: invalid SCTID %q: %w", p.input[start:p.pos], err)
	}
	c := Concept{SCTID: sctid}

	p.skipSpace()
	if p.peek() == '|' {
		p.pos++
		termStart := p.pos
		for p.pos < len(p.input) && p.input[p.pos] != '|' {
			p.pos++
		}
		if p.pos >= len(p.input) {
			return Concept{}, fmt.Errorf("expression: unterminated term starting at %d", termStart)
		}
		c.Term = strings.TrimSpace(p.input[termStart:p.pos])
		p.pos++ // consume closing '|'
	}
	return c, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func remainder(s string, at int) string {
	if at >= len(s) {
		return ""
	}
	return s[at:]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n' || p.input[p.pos] == '\r') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

// consumeSpace skips whitespace, then consumes b if it is next, reporting
// whether it did.
func (p *parser) consumeSpace(b byte) bool {
	p.skipSpace()
	if p.peek() == b {
		p.pos++
		return true
	}
	return false
}
