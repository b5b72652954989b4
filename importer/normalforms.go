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
	"strconv"

	"github.com/wardle/go-terminology/expression"
	"github.com/wardle/go-terminology/index"
)

// buildNormalForms caches each concept's normalised compositional-grammar
// form, so a query-time comparison never has to re-walk the defining
// relationships of a bare concept reference (§4.4 phase 17). A concept whose
// normal form renders identically to its bare SCTID records nothing: the
// CONCEPT record's normal-form field defaults to offset 0, read back as "no
// cached form" by the query layer.
func (imp *importer) buildNormalForms() error {
	normalizer := &expression.Normalizer{
		Concepts:      imp.c.Concepts,
		Relationships: imp.c.Relationships,
		Refs:          imp.c.Refs,
		Index:         index.NewConceptIndex(imp.c.Concepts),
		IsA:           imp.c.IsA,
	}

	n := imp.c.Concepts.Count()
	for i := 0; i < n; i++ {
		if i%4096 == 0 {
			if err := imp.token.DeadCheck("build normal forms"); err != nil {
				return err
			}
		}
		c := imp.c.Concepts.OffsetOf(i)
		sctid := imp.c.Concepts.SCTID(c)

		bare := &expression.Expression{Concepts: []expression.Concept{{SCTID: sctid}}}
		normalized, err := normalizer.Normalize(bare)
		if err != nil {
			logger.Printf("concept %d: normal form: %v, leaving uncached", sctid, err)
			continue
		}
		rendered := expression.Render(normalized, expression.Minimal)
		if rendered == strconv.FormatUint(sctid, 10) {
			continue
		}
		imp.c.Concepts.SetNormalForm(c, imp.c.Strings.Append(rendered))
	}
	return nil
}
