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
	"strings"

	"github.com/wardle/go-terminology/store"
)

// testEditionSCTID is the presence of this concept in a distribution that
// flags it as test data (§6.1, §9). The heuristic is opaque but retained
// literally for compatibility with existing readers.
const testEditionSCTID = 31000003106

// rewriteURI applies the /sct/ -> /xsct/ substitution to c.URI iff the
// distribution being written contains the test-edition SCTID. It does not
// mutate c.URI; the caller writes the returned value.
func rewriteURI(c *Cache) string {
	if !isTestEdition(c.Concepts) {
		return c.URI
	}
	return strings.Replace(c.URI, "/sct/", "/xsct/", 1)
}

// isTestEdition scans concepts for testEditionSCTID. Import-time concept
// counts run to millions but this only runs once, at save time.
func isTestEdition(concepts *store.Concepts) bool {
	for i := 0; i < concepts.Count(); i++ {
		if concepts.SCTID(concepts.OffsetOf(i)) == testEditionSCTID {
			return true
		}
	}
	return false
}
