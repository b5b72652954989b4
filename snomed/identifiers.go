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

// Package snomed defines identifiers and metadata constants shared across
// the terminology core: the SCTID type, the well-known concept identifiers
// that drive import and query behaviour (is-a, FSN, acceptability, refset
// kinds) and the date encoding used by the packed concept store.
package snomed

import (
	"fmt"
	"strconv"
	"time"

	"github.com/wardle/go-terminology/verhoeff"
)

// ID is a checksummed (Verhoeff) globally unique persistent identifier (SCTID).
// See https://confluence.ihtsdotools.org/display/DOCTIG/3.1.4.2.+Component+features+-+Identifiers
//
// The SCTID data type is a 64-bit unsigned integer allocated and represented
// in accordance with a set of rules that enable each identifier to refer
// unambiguously to a unique component, and that support separate partitions
// for allocation by different namespaces and issuing organizations.
type ID uint64

// ParseID converts a string into an ID without checking the Verhoeff digit.
func ParseID(s string) (ID, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(id), nil
}

// ParseAndValidate converts a string into an ID, requiring it to carry a
// valid Verhoeff check digit.
func ParseAndValidate(s string) (ID, error) {
	id, err := ParseID(s)
	if err != nil {
		return 0, err
	}
	if !id.IsValid() {
		return 0, fmt.Errorf("invalid identifier %q: fails Verhoeff check", s)
	}
	return id, nil
}

// String returns the decimal representation of this identifier.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// IsValid reports whether this is a well-formed SNOMED CT identifier, i.e.
// its final digit is a correct Verhoeff check digit.
func (id ID) IsValid() bool {
	return verhoeff.ValidateUint64(uint64(id))
}

// partitionIdentifier returns the two digits that identify the component
// kind and namespace type, the penultimate pair of digits in the SCTID.
// See https://confluence.ihtsdotools.org/display/DOCRELFMT/5.5.+Partition+Identifier
//
//	0123456789
//	xxxxxxxppc
func (id ID) partitionIdentifier() string {
	s := id.String()
	l := len(s)
	if l < 3 {
		return ""
	}
	return s[l-3 : l-1]
}

// IsConcept reports whether this identifier's partition marks it as a concept.
func (id ID) IsConcept() bool {
	pid := id.partitionIdentifier()
	return pid == "00" || pid == "10"
}

// IsDescription reports whether this identifier's partition marks it as a description.
func (id ID) IsDescription() bool {
	pid := id.partitionIdentifier()
	return pid == "01" || pid == "11"
}

// IsRelationship reports whether this identifier's partition marks it as a relationship.
func (id ID) IsRelationship() bool {
	pid := id.partitionIdentifier()
	return pid == "02" || pid == "12"
}

// Kind names the component kind implied by an identifier's partition digits,
// used to produce a precise error message when a reference resolves to the
// wrong sort of component (e.g. a description id used where a concept id is
// expected in an expression refinement).
func (id ID) Kind() string {
	switch {
	case id.IsConcept():
		return "concept"
	case id.IsDescription():
		return "description"
	case id.IsRelationship():
		return "relationship"
	default:
		return "unknown"
	}
}

// Epoch is the base date from which concept effective-times are stored as a
// 16-bit day count in the packed CONCEPT store: 30 December 1899, chosen for
// compatibility with existing caches rather than for any SNOMED significance.
var Epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// MaxEffectiveDay is the largest day offset representable in the 16-bit
// effective-date field.
const MaxEffectiveDay = 0xFFFF

// EffectiveDay converts a calendar date into the number of days since Epoch,
// the encoding used for the CONCEPT and DESCRIPTION store effective-date
// fields. It returns an error if t predates Epoch or overflows 16 bits.
func EffectiveDay(t time.Time) (uint16, error) {
	days := int64(t.Sub(Epoch).Hours() / 24)
	if days < 0 {
		return 0, fmt.Errorf("date %s is before epoch %s", t.Format("20060102"), Epoch.Format("20060102"))
	}
	if days > MaxEffectiveDay {
		return 0, fmt.Errorf("date %s overflows 16-bit effective-date range", t.Format("20060102"))
	}
	return uint16(days), nil
}

// ParseEffectiveTime parses an RF2 YYYYMMDD date string into an encoded
// effective-day value.
func ParseEffectiveTime(s string) (uint16, error) {
	t, err := time.Parse("20060102", s)
	if err != nil {
		return 0, fmt.Errorf("malformed effectiveTime %q: %w", s, err)
	}
	return EffectiveDay(t)
}

// DateFromEffectiveDay converts a stored day-offset back into a calendar date.
func DateFromEffectiveDay(d uint16) time.Time {
	return Epoch.AddDate(0, 0, int(d))
}
