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
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/wardle/go-terminology/refset"
	"github.com/wardle/go-terminology/rf2"
	"github.com/wardle/go-terminology/snomed"
	"github.com/wardle/go-terminology/store"
)

// refsetMember is one decoded row, held until its refset's index entry can
// be built once every file has been scanned.
type refsetMember struct {
	offset  store.Offset
	refID   uint64 // ReferencedComponentID, for the by-ref ordering
	display string // for the by-display ordering
}

// refsetAcc accumulates everything needed to build one refset's REFSET-INDEX
// entry once all of its member rows have been seen.
type refsetAcc struct {
	path       string
	header     []string
	fieldKinds []refset.FieldKind
	isLanguage bool
	members    []refsetMember
}

// processRefsets decodes every reference set snapshot file: each row's
// referenced component, typed additional fields (resolved using the
// field-kind signature encoded in the filename, per RF2 convention) and GUID,
// building the REFSET-MEMBER store and, once every row is seen, the
// REFSET-INDEX and the concept/description back-indices used by
// refset.ComponentValues (§4.4 phases 13-16). A row whose referenced
// component isn't in this release is skipped and logged.
func (imp *importer) processRefsets(files []rf2.File) error {
	accs := make(map[uint64]*refsetAcc)
	rowsSeen := 0

	for _, f := range files {
		if f.Kind != rf2.KindRefset {
			continue
		}
		sig := parseFieldSignature(f.Path)
		var kinds []refset.FieldKind
		for i := 0; i < len(sig); i++ {
			if k, ok := refset.ParseFieldKind(sig[i]); ok {
				kinds = append(kinds, k)
			}
		}
		isLang := isLanguageDir(f.Path)

		if err := imp.scanRows(f, func(fields []string, line int) error {
			rowsSeen++
			if rowsSeen%8192 == 0 {
				if err := imp.token.DeadCheck("process reference sets"); err != nil {
					return err
				}
			}
			row, err := rf2.ParseRefsetMemberRow(fields)
			if err != nil {
				logger.Printf("%s:%d: skipping malformed refset row: %v", f.Path, line, err)
				return nil
			}
			a := accs[row.RefsetID]
			if a == nil {
				a = &refsetAcc{path: f.Path, header: f.Header, fieldKinds: kinds, isLanguage: isLang}
				accs[row.RefsetID] = a
			}
			return imp.addRefsetMember(a, row)
		}); err != nil {
			return err
		}
	}

	ids := make([]uint64, 0, len(accs))
	for id := range accs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		imp.buildRefsetIndex(id, accs[id])
	}

	imp.flushComponentRefsets(imp.c.Concepts.SetRefsets, imp.conceptRefsets)
	imp.flushComponentRefsets(descSetRefsets(imp), imp.descriptionRefsets)
	return nil
}

// addRefsetMember decodes one row against a, recording it in the
// REFSET-MEMBER store and, for concept/description members, in the
// component's refset-membership association list.
func (imp *importer) addRefsetMember(a *refsetAcc, row rf2.RefsetMemberRow) error {
	kind, component, ok := imp.resolveReferencedComponent(row.ReferencedComponentID)
	if !ok {
		logger.Printf("refset member %s: referenced component %d not found, skipping", row.ID, row.ReferencedComponentID)
		return nil
	}
	day, err := snomed.ParseEffectiveTime(row.EffectiveTime)
	if err != nil {
		logger.Printf("refset member %s: %v, skipping", row.ID, err)
		return nil
	}
	module := imp.offsetByConcept[row.ModuleID]

	values := make([]uint32, 0, len(a.fieldKinds))
	for i, k := range a.fieldKinds {
		if i >= len(row.ExtraFields) {
			break
		}
		values = append(values, decodeField(imp, k, row.ExtraFields[i]))
	}
	valuesOff := imp.c.Refs.Append(values)

	var guidPtr []byte
	if guid, ok := parseUUID(row.ID); ok {
		g := guid
		guidPtr = g[:]
	}
	off := imp.c.RefsetMembers.Append(kind, component, module, day, guidPtr, valuesOff)

	refsetConcept := imp.offsetByConcept[row.RefsetID]
	switch kind {
	case store.MemberConcept:
		imp.conceptRefsets[component] = append(imp.conceptRefsets[component], refsetAssoc{refset: refsetConcept, values: valuesOff})
	case store.MemberDescription:
		imp.descriptionRefsets[component] = append(imp.descriptionRefsets[component], refsetAssoc{refset: refsetConcept, values: valuesOff})
	}

	a.members = append(a.members, refsetMember{offset: off, refID: row.ReferencedComponentID, display: imp.displayText(kind, component)})
	return nil
}

// decodeField resolves one ExtraFields column against its declared kind,
// returning the raw uint32 payload stored in the REFS pool: a concept
// offset, a literal integer, or a string offset.
func decodeField(imp *importer, kind refset.FieldKind, raw string) uint32 {
	switch kind {
	case refset.FieldConcept:
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return 0
		}
		return uint32(imp.offsetByConcept[id])
	case refset.FieldInteger:
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return 0
		}
		return uint32(int32(v))
	case refset.FieldString:
		return uint32(imp.c.Strings.Append(raw))
	default:
		return 0
	}
}

// resolveReferencedComponent classifies id by its SCTID partition and looks
// it up in the store already built for that component kind.
func (imp *importer) resolveReferencedComponent(id uint64) (store.MemberKind, store.Offset, bool) {
	switch snomed.ID(id).Kind() {
	case "concept":
		off, ok := imp.offsetByConcept[id]
		return store.MemberConcept, off, ok
	case "description":
		off, ok := imp.offsetByDescription[id]
		return store.MemberDescription, off, ok
	case "relationship":
		off, ok := imp.offsetByRelationship[id]
		return store.MemberRelationship, off, ok
	default:
		return store.MemberOther, 0, false
	}
}

// displayText returns component's best available text for by-display member
// ordering: a concept's first active description term (or, if it has none,
// its SCTID), a description's own term, or empty for anything else.
func (imp *importer) displayText(kind store.MemberKind, component store.Offset) string {
	switch kind {
	case store.MemberConcept:
		for _, d := range imp.c.Refs.ReadOffsets(imp.c.Concepts.Descriptions(component)) {
			if imp.c.Descriptions.Active(d) {
				return imp.c.Strings.Get(imp.c.Descriptions.Term(d))
			}
		}
		return strconv.FormatUint(imp.c.Concepts.SCTID(component), 10)
	case store.MemberDescription:
		return imp.c.Strings.Get(imp.c.Descriptions.Term(component))
	default:
		return ""
	}
}

// buildRefsetIndex writes refsetID's REFSET-INDEX entry from its accumulated
// members and field signature.
func (imp *importer) buildRefsetIndex(refsetID uint64, a *refsetAcc) {
	concept := imp.offsetByConcept[refsetID]
	title := fmt.Sprintf("refset %d", refsetID)
	if concept != 0 {
		title = imp.displayText(store.MemberConcept, concept)
	} else {
		logger.Printf("refset %d: defining concept not found in this release", refsetID)
	}

	idx := imp.c.RefsetIndex.Append(imp.c.Strings.Append(title), imp.c.Strings.Append(filepath.Base(a.path)), concept)

	byRef := append([]refsetMember(nil), a.members...)
	sort.SliceStable(byRef, func(i, j int) bool { return byRef[i].refID < byRef[j].refID })
	byDisp := append([]refsetMember(nil), a.members...)
	sort.SliceStable(byDisp, func(i, j int) bool { return byDisp[i].display < byDisp[j].display })

	imp.c.RefsetIndex.SetMembersByRef(idx, imp.c.Refs.AppendOffsets(memberOffsets(byRef)))
	imp.c.RefsetIndex.SetMembersByDisplay(idx, imp.c.Refs.AppendOffsets(memberOffsets(byDisp)))

	fieldTypes := make([]uint32, len(a.fieldKinds))
	for i, k := range a.fieldKinds {
		fieldTypes[i] = uint32(k)
	}
	imp.c.RefsetIndex.SetFieldTypes(idx, imp.c.Refs.Append(fieldTypes))

	names := make([]store.Offset, len(a.fieldKinds))
	for i := range names {
		name := fmt.Sprintf("field%d", i)
		if 6+i < len(a.header) {
			name = a.header[6+i]
		}
		names[i] = imp.c.Strings.Append(name)
	}
	imp.c.RefsetIndex.SetFieldNames(idx, imp.c.Refs.AppendOffsets(names))

	if a.isLanguage {
		imp.c.RefsetIndex.SetLanguageBitmap(idx, 1)
	}
}

func memberOffsets(ms []refsetMember) []store.Offset {
	out := make([]store.Offset, len(ms))
	for i, m := range ms {
		out[i] = m.offset
	}
	return out
}

// flushComponentRefsets writes each component's accumulated refset
// associations into its interleaved (refset-offset, values-offset) list via
// set, keeping only the last-seen association per refset and ordering by
// refset offset ascending (§3, §4.4 phase 16).
func (imp *importer) flushComponentRefsets(set func(store.Offset, store.Offset), assocs map[store.Offset][]refsetAssoc) {
	for component, list := range assocs {
		byRefset := make(map[store.Offset]store.Offset, len(list))
		for _, a := range list {
			byRefset[a.refset] = a.values
		}
		refsets := make([]store.Offset, 0, len(byRefset))
		for r := range byRefset {
			refsets = append(refsets, r)
		}
		sort.Slice(refsets, func(i, j int) bool { return refsets[i] < refsets[j] })

		interleaved := make([]uint32, 0, 2*len(refsets))
		for _, r := range refsets {
			interleaved = append(interleaved, uint32(r), uint32(byRefset[r]))
		}
		set(component, imp.c.Refs.Append(interleaved))
	}
}

func descSetRefsets(imp *importer) func(store.Offset, store.Offset) {
	return func(component, ref store.Offset) { imp.c.Descriptions.SetRefsets(component, ref) }
}

// parseFieldSignature extracts the field-kind letters from an RF2 refset
// filename's "der2_<sig>Refset_..." convention (e.g. "c" for a language
// refset's acceptabilityId, "ci" for a mixed concept+integer refset).
func parseFieldSignature(path string) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	i := strings.Index(lower, "der2_")
	if i < 0 {
		return ""
	}
	rest := base[i+len("der2_"):]
	j := strings.Index(strings.ToLower(rest), "refset")
	if j < 0 {
		return ""
	}
	return rest[:j]
}

// isLanguageDir reports whether any path component names a language-refset
// directory (§4.4 phase 13).
func isLanguageDir(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.Contains(strings.ToLower(part), "language") {
			return true
		}
	}
	return false
}

// parseUUID decodes a canonical 8-4-4-4-12 hex UUID string into 16 bytes.
func parseUUID(s string) ([16]byte, bool) {
	var out [16]byte
	hexDigits := strings.ReplaceAll(s, "-", "")
	if len(hexDigits) != 32 {
		return out, false
	}
	b, err := hex.DecodeString(hexDigits)
	if err != nil {
		return out, false
	}
	copy(out[:], b)
	return out, true
}
