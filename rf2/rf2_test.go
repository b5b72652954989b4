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

package rf2

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDiscoverClassifiesByHeaderAndDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sct2_Concept_Snapshot_GB1000000_20210131.txt",
		"id\teffectiveTime\tactive\tmoduleId\tdefinitionStatusId\r\n64572001\t20210131\t1\t900000000000207008\t900000000000074008\r\n")
	writeFile(t, dir, "sct2_Description_Snapshot-en_GB1000000_20210131.txt",
		"id\teffectiveTime\tactive\tmoduleId\tconceptId\tlanguageCode\ttypeId\tterm\tcaseSignificanceId\n")
	writeFile(t, dir, "sct2_Relationship_Snapshot_GB1000000_20210131.txt",
		"id\teffectiveTime\tactive\tmoduleId\tsourceId\tdestinationId\trelationshipGroup\ttypeId\tcharacteristicTypeId\tmodifierId\n")
	writeFile(t, dir, "sct2_StatedRelationship_Snapshot_GB1000000_20210131.txt",
		"id\teffectiveTime\tactive\tmoduleId\tsourceId\tdestinationId\trelationshipGroup\ttypeId\tcharacteristicTypeId\tmodifierId\n")
	writeFile(t, dir, "Refset/der2_Refset_SimpleSnapshot_GB1000000_20210131.txt",
		"id\teffectiveTime\tactive\tmoduleId\trefsetId\treferencedComponentId\n")

	files, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	got := map[Kind]int{}
	for _, f := range files {
		got[f.Kind]++
	}
	if got[KindConcept] != 1 || got[KindDescription] != 1 || got[KindRelationship] != 1 || got[KindRefset] != 1 {
		t.Fatalf("unexpected classification counts: %+v (files=%v)", got, files)
	}
}

func TestParseConceptRow(t *testing.T) {
	row, err := ParseConceptRow([]string{"64572001", "20210131", "1", "900000000000207008", "900000000000074008"})
	if err != nil {
		t.Fatal(err)
	}
	if row.ID != 64572001 || !row.Active || row.DefinitionStatusID != 900000000000074008 {
		t.Errorf("unexpected row: %+v", row)
	}
}

func TestParseRefsetMemberRowKeepsExtraFields(t *testing.T) {
	row, err := ParseRefsetMemberRow([]string{"uuid-1", "20210131", "1", "900000000000207008", "447562003", "64572001", "extra1", "extra2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(row.ExtraFields) != 2 || row.ExtraFields[0] != "extra1" {
		t.Errorf("unexpected extra fields: %v", row.ExtraFields)
	}
}
