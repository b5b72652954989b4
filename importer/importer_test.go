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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wardle/go-terminology/closure"
	"github.com/wardle/go-terminology/config"
	"github.com/wardle/go-terminology/query"
)

const (
	conceptHeader      = "id\teffectiveTime\tactive\tmoduleId\tdefinitionStatusId\n"
	descriptionHeader  = "id\teffectiveTime\tactive\tmoduleId\tconceptId\tlanguageCode\ttypeId\tterm\tcaseSignificanceId\n"
	relationshipHeader = "id\teffectiveTime\tactive\tmoduleId\tsourceId\tdestinationId\trelationshipGroup\ttypeId\tcharacteristicTypeId\tmodifierId\n"
	langRefsetHeader   = "id\teffectiveTime\tactive\tmoduleId\trefsetId\treferencedComponentId\tacceptabilityId\n"

	module    = "900000000000207008"
	primitive = "900000000000074008"
	inferred  = "900000000000011006"
)

// buildRelease writes a small, internally-consistent RF2 snapshot release
// under dir: a root concept, the is-a relationship type, FSN/synonym/
// preferred metadata concepts, a two-level Disease/Pneumonia hierarchy, and
// a language refset marking the Disease and Pneumonia synonyms as Preferred
// in en.
func buildRelease(t *testing.T, dir string) {
	t.Helper()

	term := filepath.Join(dir, "Terminology")
	refset := filepath.Join(dir, "Refset", "Language")
	if err := os.MkdirAll(term, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(refset, 0755); err != nil {
		t.Fatal(err)
	}

	concepts := conceptHeader +
		"138875005\t20220131\t1\t" + module + "\t" + primitive + "\n" + // SNOMED CT Concept (root)
		"116680003\t20220131\t1\t" + module + "\t" + primitive + "\n" + // Is a
		"900000000000003001\t20220131\t1\t" + module + "\t" + primitive + "\n" + // Fully specified name
		"900000000000013009\t20220131\t1\t" + module + "\t" + primitive + "\n" + // Synonym
		"900000000000548007\t20220131\t1\t" + module + "\t" + primitive + "\n" + // Preferred
		"900000000000506000\t20220131\t1\t" + module + "\t" + primitive + "\n" + // Language reference set
		"64572001\t20220131\t1\t" + module + "\t" + primitive + "\n" + // Disease
		"233604007\t20220131\t1\t" + module + "\t" + primitive + "\n" + // Pneumonia
		"987654329\t20220131\t0\t" + module + "\t" + primitive + "\n" // inactive, parentless
	writeFile(t, filepath.Join(term, "sct2_Concept_Snapshot_INT_20220131.txt"), concepts)

	descriptions := descriptionHeader +
		row9("10000011", "138875005", "en", "900000000000003001", "SNOMED CT Concept (SNOMED CT Concept)") +
		row9("10000021", "138875005", "en", "900000000000013009", "SNOMED CT Concept") +
		row9("10000031", "116680003", "en", "900000000000003001", "Is a (attribute)") +
		row9("10000041", "64572001", "en", "900000000000003001", "Disease (disorder)") +
		row9("100005014", "64572001", "en", "900000000000013009", "Disease") +
		row9("10000061", "233604007", "en", "900000000000003001", "Pneumonia (disorder)") +
		row9("100007018", "233604007", "en", "900000000000013009", "Pneumonia")
	writeFile(t, filepath.Join(term, "sct2_Description_Snapshot-en_INT_20220131.txt"), descriptions)

	relationships := relationshipHeader +
		relRow("20000011", "64572001", "138875005") +
		relRow("20000021", "233604007", "64572001")
	writeFile(t, filepath.Join(term, "sct2_Relationship_Snapshot_INT_20220131.txt"), relationships)

	members := langRefsetHeader +
		langRow("member-0001", "100005014") +
		langRow("member-0002", "100007018")
	writeFile(t, filepath.Join(refset, "der2_cRefset_LanguageSnapshot-en_INT_20220131.txt"), members)
}

func row9(id, conceptID, lang, typeID, term string) string {
	return id + "\t20220131\t1\t" + module + "\t" + conceptID + "\t" + lang + "\t" + typeID + "\t" + term + "\t900000000000448009\n"
}

func relRow(id, source, dest string) string {
	return id + "\t20220131\t1\t" + module + "\t" + source + "\t" + dest + "\t0\t116680003\t" + inferred + "\t900000000000451002\n"
}

func langRow(id, referencedDescriptionID string) string {
	return "fedcba98-7654-3210-9876-543210fedc" + id[len(id)-2:] + "\t20220131\t1\t" + module + "\t900000000000506000\t" + referencedDescriptionID + "\t900000000000548007\n"
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRunBuildsQueryableCache(t *testing.T) {
	src := t.TempDir()
	buildRelease(t, src)

	cfg := &config.Config{
		Source:   src,
		Dest:     filepath.Join(t.TempDir(), "cache.bin"),
		Edition:  "138875005",
		Version:  "20220131",
		URI:      "http://snomed.info/sct",
		Language: "en",
	}

	c, err := Run(cfg, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got, want := c.Concepts.Count(), 9; got != want {
		t.Fatalf("Concepts.Count() = %d, want %d", got, want)
	}
	if c.IsA == 0 {
		t.Fatal("Cache.IsA was never set")
	}

	e := query.New(c, 0)

	diseaseResult := e.Locate("64572001")
	if diseaseResult.Context == nil {
		t.Fatalf("Locate(64572001): %s", diseaseResult.Message)
	}
	pneumoniaResult := e.Locate("233604007")
	if pneumoniaResult.Context == nil {
		t.Fatalf("Locate(233604007): %s", pneumoniaResult.Message)
	}

	display, err := e.Display(diseaseResult.Context)
	if err != nil {
		t.Fatalf("Display: %v", err)
	}
	if display != "Disease" {
		t.Errorf("Display(Disease) = %q, want %q (preferred synonym should win over FSN)", display, "Disease")
	}

	sub, err := e.SubsumesTest("64572001", "233604007")
	if err != nil {
		t.Fatalf("SubsumesTest: %v", err)
	}
	if sub != closure.Subsumes {
		t.Errorf("SubsumesTest(Disease, Pneumonia) = %v, want Subsumes", sub)
	}

	inactiveResult := e.Locate("987654329")
	if inactiveResult.Context == nil {
		t.Fatalf("Locate(987654329): %s", inactiveResult.Message)
	}
	inactive, err := e.IsInactive(inactiveResult.Context)
	if err != nil {
		t.Fatalf("IsInactive: %v", err)
	}
	if !inactive {
		t.Error("IsInactive(987654329) = false, want true")
	}

	designations, err := e.Designations(diseaseResult.Context)
	if err != nil {
		t.Fatalf("Designations: %v", err)
	}
	var sawPreferred bool
	for _, d := range designations {
		if d.Use == "preferred" && d.Value == "Disease" {
			sawPreferred = true
		}
	}
	if !sawPreferred {
		t.Errorf("Designations(Disease) = %+v, want a preferred %q designation", designations, "Disease")
	}
}

func TestRunRejectsExistingDestinationWithoutOverwrite(t *testing.T) {
	src := t.TempDir()
	buildRelease(t, src)
	dest := filepath.Join(t.TempDir(), "cache.bin")
	if err := os.WriteFile(dest, []byte("existing"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Source:  src,
		Dest:    dest,
		Edition: "138875005",
		Version: "20220131",
		URI:     "http://snomed.info/sct",
	}
	if _, err := Run(cfg, nil); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("Run: got %v, want an 'already exists' error", err)
	}
}

func TestRunFailsWithoutActiveRoot(t *testing.T) {
	src := t.TempDir()
	term := filepath.Join(src, "Terminology")
	if err := os.MkdirAll(term, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(term, "sct2_Concept_Snapshot_INT_20220131.txt"),
		conceptHeader+
			"138875005\t20220131\t0\t"+module+"\t"+primitive+"\n"+
			"116680003\t20220131\t0\t"+module+"\t"+primitive+"\n")
	writeFile(t, filepath.Join(term, "sct2_Description_Snapshot-en_INT_20220131.txt"), descriptionHeader)
	writeFile(t, filepath.Join(term, "sct2_Relationship_Snapshot_INT_20220131.txt"), relationshipHeader)

	cfg := &config.Config{
		Source:  src,
		Dest:    filepath.Join(t.TempDir(), "cache.bin"),
		Edition: "138875005",
		Version: "20220131",
		URI:     "http://snomed.info/sct",
	}
	_, err := Run(cfg, nil)
	if err == nil {
		t.Fatal("Run: got nil error, want ErrMissingRoot (every concept is inactive)")
	}
}
