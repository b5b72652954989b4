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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies the sort of RF2 component a file carries.
type Kind int

// Supported file kinds, in the order the importer processes them.
const (
	KindUnknown Kind = iota
	KindConcept
	KindDescription
	KindRelationship
	KindRefset
)

func (k Kind) String() string {
	switch k {
	case KindConcept:
		return "Concept"
	case KindDescription:
		return "Description"
	case KindRelationship:
		return "Relationship"
	case KindRefset:
		return "Refset"
	default:
		return "Unknown"
	}
}

// File describes one discovered RF2 release file, classified by its header row.
type File struct {
	Path   string
	Kind   Kind
	Header []string
}

// isExcluded reports whether a filename should never be imported: stated
// relationships are redundant with inferred relationships in a snapshot and
// we take inferred relationships only (spec §4.4 phase 1).
func isExcluded(name string) bool {
	return strings.Contains(name, "StatedRelationship")
}

// isRefsetDir reports whether a directory in a file's path marks its
// contents as reference set files, regardless of header shape.
func isRefsetDir(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.EqualFold(part, "Refset") || strings.Contains(strings.ToLower(part), "reference sets") {
			return true
		}
	}
	return false
}

// classify determines a file's Kind from its header row and its path,
// per the rules of spec §4.4 phase 1.
func classify(path string, header []string) Kind {
	if isRefsetDir(path) {
		return KindRefset
	}
	joined := "\t" + strings.Join(header, "\t") + "\t"
	switch {
	case strings.Contains(joined, "\tconceptId\t") && strings.Contains(joined, "\tlanguageCode\t") && strings.Contains(joined, "\tterm\t"):
		return KindDescription
	case strings.Contains(joined, "\tsourceId\t") && strings.Contains(joined, "\tdestinationId\t") && strings.Contains(joined, "\trelationshipGroup\t"):
		return KindRelationship
	case len(header) >= 5 && header[0] == "id" && header[1] == "effectiveTime" && header[2] == "active" &&
		header[3] == "moduleId" && header[4] == "definitionStatusId":
		return KindConcept
	default:
		return KindUnknown
	}
}

// readHeader reads and splits the first line of a tab-separated file,
// tolerating both CRLF and LF line endings.
func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s: empty file", path)
	}
	line := strings.TrimRight(scanner.Text(), "\r\n")
	return strings.Split(line, "\t"), nil
}

// Discover walks root, classifying every .txt file it finds. Files that
// cannot be classified, or that are explicitly excluded (stated
// relationships), are omitted from the result; the caller decides whether an
// empty result for a required kind is fatal.
func Discover(root string) ([]File, error) {
	var files []File
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		name := info.Name()
		if !strings.HasSuffix(name, ".txt") {
			return nil
		}
		if isExcluded(name) {
			return nil
		}
		header, err := readHeader(path)
		if err != nil {
			return fmt.Errorf("reading header of %s: %w", path, err)
		}
		kind := classify(path, header)
		if kind == KindUnknown {
			return nil
		}
		files = append(files, File{Path: path, Kind: kind, Header: header})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
