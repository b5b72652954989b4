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
	"strconv"
	"strings"
)

// RowScanner reads the tab-separated data rows of an RF2 file, having
// already consumed its header line.
type RowScanner struct {
	f       *os.File
	scanner *bufio.Scanner
	line    int
	fields  []string
	err     error
}

// NewRowScanner opens path and positions the scanner after the header row.
func NewRowScanner(path string) (*RowScanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 4*1024*1024)
	rs := &RowScanner{f: f, scanner: scanner}
	if !rs.advance() {
		f.Close()
		if rs.err != nil {
			return nil, rs.err
		}
		return nil, fmt.Errorf("%s: missing header row", path)
	}
	return rs, nil
}

func (rs *RowScanner) advance() bool {
	if !rs.scanner.Scan() {
		rs.err = rs.scanner.Err()
		return false
	}
	rs.line++
	line := strings.TrimRight(rs.scanner.Text(), "\r\n")
	rs.fields = strings.Split(line, "\t")
	return true
}

// Scan advances to the next data row, returning false at EOF or on error.
func (rs *RowScanner) Scan() bool {
	return rs.advance()
}

// Fields returns the tab-separated fields of the current row.
func (rs *RowScanner) Fields() []string {
	return rs.fields
}

// Line returns the 1-based line number of the current row within the file,
// counting the header as line 1.
func (rs *RowScanner) Line() int {
	return rs.line
}

// Err returns the first error encountered while scanning, if any.
func (rs *RowScanner) Err() error {
	return rs.err
}

// Close releases the underlying file handle.
func (rs *RowScanner) Close() error {
	return rs.f.Close()
}

// parseBool parses the RF2 "active" column, which is always "0" or "1".
func parseBool(s string) (bool, error) {
	switch s {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean field %q", s)
	}
}

// parseUint64 parses an RF2 identifier column.
func parseUint64(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
