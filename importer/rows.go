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

import "github.com/wardle/go-terminology/rf2"

// scanRows opens f and calls fn for every data row, closing the scanner
// whether fn returns an error or the file is exhausted. fn returning an
// error stops the scan and is returned to the caller; a nil error continues.
func (imp *importer) scanRows(f rf2.File, fn func(fields []string, line int) error) error {
	rs, err := rf2.NewRowScanner(f.Path)
	if err != nil {
		return err
	}
	defer rs.Close()
	for rs.Scan() {
		if err := fn(rs.Fields(), rs.Line()); err != nil {
			return err
		}
	}
	return rs.Err()
}
