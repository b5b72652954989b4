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

// Package config defines the plain configuration object the host process
// builds and validates before driving an import (§6.4). No CLI surface
// belongs to this module; a host command collects these fields however it
// likes (flags, environment, a file) and hands the core a validated Config.
package config

import (
	"fmt"

	"github.com/wardle/go-terminology/snomed"
	"golang.org/x/text/language"
)

// Config drives a single import run.
type Config struct {
	Source        string // root directory of the RF2 release to import
	Dest          string // path of the cache file to write
	Edition       string // SCTID of the edition, as a decimal string
	Version       string // release date, RF2 YYYYMMDD
	URI           string // canonical code system URI for this edition
	Language      string // BCP-47 default language tag
	Overwrite     bool   // permit replacing an existing file at Dest
	CreateIndexes bool   // not read by the importer, which always builds the word and stem stores
}

// Validate checks that c is well-formed enough to start an import. It does
// not check filesystem state (existence of Source, writability of Dest);
// the importer surfaces those as ordinary I/O errors when it opens them.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("config: source directory must be specified")
	}
	if c.Dest == "" {
		return fmt.Errorf("config: destination cache file must be specified")
	}
	if c.Edition == "" {
		return fmt.Errorf("config: edition SCTID must be specified")
	}
	if _, err := snomed.ParseAndValidate(c.Edition); err != nil {
		return fmt.Errorf("config: invalid edition SCTID %q: %w", c.Edition, err)
	}
	if len(c.Version) != 8 {
		return fmt.Errorf("config: version must be YYYYMMDD, got %q", c.Version)
	}
	if _, err := snomed.ParseEffectiveTime(c.Version); err != nil {
		return fmt.Errorf("config: invalid version %q: %w", c.Version, err)
	}
	if c.URI == "" {
		return fmt.Errorf("config: uri must be specified")
	}
	if c.Language != "" {
		if _, err := language.Parse(c.Language); err != nil {
			return fmt.Errorf("config: invalid language tag %q: %w", c.Language, err)
		}
	}
	return nil
}
