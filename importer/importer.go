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

// Package importer builds a cache.Cache from an RF2 release directory,
// running the fixed-order pipeline of spec §4.4: discover files, read and
// sort each component kind, link concepts, build the transitive closure,
// process reference sets, cache normal forms, and save the result.
//
// Row-level parse errors are logged and the offending row skipped wherever
// doing so is safe; a handful of structural problems (a duplicate identifier,
// a cycle in the hierarchy, a depth overflow, a date outside the representable
// range, or no active root concept) abort the whole import.
package importer

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/wardle/go-terminology/cache"
	"github.com/wardle/go-terminology/closure"
	"github.com/wardle/go-terminology/config"
	"github.com/wardle/go-terminology/lang"
	"github.com/wardle/go-terminology/progress"
	"github.com/wardle/go-terminology/rf2"
	"github.com/wardle/go-terminology/store"
)

// Sentinel errors for the structural failures that abort an import outright
// (spec §7, §4.4). Row-level problems are logged and skipped instead.
var (
	ErrDuplicateIdentifier = errors.New("importer: duplicate identifier (full RF2 distribution instead of a snapshot?)")
	ErrMissingRoot         = errors.New("importer: no active root concept found")
	ErrIsAMissing          = errors.New("importer: is-a relationship type concept not found")
	ErrDateOutOfRange      = errors.New("importer: effective time out of representable range")
)

// logger is the package-wide diagnostic sink, matching the teacher's habit
// (terminology/importer.go) of a single log.Logger rather than a
// per-instance one; tests don't need to intercept it and a host process can
// redirect it with log.SetOutput.
var logger = log.New(os.Stderr, "importer: ", log.LstdFlags)

// refsetAssoc is one (refset, typed-field-values) pair recorded against a
// component during reference set processing, later flattened into the
// interleaved refs list the CONCEPT/DESCRIPTION stores expect (§4.4 phase 16).
type refsetAssoc struct {
	refset store.Offset
	values store.Offset
}

// importer holds the working state threaded through the pipeline. It is
// discarded once Run returns; only the populated cache.Cache survives.
type importer struct {
	cfg   *config.Config
	token *progress.Token
	c     *cache.Cache

	offsetByConcept      map[uint64]store.Offset
	offsetByDescription  map[uint64]store.Offset
	offsetByRelationship map[uint64]store.Offset

	isA store.Offset

	parentsOf         map[store.Offset][]store.Offset
	inactiveParentsOf map[store.Offset][]store.Offset
	descriptionsOf    map[store.Offset][]store.Offset
	outboundOf        map[store.Offset][]store.Offset
	inboundOf         map[store.Offset][]store.Offset

	activeRoots   []store.Offset
	inactiveRoots []store.Offset

	conceptRefsets     map[store.Offset][]refsetAssoc
	descriptionRefsets map[store.Offset][]refsetAssoc
}

// Run drives a complete import per cfg, writing the resulting cache to
// cfg.Dest and returning it. token may be nil; every DeadCheck/Report call
// tolerates a nil token as a no-op (§5).
func Run(cfg *config.Config, token *progress.Token) (*cache.Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Overwrite {
		if _, err := os.Stat(cfg.Dest); err == nil {
			return nil, fmt.Errorf("importer: destination %s already exists and overwrite is not permitted", cfg.Dest)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("importer: stat %s: %w", cfg.Dest, err)
		}
	}

	imp := &importer{
		cfg:                  cfg,
		token:                token,
		c:                    cache.New(),
		offsetByConcept:      make(map[uint64]store.Offset),
		offsetByDescription:  make(map[uint64]store.Offset),
		offsetByRelationship: make(map[uint64]store.Offset),
		parentsOf:            make(map[store.Offset][]store.Offset),
		inactiveParentsOf:    make(map[store.Offset][]store.Offset),
		descriptionsOf:       make(map[store.Offset][]store.Offset),
		outboundOf:           make(map[store.Offset][]store.Offset),
		inboundOf:            make(map[store.Offset][]store.Offset),
		conceptRefsets:       make(map[store.Offset][]refsetAssoc),
		descriptionRefsets:   make(map[store.Offset][]refsetAssoc),
	}
	imp.c.URI = cfg.URI
	imp.c.Date = cfg.Version
	imp.c.DefaultLanguage = int32(lang.ParseCode(cfg.Language))

	if err := imp.run(); err != nil {
		return nil, err
	}
	if err := cache.Save(cfg.Dest, imp.c); err != nil {
		return nil, fmt.Errorf("importer: save cache: %w", err)
	}
	return imp.c, nil
}

// phase runs fn, reporting it under name and surfacing DeadCheck failures
// before fn is even attempted (§5: checked "at phase boundaries").
func (imp *importer) phase(name string, fn func() error) error {
	if err := imp.token.DeadCheck(name); err != nil {
		return err
	}
	started := time.Now()
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	imp.token.Report(name, started, "")
	logger.Printf("%s (%s)", name, time.Since(started))
	return nil
}

// run executes the 18-phase pipeline of spec §4.4. Several adjacent spec
// phases share a single Go function where doing so doesn't change the
// observable result (sort-then-build, closure-then-depth, the refset
// sort/index/back-index trio); each function's doc comment names the spec
// phases it covers.
func (imp *importer) run() error {
	var files []rf2.File
	if err := imp.phase("discover release files", func() error {
		fs, err := rf2.Discover(imp.cfg.Source)
		if err != nil {
			return err
		}
		files = fs
		return nil
	}); err != nil {
		return err
	}

	var conceptRows []rf2.ConceptRow
	if err := imp.phase("read concepts", func() error {
		rows, err := imp.readConcepts(files)
		if err != nil {
			return err
		}
		conceptRows = rows
		return nil
	}); err != nil {
		return err
	}

	if err := imp.phase("sort and cache concepts", func() error {
		sort.Slice(conceptRows, func(i, j int) bool { return conceptRows[i].ID < conceptRows[j].ID })
		return imp.buildConcepts(conceptRows)
	}); err != nil {
		return err
	}

	var descRows []rf2.DescriptionRow
	if err := imp.phase("read descriptions", func() error {
		rows, err := imp.readDescriptions(files)
		if err != nil {
			return err
		}
		descRows = rows
		return nil
	}); err != nil {
		return err
	}

	if err := imp.phase("sort and cache descriptions", func() error {
		sort.Slice(descRows, func(i, j int) bool { return descRows[i].ID < descRows[j].ID })
		return imp.buildDescriptions(descRows)
	}); err != nil {
		return err
	}

	if err := imp.phase("process words", func() error { return imp.processWords() }); err != nil {
		return err
	}

	var relRows []rf2.RelationshipRow
	if err := imp.phase("read relationships", func() error {
		rows, err := imp.readRelationships(files)
		if err != nil {
			return err
		}
		relRows = rows
		return nil
	}); err != nil {
		return err
	}

	if err := imp.phase("link concepts", func() error { return imp.linkConcepts(relRows) }); err != nil {
		return err
	}

	if err := imp.phase("build closure and assign depths", func() error { return imp.buildClosure() }); err != nil {
		return err
	}

	if err := imp.phase("process reference sets", func() error { return imp.processRefsets(files) }); err != nil {
		return err
	}

	if err := imp.phase("build normal forms", func() error { return imp.buildNormalForms() }); err != nil {
		return err
	}

	return nil
}
