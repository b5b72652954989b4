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

// Package progress provides the cooperative cancellation token and phase
// reporting used by the importer and by long-running query operations such
// as expansion and filter iteration (§5).
package progress

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCancelled is returned by DeadCheck once the token's context has been
// cancelled.
var ErrCancelled = errors.New("progress: cancelled")

// ErrTooCostly is returned by DeadCheck once the token's wall-clock budget
// has elapsed. NewToken sets no budget of its own: a zero budget means no
// wall-clock limit.
var ErrTooCostly = errors.New("progress: exceeded cost budget")

// Phase reports one named step of a long-running operation, with the time
// it took. Report is called once per importer phase (§4.4) and may be
// called by any long-running query operation that wants to surface
// progress to its caller.
type Phase struct {
	Name    string
	Elapsed time.Duration
	Detail  string // optional free-text, e.g. a row count
}

// Reporter receives Phase notifications. The zero value (a nil Reporter)
// is valid and discards every report.
type Reporter func(Phase)

// Token is a cooperative cancellation handle, checked at phase boundaries
// and inside tight inner loops via DeadCheck (§5). It wraps a context so
// callers can also integrate with ordinary context-based cancellation or
// deadlines (e.g. an HTTP request context upstream).
type Token struct {
	ctx      context.Context
	report   Reporter
	deadline time.Time // zero means no wall-clock budget
}

// NewToken returns a Token bound to ctx, reporting phases to report (which
// may be nil). If budget is non-zero, DeadCheck also fails once budget has
// elapsed since NewToken was called.
func NewToken(ctx context.Context, report Reporter, budget time.Duration) *Token {
	t := &Token{ctx: ctx, report: report}
	if budget > 0 {
		t.deadline = time.Now().Add(budget)
	}
	return t
}

// DeadCheck probes for cancellation or budget exhaustion, returning a
// descriptive error naming label if either condition holds. Call sites are
// phase boundaries in the importer and the hot loops of expansion/filter
// iteration (§5).
func (t *Token) DeadCheck(label string) error {
	if t == nil {
		return nil
	}
	if err := t.ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", label, ErrCancelled)
	}
	if !t.deadline.IsZero() && time.Now().After(t.deadline) {
		return fmt.Errorf("%s: %w", label, ErrTooCostly)
	}
	return nil
}

// Report emits a Phase notification, recording how long since started.
func (t *Token) Report(name string, started time.Time, detail string) {
	if t == nil || t.report == nil {
		return
	}
	t.report(Phase{Name: name, Elapsed: time.Since(started), Detail: detail})
}
