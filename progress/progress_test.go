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

package progress

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDeadCheckCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tok := NewToken(ctx, nil, 0)
	if err := tok.DeadCheck("import"); err != nil {
		t.Fatalf("expected no error before cancel, got %v", err)
	}
	cancel()
	err := tok.DeadCheck("import")
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestDeadCheckBudget(t *testing.T) {
	tok := NewToken(context.Background(), nil, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	err := tok.DeadCheck("expand")
	if !errors.Is(err, ErrTooCostly) {
		t.Fatalf("expected ErrTooCostly, got %v", err)
	}
}

func TestReportInvokesReporter(t *testing.T) {
	var got Phase
	tok := NewToken(context.Background(), func(p Phase) { got = p }, 0)
	tok.Report("discover", time.Now(), "12 files")
	if got.Name != "discover" || got.Detail != "12 files" {
		t.Fatalf("unexpected phase report: %+v", got)
	}
}

func TestNilTokenIsSafe(t *testing.T) {
	var tok *Token
	if err := tok.DeadCheck("x"); err != nil {
		t.Fatalf("nil token should never fail DeadCheck, got %v", err)
	}
	tok.Report("x", time.Now(), "")
}
