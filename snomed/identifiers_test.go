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

package snomed

import "testing"

func TestParseAndValidate(t *testing.T) {
	tests := []struct {
		s     string
		valid bool
	}{
		{"24700007", true},   // multiple sclerosis (disorder)
		{"64572001", true},   // disease (disorder)
		{"24700001", false},  // bad check digit
		{"not-a-number", false},
	}
	for _, tc := range tests {
		_, err := ParseAndValidate(tc.s)
		if (err == nil) != tc.valid {
			t.Errorf("ParseAndValidate(%q): got err=%v, wanted valid=%v", tc.s, err, tc.valid)
		}
	}
}

func TestPartitionKind(t *testing.T) {
	tests := []struct {
		id   ID
		kind string
	}{
		{64572001, "concept"},
		{900000000000003001, "concept"},
	}
	for _, tc := range tests {
		if got := tc.id.Kind(); got != tc.kind {
			t.Errorf("ID(%d).Kind() = %q, want %q", tc.id, got, tc.kind)
		}
	}
}

func TestEffectiveDayRoundTrip(t *testing.T) {
	d, err := ParseEffectiveTime("19000101")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := DateFromEffectiveDay(d).Format("20060102")
	if got != "19000101" {
		t.Errorf("round-trip mismatch: got %s", got)
	}
	if _, err := ParseEffectiveTime("18991229"); err == nil {
		t.Errorf("expected error for date before epoch")
	}
}
