// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config_test.go
// Summary: Tests for settings loading and defaulting.

package config

import (
	"encoding/json"
	"testing"
)

func TestDefaultsAreSane(t *testing.T) {
	d := Defaults()
	if d.ScrollbackRows <= 0 {
		t.Error("scrollback must be positive")
	}
	if d.HistoryMaxEntries <= 0 || d.HistoryMaxAgeDays <= 0 {
		t.Error("history bounds must be positive")
	}
}

func TestApplyDefaultsFillsZeroes(t *testing.T) {
	s := applyDefaults(Settings{FrecencyWeight: 2.5})
	d := Defaults()

	if s.ScrollbackRows != d.ScrollbackRows {
		t.Errorf("scrollback: got %d", s.ScrollbackRows)
	}
	if s.FrecencyWeight != 2.5 {
		t.Errorf("explicit weight overwritten: got %v", s.FrecencyWeight)
	}
}

func TestSparseFileParses(t *testing.T) {
	var s Settings
	if err := json.Unmarshal([]byte(`{"scrollback_rows": 500}`), &s); err != nil {
		t.Fatal(err)
	}
	s = applyDefaults(s)
	if s.ScrollbackRows != 500 {
		t.Errorf("explicit value lost: got %d", s.ScrollbackRows)
	}
	if s.HistoryMaxEntries != Defaults().HistoryMaxEntries {
		t.Errorf("missing value not defaulted: got %d", s.HistoryMaxEntries)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	orig := Get()
	defer Set(orig)

	want := Defaults()
	want.FrecencyWeight = 7
	Set(want)

	if got := Get(); got.FrecencyWeight != 7 {
		t.Errorf("round trip: got %v", got.FrecencyWeight)
	}
}
