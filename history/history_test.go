// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: history/history_test.go
// Summary: Tests for the usage store and frecency decay.

package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "usage.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndFrecency(t *testing.T) {
	s := openTestStore(t)

	if got := s.Frecency("unknown"); got != 0 {
		t.Errorf("unknown entry: got %v", got)
	}

	for i := 0; i < 3; i++ {
		if err := s.Record("htop"); err != nil {
			t.Fatal(err)
		}
	}

	got := s.Frecency("htop")
	if got < 2.9 || got > 3.0 {
		t.Errorf("fresh frecency: got %v, want ~3", got)
	}
}

func TestFrecencyDecay(t *testing.T) {
	s := openTestStore(t)

	base := time.Now()
	s.now = func() time.Time { return base }
	if err := s.Record("vim"); err != nil {
		t.Fatal(err)
	}

	// One half-life later the score has halved.
	s.now = func() time.Time { return base.Add(s.halfLife) }
	got := s.Frecency("vim")
	if got < 0.49 || got > 0.51 {
		t.Errorf("decayed frecency: got %v, want ~0.5", got)
	}
}

func TestScoresBulk(t *testing.T) {
	s := openTestStore(t)

	s.Record("a")
	s.Record("b")
	s.Record("b")

	scores, err := s.Scores()
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 2 {
		t.Fatalf("got %d scores", len(scores))
	}
	if scores["b"] <= scores["a"] {
		t.Errorf("b (%v) should outscore a (%v)", scores["b"], scores["a"])
	}
}

func TestPrune(t *testing.T) {
	s := openTestStore(t)

	base := time.Now()
	s.now = func() time.Time { return base.Add(-90 * 24 * time.Hour) }
	s.Record("ancient")

	s.now = func() time.Time { return base }
	s.Record("fresh")

	if err := s.Prune(100, 60*24*time.Hour); err != nil {
		t.Fatal(err)
	}

	if s.Frecency("ancient") != 0 {
		t.Error("stale entry survived prune")
	}
	if s.Frecency("fresh") == 0 {
		t.Error("fresh entry was pruned")
	}
}

func TestPruneSurplus(t *testing.T) {
	s := openTestStore(t)

	s.Record("rare")
	for i := 0; i < 5; i++ {
		s.Record("popular")
	}

	if err := s.Prune(1, 365*24*time.Hour); err != nil {
		t.Fatal(err)
	}

	if s.Frecency("popular") == 0 {
		t.Error("popular entry was pruned")
	}
	if s.Frecency("rare") != 0 {
		t.Error("surplus entry survived prune")
	}
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Record("htop")
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	if s2.Frecency("htop") == 0 {
		t.Error("usage lost across reopen")
	}
}
