// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/viewport_test.go
// Summary: Tests for viewport projection and scrollback bounds.

package term

import (
	"strconv"
	"strings"
	"testing"

	"termlaunch/term/parser"
)

func TestVisibleRowsFollowing(t *testing.T) {
	v := NewVTerm(10, 3)
	write(v, "a\r\nb\r\nc")

	rows := v.VisibleRows(3, 0)
	if len(rows) != 3 {
		t.Fatalf("got %d rows", len(rows))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got := rowText(rows[i]); got != want {
			t.Errorf("row %d: got %q, want %q", i, got, want)
		}
	}
}

func TestVisibleRowsIntoScrollback(t *testing.T) {
	v := NewVTerm(10, 2)
	write(v, "1\r\n2\r\n3\r\n4") // scrollback: 1,2  surface: 3,4

	// Offset 1: window straddles the scrollback/surface boundary.
	rows := v.VisibleRows(2, 1)
	if got := rowText(rows[0]); got != "2" {
		t.Errorf("row 0: got %q", got)
	}
	if got := rowText(rows[1]); got != "3" {
		t.Errorf("row 1: got %q", got)
	}
}

func TestVisibleRowsPadsShortContent(t *testing.T) {
	v := NewVTerm(10, 2)
	write(v, "x")

	rows := v.VisibleRows(5, 0)
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}
	// Padding comes first, content at the bottom.
	for i := 0; i < 3; i++ {
		if rows[i] != nil {
			t.Errorf("row %d should be padding", i)
		}
	}
	if got := rowText(rows[3]); got != "x" {
		t.Errorf("row 3: got %q", got)
	}
}

func TestVisibleRowsClampsOffset(t *testing.T) {
	v := NewVTerm(10, 2)
	write(v, "1\r\n2\r\n3")

	// Offset far beyond scrollback must not panic and clamps to the top.
	rows := v.VisibleRows(2, 999)
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	if got := rowText(rows[0]); got != "1" {
		t.Errorf("top row at max offset: got %q", got)
	}
	if got := rowText(rows[1]); got != "2" {
		t.Errorf("row below at max offset: got %q", got)
	}
}

func TestScrollbackBound(t *testing.T) {
	v := NewVTerm(10, 2, WithScrollback(3))

	var lines []string
	for i := 1; i <= 10; i++ {
		lines = append(lines, strconv.Itoa(i))
	}
	write(v, strings.Join(lines, "\r\n"))

	sb := v.Scrollback()
	if sb.Len() != 3 {
		t.Fatalf("scrollback: got %d rows, want 3", sb.Len())
	}
	// 10 lines on a 2-row screen evict 8; the bound keeps the newest 3.
	for i, want := range []string{"6", "7", "8"} {
		if got := rowText(sb.Row(i)); got != want {
			t.Errorf("scrollback %d: got %q, want %q", i, got, want)
		}
	}
}

func TestScrollbackRowOutOfRange(t *testing.T) {
	sb := NewScrollback(5)
	if sb.Row(0) != nil || sb.Row(-1) != nil {
		t.Error("out-of-range rows should be nil")
	}
	sb.Push(make([]parser.Cell, 4))
	if sb.Row(0) == nil || sb.Row(1) != nil {
		t.Error("bounds check failed after push")
	}
}
