// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/vterm_test.go
// Summary: Tests for the screen model and action interpreter.

package term

import (
	"strings"
	"testing"

	"termlaunch/term/parser"
)

// write feeds a raw byte string through a fresh parser into the vterm.
func write(v *VTerm, s string) {
	p := parser.NewParser()
	v.ApplyAll(p.Feed([]byte(s)))
}

// rowText extracts the printable text of a grid row, trailing blanks trimmed.
func rowText(row []parser.Cell) string {
	var b strings.Builder
	for _, c := range row {
		if c.Rune == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteRune(c.Rune)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func TestPrintAndWrap(t *testing.T) {
	v := NewVTerm(5, 3)
	write(v, "abcdefg")

	if got := rowText(v.Grid()[0]); got != "abcde" {
		t.Errorf("row 0: got %q", got)
	}
	if got := rowText(v.Grid()[1]); got != "fg" {
		t.Errorf("row 1: got %q", got)
	}
	x, y := v.Cursor()
	if x != 2 || y != 1 {
		t.Errorf("cursor: got (%d,%d), want (2,1)", x, y)
	}
}

// TestDeferredWrap verifies a glyph in the last column does not scroll the
// screen until the next print arrives.
func TestDeferredWrap(t *testing.T) {
	v := NewVTerm(5, 2)
	write(v, "abcde")

	x, y := v.Cursor()
	if x != 4 || y != 0 {
		t.Errorf("cursor after full row: got (%d,%d), want (4,0)", x, y)
	}

	write(v, "f")
	if got := rowText(v.Grid()[1]); got != "f" {
		t.Errorf("row 1 after wrap: got %q", got)
	}
}

func TestCarriageReturnOverwrite(t *testing.T) {
	v := NewVTerm(40, 5)
	write(v, "Progress: 50%\rProgress: 100%")

	if got := rowText(v.Grid()[0]); got != "Progress: 100%" {
		t.Errorf("row 0: got %q", got)
	}
	if got := rowText(v.Grid()[1]); got != "" {
		t.Errorf("row 1 should be empty, got %q", got)
	}
}

func TestScrollOnOverflowPreservesOrder(t *testing.T) {
	const rows = 4
	v := NewVTerm(20, rows)

	var lines []string
	for i := 1; i <= rows+5; i++ {
		lines = append(lines, "line"+strings.Repeat("x", i))
	}
	write(v, strings.Join(lines, "\r\n"))

	sb := v.Scrollback()
	if sb.Len() != 5 {
		t.Fatalf("scrollback length: got %d, want 5", sb.Len())
	}
	for i := 0; i < 5; i++ {
		if got := rowText(sb.Row(i)); got != lines[i] {
			t.Errorf("scrollback %d: got %q, want %q", i, got, lines[i])
		}
	}
	for i := 0; i < rows; i++ {
		if got := rowText(v.Grid()[i]); got != lines[5+i] {
			t.Errorf("surface %d: got %q, want %q", i, got, lines[5+i])
		}
	}
}

func TestSGRRoundTrip(t *testing.T) {
	v := NewVTerm(10, 2)
	write(v, "\x1b[1;31mX\x1b[0mY")

	x := v.Grid()[0][0]
	if x.Attr&parser.AttrBold == 0 {
		t.Error("cell 0 should be bold")
	}
	want := parser.Color{Mode: parser.ColorModeStandard, Value: 1}
	if x.FG != want {
		t.Errorf("cell 0 FG: got %+v, want %+v", x.FG, want)
	}

	y := v.Grid()[0][1]
	if y.Attr != 0 || y.FG != parser.DefaultColor || y.BG != parser.DefaultColor {
		t.Errorf("cell 1 should be default, got %+v", y)
	}
}

func TestExtendedColors(t *testing.T) {
	v := NewVTerm(10, 2)
	write(v, "\x1b[38;5;208ma\x1b[48;2;10;20;30mb")

	a := v.Grid()[0][0]
	if a.FG != (parser.Color{Mode: parser.ColorMode256, Value: 208}) {
		t.Errorf("256-color FG: got %+v", a.FG)
	}
	b := v.Grid()[0][1]
	if b.BG != (parser.Color{Mode: parser.ColorModeRGB, R: 10, G: 20, B: 30}) {
		t.Errorf("RGB BG: got %+v", b.BG)
	}
}

func TestCursorPositionClamp(t *testing.T) {
	v := NewVTerm(80, 24)
	write(v, "\x1b[999;999H")

	x, y := v.Cursor()
	if x != 79 || y != 23 {
		t.Errorf("cursor: got (%d,%d), want (79,23)", x, y)
	}
}

func TestEraseLine(t *testing.T) {
	v := NewVTerm(10, 2)
	write(v, "abcdefghij\x1b[1;5H\x1b[K")

	if got := rowText(v.Grid()[0]); got != "abcd" {
		t.Errorf("erase to end: got %q", got)
	}
	// Erase never moves the cursor.
	x, y := v.Cursor()
	if x != 4 || y != 0 {
		t.Errorf("cursor moved by erase: (%d,%d)", x, y)
	}
}

func TestEraseDisplayAll(t *testing.T) {
	v := NewVTerm(10, 3)
	write(v, "aaa\r\nbbb\r\nccc\x1b[2J")

	for i := 0; i < 3; i++ {
		if got := rowText(v.Grid()[i]); got != "" {
			t.Errorf("row %d not erased: %q", i, got)
		}
	}
}

func TestRestoreWithoutSaveIsNoop(t *testing.T) {
	v := NewVTerm(10, 3)
	write(v, "ab\x1b[u")

	x, y := v.Cursor()
	if x != 2 || y != 0 {
		t.Errorf("cursor: got (%d,%d), want (2,0)", x, y)
	}
}

func TestSaveRestoreCursor(t *testing.T) {
	v := NewVTerm(10, 3)
	write(v, "\x1b[2;3H\x1b[s\x1b[1;1H\x1b[u")

	x, y := v.Cursor()
	if x != 2 || y != 1 {
		t.Errorf("cursor: got (%d,%d), want (2,1)", x, y)
	}
}

func TestIdempotentResize(t *testing.T) {
	v := NewVTerm(10, 4)
	write(v, "hello\r\nworld")

	v.Resize(8, 3)
	snapshot := gridCopy(v)
	v.Resize(8, 3)

	if !gridsEqual(snapshot, gridCopy(v)) {
		t.Error("resizing to the same dimensions changed the surface")
	}
}

func TestResizeShrinkPushesToScrollback(t *testing.T) {
	v := NewVTerm(10, 4)
	write(v, "one\r\ntwo\r\nthree\r\nfour")

	v.Resize(10, 2)

	if v.Scrollback().Len() != 2 {
		t.Fatalf("scrollback: got %d rows, want 2", v.Scrollback().Len())
	}
	if got := rowText(v.Scrollback().Row(0)); got != "one" {
		t.Errorf("scrollback 0: got %q", got)
	}
	if got := rowText(v.Grid()[0]); got != "three" {
		t.Errorf("surface 0: got %q", got)
	}
}

func TestModesToggleAndReset(t *testing.T) {
	v := NewVTerm(10, 3)
	write(v, "\x1b[?1h\x1b[?25l\x1b[?1000h")

	m := v.Modes()
	if !m.AppCursorKeys || m.CursorVisible || !m.MouseReporting {
		t.Errorf("modes: %+v", m)
	}

	v.Reset()
	m = v.Modes()
	if m.AppCursorKeys || !m.CursorVisible || m.MouseReporting || m.AltScreen {
		t.Errorf("modes after reset: %+v", m)
	}
}

func TestAlternateScreen(t *testing.T) {
	v := NewVTerm(10, 3)
	write(v, "primary")
	write(v, "\x1b[?1049h")

	if !v.Modes().AltScreen {
		t.Fatal("alt screen not active")
	}
	if got := rowText(v.Grid()[0]); got != "" {
		t.Errorf("alt screen should start blank, got %q", got)
	}

	write(v, "alt\r\n\r\n\r\n\r\n\r\n")
	if v.Scrollback().Len() != 0 {
		t.Error("alt screen contributed to scrollback")
	}

	write(v, "\x1b[?1049l")
	if got := rowText(v.Grid()[0]); got != "primary" {
		t.Errorf("primary not restored: got %q", got)
	}
}

func TestScrollRegion(t *testing.T) {
	v := NewVTerm(10, 5)
	write(v, "a\r\nb\r\nc\r\nd\r\ne")
	// Region rows 2-4 (1-based), cursor to region bottom, then feed a line.
	write(v, "\x1b[2;4r\x1b[4;1Hx\n")

	// Row 0 (outside region) is untouched; region scrolled up.
	if got := rowText(v.Grid()[0]); got != "a" {
		t.Errorf("row 0: got %q", got)
	}
	if got := rowText(v.Grid()[1]); got != "c" {
		t.Errorf("row 1: got %q", got)
	}
	if got := rowText(v.Grid()[4]); got != "e" {
		t.Errorf("row 4: got %q", got)
	}
	// Region scroll must not leak into scrollback.
	if v.Scrollback().Len() != 0 {
		t.Errorf("scrollback: got %d rows, want 0", v.Scrollback().Len())
	}
}

func TestWideRunes(t *testing.T) {
	v := NewVTerm(6, 2)
	write(v, "日本")

	if v.Grid()[0][0].Rune != '日' {
		t.Errorf("cell 0: got %q", v.Grid()[0][0].Rune)
	}
	if v.Grid()[0][1].Rune != 0 {
		t.Error("cell 1 should be a continuation cell")
	}
	if v.Grid()[0][2].Rune != '本' {
		t.Errorf("cell 2: got %q", v.Grid()[0][2].Rune)
	}
	x, _ := v.Cursor()
	if x != 4 {
		t.Errorf("cursor col: got %d, want 4", x)
	}
}

func TestMalformedInputDegradesToNoop(t *testing.T) {
	v := NewVTerm(10, 3)
	write(v, "ok\x1b[999Z\x1b[?9999h\x1b]7;weird\x07\x1b[;;;m")

	if got := rowText(v.Grid()[0]); got != "ok" {
		t.Errorf("row 0: got %q", got)
	}
}

func TestTitleChange(t *testing.T) {
	var got string
	v := NewVTerm(10, 3, WithTitleChangeHandler(func(s string) { got = s }))
	write(v, "\x1b]0;my title\x07")

	if got != "my title" || v.Title() != "my title" {
		t.Errorf("title: callback %q, stored %q", got, v.Title())
	}
}

func TestCursorPositionReport(t *testing.T) {
	var reply []byte
	v := NewVTerm(10, 3, WithReply(func(b []byte) { reply = b }))
	write(v, "\x1b[2;5H\x1b[6n")

	if string(reply) != "\x1b[2;5R" {
		t.Errorf("CPR: got %q", reply)
	}
}

func gridCopy(v *VTerm) [][]parser.Cell {
	grid := v.Grid()
	out := make([][]parser.Cell, len(grid))
	for i, row := range grid {
		out[i] = append([]parser.Cell(nil), row...)
	}
	return out
}

func gridsEqual(a, b [][]parser.Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}
