// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/vterm_erase.go
// Summary: Line, display and character erasure plus in-line editing.
//
// Erased ranges become default cells (no glyph, default attributes), and
// erasing never moves the cursor.

package term

import "termlaunch/term/parser"

// eraseLine erases within the cursor row. Mode 0 erases to end of line,
// 1 to start of line (inclusive), 2 the whole line.
func (v *VTerm) eraseLine(mode int) {
	var start, end int
	switch mode {
	case 0:
		start, end = v.cursorX, v.cols-1
	case 1:
		start, end = 0, v.cursorX
	case 2:
		start, end = 0, v.cols-1
	default:
		return
	}
	row := v.grid[v.cursorY]
	for x := start; x <= end && x < v.cols; x++ {
		row[x] = parser.Cell{}
	}
}

// eraseDisplay erases screen regions. Mode 0 erases from the cursor to the
// end of the screen, 1 from the start to the cursor, 2 the whole screen,
// 3 the scrollback (xterm extension emitted by modern `clear`).
func (v *VTerm) eraseDisplay(mode int) {
	switch mode {
	case 0:
		v.eraseLine(0)
		for y := v.cursorY + 1; y < v.rows; y++ {
			v.clearRow(y)
		}
	case 1:
		for y := 0; y < v.cursorY; y++ {
			v.clearRow(y)
		}
		v.eraseLine(1)
	case 2:
		for y := 0; y < v.rows; y++ {
			v.clearRow(y)
		}
	case 3:
		v.scrollback.Clear()
	}
}

func (v *VTerm) clearRow(y int) {
	row := v.grid[y]
	for x := range row {
		row[x] = parser.Cell{}
	}
}

// eraseChars overwrites n cells from the cursor with default cells (ECH).
func (v *VTerm) eraseChars(n int) {
	if n < 1 {
		n = 1
	}
	row := v.grid[v.cursorY]
	for i := 0; i < n && v.cursorX+i < v.cols; i++ {
		row[v.cursorX+i] = parser.Cell{}
	}
}

// deleteChars removes n cells at the cursor, shifting the rest of the line
// left and clearing the vacated tail (DCH).
func (v *VTerm) deleteChars(n int) {
	if n < 1 {
		n = 1
	}
	if n > v.cols-v.cursorX {
		n = v.cols - v.cursorX
	}
	row := v.grid[v.cursorY]
	copy(row[v.cursorX:], row[v.cursorX+n:])
	for x := v.cols - n; x < v.cols; x++ {
		row[x] = parser.Cell{}
	}
}

// insertChars inserts n blank cells at the cursor, shifting the rest of the
// line right; cells pushed past the edge are lost (ICH).
func (v *VTerm) insertChars(n int) {
	if n < 1 {
		n = 1
	}
	if n > v.cols-v.cursorX {
		n = v.cols - v.cursorX
	}
	row := v.grid[v.cursorY]
	copy(row[v.cursorX+n:], row[v.cursorX:v.cols-n])
	for i := 0; i < n; i++ {
		row[v.cursorX+i] = parser.Cell{}
	}
}
