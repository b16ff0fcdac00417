// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/viewport.go
// Summary: Projects a viewport window over scrollback plus the live grid.

package term

import "termlaunch/term/parser"

// MaxScrollOffset returns the furthest back the viewport can scroll.
func (v *VTerm) MaxScrollOffset() int {
	return v.scrollback.Len()
}

// VisibleRows returns the rows to display for a viewport of the given
// height at the given scroll offset. Offset 0 shows the live bottom of the
// screen; offset N shows N rows back into scrollback. The boundary between
// scrollback and the live grid is seamless, and content shorter than the
// viewport is padded with empty rows at the top. Rows are read-only views;
// a nil row renders as blank.
func (v *VTerm) VisibleRows(height, offset int) [][]parser.Cell {
	if height <= 0 {
		return nil
	}
	offset = clamp(offset, 0, v.scrollback.Len())

	total := v.scrollback.Len() + v.rows
	bottom := total - offset // exclusive
	top := bottom - height

	out := make([][]parser.Cell, 0, height)
	for i := top; i < bottom; i++ {
		switch {
		case i < 0:
			out = append(out, nil)
		case i < v.scrollback.Len():
			out = append(out, v.scrollback.Row(i))
		default:
			out = append(out, v.grid[i-v.scrollback.Len()])
		}
	}
	return out
}
