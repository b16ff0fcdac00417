// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/vterm_scroll.go
// Summary: Scrolling region handling and line insertion/deletion.

package term

import "termlaunch/term/parser"

// setMargins defines the active scrolling region (DECSTBM). Parameters are
// 1-based; zero means the screen edge. An invalid region is ignored.
func (v *VTerm) setMargins(top, bottom int) {
	if top == 0 {
		top = 1
	}
	if bottom == 0 {
		bottom = v.rows
	}
	if top < 1 {
		top = 1
	}
	if bottom > v.rows {
		bottom = v.rows
	}
	if top >= bottom {
		return
	}

	v.marginTop = top - 1
	v.marginBottom = bottom - 1
	// DECSTBM homes the cursor.
	v.setCursorPos(0, 0)
}

// scrollUp shifts the scrolling region up by n rows. When the region spans
// the whole primary screen, evicted top rows are appended to scrollback;
// eviction is synchronous so memory stays bounded.
func (v *VTerm) scrollUp(n int) {
	fullScreen := v.marginTop == 0 && v.marginBottom == v.rows-1
	v.scrollUpRegion(n, fullScreen && !v.altActive)
}

func (v *VTerm) scrollUpRegion(n int, evict bool) {
	if n < 1 {
		n = 1
	}
	regionSize := v.marginBottom - v.marginTop + 1
	if n > regionSize {
		n = regionSize
	}

	for i := 0; i < n; i++ {
		if evict {
			v.scrollback.Push(v.grid[v.marginTop])
		}
		copy(v.grid[v.marginTop:], v.grid[v.marginTop+1:v.marginBottom+1])
		v.grid[v.marginBottom] = make([]parser.Cell, v.cols)
	}
}

// scrollDown shifts the scrolling region down by n rows, clearing the new
// top rows. Nothing enters scrollback.
func (v *VTerm) scrollDown(n int) {
	if n < 1 {
		n = 1
	}
	regionSize := v.marginBottom - v.marginTop + 1
	if n > regionSize {
		n = regionSize
	}

	for i := 0; i < n; i++ {
		copy(v.grid[v.marginTop+1:v.marginBottom+1], v.grid[v.marginTop:v.marginBottom])
		v.grid[v.marginTop] = make([]parser.Cell, v.cols)
	}
}

// reverseIndex moves the cursor up one row, scrolling the region down when
// the cursor sits on the top margin.
func (v *VTerm) reverseIndex() {
	if v.cursorY == v.marginTop {
		v.scrollDown(1)
	} else if v.cursorY > 0 {
		v.cursorY--
	}
}

// insertLines inserts n blank lines at the cursor row, shifting rows below
// down within the scrolling region. Outside the region it is a no-op.
func (v *VTerm) insertLines(n int) {
	if v.cursorY < v.marginTop || v.cursorY > v.marginBottom {
		return
	}
	savedTop := v.marginTop
	v.marginTop = v.cursorY
	v.scrollDown(n)
	v.marginTop = savedTop
	v.cursorX = 0
}

// deleteLines removes n lines at the cursor row, shifting rows below up
// within the scrolling region.
func (v *VTerm) deleteLines(n int) {
	if v.cursorY < v.marginTop || v.cursorY > v.marginBottom {
		return
	}
	savedTop := v.marginTop
	v.marginTop = v.cursorY
	// Deleted lines are editing artifacts, not scrolled-off history.
	v.scrollUpRegion(n, false)
	v.marginTop = savedTop
	v.cursorX = 0
}
