// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ui/execview.go
// Summary: Terminal viewport and status bar rendering for an execution.

package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"termlaunch/term"
)

// ExecView draws one running or finished execution: the terminal viewport
// fills the screen above a one-row status bar.
type ExecView struct {
	theme Theme
}

// NewExecView creates an execution view with the given theme.
func NewExecView(theme Theme) *ExecView {
	return &ExecView{theme: theme}
}

// ViewportSize returns the terminal dimensions for the given screen size,
// leaving room for the status bar.
func (v *ExecView) ViewportSize(screen tcell.Screen) (cols, rows int) {
	w, h := screen.Size()
	if h <= 1 {
		return w, 0
	}
	return w, h - 1
}

// Draw renders the viewport and status bar for t.
func (v *ExecView) Draw(screen tcell.Screen, t *term.Term) {
	width, height := screen.Size()
	viewHeight := height - 1
	if viewHeight <= 0 {
		return
	}

	palette := t.Palette()
	rows := t.VisibleRows(viewHeight)
	for y := 0; y < viewHeight && y < len(rows); y++ {
		row := rows[y]
		for x := 0; x < width; x++ {
			if row == nil || x >= len(row) {
				screen.SetContent(x, y, ' ', nil, v.theme.Background)
				continue
			}
			cell := row[x]
			r := cell.Rune
			if r == 0 {
				r = ' '
			}
			screen.SetContent(x, y, r, nil, palette.Style(cell))
		}
	}

	if x, y, ok := t.CursorPos(viewHeight); ok {
		screen.ShowCursor(x, y)
	} else {
		screen.HideCursor()
	}

	v.drawStatus(screen, t, width, viewHeight)
}

func (v *ExecView) drawStatus(screen tcell.Screen, t *term.Term, width, y int) {
	style := v.theme.StatusBar

	var state string
	switch st, done := t.Status(); {
	case !done:
		state = "running"
	case st.Signaled || st.Code != 0:
		state = st.String() + "  [press any key]"
		style = v.theme.StatusErr
	default:
		state = "done  [press any key]"
	}

	left := fmt.Sprintf(" %s  %s", t.Title(), state)
	x := drawText(screen, 0, y, width, style, left)

	if off := t.ScrollOffset(); off > 0 {
		pos := fmt.Sprintf("  [scroll -%d]", off)
		x = drawText(screen, x, y, width, style, pos)
	}
	fillLine(screen, x, y, width, style)
}
