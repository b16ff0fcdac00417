// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ui/theme.go
// Summary: tcell styles for the launcher surfaces.

package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Theme bundles the styles of every drawn element.
type Theme struct {
	Background tcell.Style
	Prompt     tcell.Style
	Query      tcell.Style
	Entry      tcell.Style
	EntryMeta  tcell.Style
	Selected   tcell.Style
	UsageMark  tcell.Style
	StatusBar  tcell.Style
	StatusErr  tcell.Style
}

// DefaultTheme returns the built-in dark theme.
func DefaultTheme() Theme {
	base := tcell.StyleDefault
	return Theme{
		Background: base,
		Prompt:     base.Foreground(tcell.ColorAqua).Bold(true),
		Query:      base.Bold(true),
		Entry:      base,
		EntryMeta:  base.Foreground(tcell.ColorGray),
		Selected:   base.Reverse(true).Bold(true),
		UsageMark:  base.Foreground(tcell.ColorYellow),
		StatusBar:  base.Reverse(true),
		StatusErr:  base.Reverse(true).Foreground(tcell.ColorRed).Bold(true),
	}
}

// drawText writes s starting at (x, y), clipped to maxX. Returns the column
// after the last written cell.
func drawText(screen tcell.Screen, x, y, maxX int, style tcell.Style, s string) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > maxX {
			break
		}
		screen.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

// fillLine paints the remainder of row y from x with spaces.
func fillLine(screen tcell.Screen, x, y, maxX int, style tcell.Style) {
	for ; x < maxX; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
}
