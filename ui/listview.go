// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ui/listview.go
// Summary: Prompt and filtered entry list rendering.

package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"termlaunch/launcher"
)

const promptText = "run> "

// ListView draws the query prompt and the ranked entries.
type ListView struct {
	theme Theme

	// scroll is the first visible list index, kept so the selection stays
	// on screen across redraws.
	scroll int
}

// NewListView creates a list view with the given theme.
func NewListView(theme Theme) *ListView {
	return &ListView{theme: theme}
}

// Draw renders the prompt on row 0 and the entries below it. used marks
// entries with recorded history.
func (v *ListView) Draw(screen tcell.Screen, l *launcher.Launcher, used func(id string) bool) {
	width, height := screen.Size()
	if width <= 0 || height <= 0 {
		return
	}

	// Prompt line.
	x := drawText(screen, 0, 0, width, v.theme.Prompt, promptText)
	x = drawText(screen, x, 0, width, v.theme.Query, l.Query())
	fillLine(screen, x, 0, width, v.theme.Background)
	screen.ShowCursor(x, 0)

	entries := l.Filtered()
	selected := l.SelectedIndex()
	listHeight := height - 1

	if listHeight <= 0 {
		return
	}
	v.ensureVisible(selected, len(entries), listHeight)

	for row := 0; row < listHeight; row++ {
		idx := v.scroll + row
		y := row + 1
		if idx >= len(entries) {
			fillLine(screen, 0, y, width, v.theme.Background)
			continue
		}
		v.drawEntry(screen, y, width, entries[idx], idx == selected, used)
	}

	if len(entries) == 0 && l.Query() != "" {
		drawText(screen, 2, 1, width, v.theme.EntryMeta, "no matches")
	}
}

func (v *ListView) drawEntry(screen tcell.Screen, y, width int, e *launcher.Entry, selected bool, used func(id string) bool) {
	nameStyle := v.theme.Entry
	metaStyle := v.theme.EntryMeta
	if selected {
		nameStyle = v.theme.Selected
		metaStyle = v.theme.Selected
	}

	x := 0
	if selected {
		x = drawText(screen, x, y, width, nameStyle, "> ")
	} else {
		x = drawText(screen, x, y, width, v.theme.Background, "  ")
	}

	if used != nil && used(e.ID) {
		x = drawText(screen, x, y, width, v.theme.UsageMark, "* ")
	} else {
		x = drawText(screen, x, y, width, nameStyle, "  ")
	}

	x = drawText(screen, x, y, width, nameStyle, e.Name)
	if e.Comment != "" {
		x = drawText(screen, x, y, width, metaStyle, fmt.Sprintf("  %s", e.Comment))
	}
	fillLine(screen, x, y, width, backOf(nameStyle, v.theme.Background, selected))
}

// backOf keeps the highlight bar stretching across the full row.
func backOf(selectedStyle, normal tcell.Style, selected bool) tcell.Style {
	if selected {
		return selectedStyle
	}
	return normal
}

// ensureVisible scrolls the window so the selection is always on screen.
func (v *ListView) ensureVisible(selected, total, height int) {
	if total == 0 {
		v.scroll = 0
		return
	}
	if selected < v.scroll {
		v.scroll = selected
	}
	if selected >= v.scroll+height {
		v.scroll = selected - height + 1
	}
	if v.scroll > total-1 {
		v.scroll = total - 1
	}
	if v.scroll < 0 {
		v.scroll = 0
	}
}
