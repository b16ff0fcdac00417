// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/palette.go
// Summary: xterm 256-color palette, tcell style mapping and color downgrade.

package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"termlaunch/term/parser"
)

// Palette maps terminal colors onto concrete RGB values. Slots 0-255 hold
// the xterm palette; 256 and 257 hold the default foreground and background.
type Palette struct {
	colors [258]tcell.Color
}

// NewDefaultPalette builds the standard xterm 256-color palette with a
// white-on-black default.
func NewDefaultPalette() *Palette {
	var p Palette

	// First 16 ANSI colors.
	base := [16][3]int32{
		{0, 0, 0}, {128, 0, 0}, {0, 128, 0}, {128, 128, 0},
		{0, 0, 128}, {128, 0, 128}, {0, 128, 128}, {192, 192, 192},
		{128, 128, 128}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
		{0, 0, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
	}
	for i, c := range base {
		p.colors[i] = tcell.NewRGBColor(c[0], c[1], c[2])
	}

	// 6x6x6 color cube.
	levels := []int32{0, 95, 135, 175, 215, 255}
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p.colors[i] = tcell.NewRGBColor(levels[r], levels[g], levels[b])
				i++
			}
		}
	}

	// Grayscale ramp.
	for j := 0; j < 24; j++ {
		gray := int32(8 + j*10)
		p.colors[i] = tcell.NewRGBColor(gray, gray, gray)
		i++
	}

	p.colors[256] = p.colors[15] // default foreground
	p.colors[257] = p.colors[0]  // default background
	return &p
}

// Foreground resolves a cell foreground color.
func (p *Palette) Foreground(c parser.Color) tcell.Color {
	return p.resolve(c, 256)
}

// Background resolves a cell background color.
func (p *Palette) Background(c parser.Color) tcell.Color {
	return p.resolve(c, 257)
}

func (p *Palette) resolve(c parser.Color, defaultSlot int) tcell.Color {
	switch c.Mode {
	case parser.ColorModeStandard, parser.ColorMode256:
		return p.colors[c.Value]
	case parser.ColorModeRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	default:
		return p.colors[defaultSlot]
	}
}

// Style converts a cell into a tcell style through the palette.
func (p *Palette) Style(cell parser.Cell) tcell.Style {
	st := tcell.StyleDefault.
		Foreground(p.Foreground(cell.FG)).
		Background(p.Background(cell.BG))
	st = st.Bold(cell.Attr&parser.AttrBold != 0)
	st = st.Italic(cell.Attr&parser.AttrItalic != 0)
	st = st.Underline(cell.Attr&parser.AttrUnderline != 0)
	st = st.Blink(cell.Attr&parser.AttrBlink != 0)
	st = st.Reverse(cell.Attr&parser.AttrReverse != 0)
	st = st.StrikeThrough(cell.Attr&parser.AttrStrike != 0)
	if cell.Attr&parser.AttrInvisible != 0 {
		st = st.Foreground(p.Background(cell.BG))
	}
	return st
}

// Downgrade256 approximates a color as a 256-palette entry for renderers
// without true-color support. Palette and default colors pass through; RGB
// colors map to the perceptually nearest palette entry.
func (p *Palette) Downgrade256(c parser.Color) parser.Color {
	if c.Mode != parser.ColorModeRGB {
		return c
	}

	target := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	best := 0
	bestDist := -1.0
	for i := 0; i < 256; i++ {
		r, g, b := p.colors[i].RGB()
		entry := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
		d := target.DistanceLab(entry)
		if bestDist < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return parser.Color{Mode: parser.ColorMode256, Value: uint8(best)}
}
