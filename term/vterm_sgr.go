// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/vterm_sgr.go
// Summary: Select Graphic Rendition: maps SGR parameters onto the pen.

package term

import "termlaunch/term/parser"

// applySGR folds a raw SGR parameter list into the current pen. The 38/48
// extended-color forms consume their sub-parameters; unrecognized codes are
// skipped without error.
func (v *VTerm) applySGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}

	i := 0
	for i < len(params) {
		p := params[i]
		switch {
		case p == 0:
			v.pen = parser.Cell{}
		case p == 1:
			v.pen.Attr |= parser.AttrBold
		case p == 3:
			v.pen.Attr |= parser.AttrItalic
		case p == 4:
			v.pen.Attr |= parser.AttrUnderline
		case p == 5:
			v.pen.Attr |= parser.AttrBlink
		case p == 7:
			v.pen.Attr |= parser.AttrReverse
		case p == 8:
			v.pen.Attr |= parser.AttrInvisible
		case p == 9:
			v.pen.Attr |= parser.AttrStrike
		case p == 21, p == 22:
			v.pen.Attr &^= parser.AttrBold
		case p == 23:
			v.pen.Attr &^= parser.AttrItalic
		case p == 24:
			v.pen.Attr &^= parser.AttrUnderline
		case p == 25:
			v.pen.Attr &^= parser.AttrBlink
		case p == 27:
			v.pen.Attr &^= parser.AttrReverse
		case p == 28:
			v.pen.Attr &^= parser.AttrInvisible
		case p == 29:
			v.pen.Attr &^= parser.AttrStrike
		case p >= 30 && p <= 37:
			v.pen.FG = parser.Color{Mode: parser.ColorModeStandard, Value: uint8(p - 30)}
		case p == 39:
			v.pen.FG = parser.DefaultColor
		case p >= 40 && p <= 47:
			v.pen.BG = parser.Color{Mode: parser.ColorModeStandard, Value: uint8(p - 40)}
		case p == 49:
			v.pen.BG = parser.DefaultColor
		case p >= 90 && p <= 97:
			v.pen.FG = parser.Color{Mode: parser.ColorModeStandard, Value: uint8(p - 90 + 8)}
		case p >= 100 && p <= 107:
			v.pen.BG = parser.Color{Mode: parser.ColorModeStandard, Value: uint8(p - 100 + 8)}
		case p == 38:
			if c, consumed, ok := extendedColor(params[i+1:]); ok {
				v.pen.FG = c
				i += consumed
			}
		case p == 48:
			if c, consumed, ok := extendedColor(params[i+1:]); ok {
				v.pen.BG = c
				i += consumed
			}
		}
		i++
	}
}

// extendedColor parses the tail of a 38/48 sequence: "5;N" for a palette
// index or "2;R;G;B" for true color. Returns the parsed color, how many
// parameters were consumed, and whether the form was valid.
func extendedColor(rest []int) (parser.Color, int, bool) {
	if len(rest) >= 2 && rest[0] == 5 {
		return parser.Color{Mode: parser.ColorMode256, Value: clampByte(rest[1])}, 2, true
	}
	if len(rest) >= 4 && rest[0] == 2 {
		return parser.Color{
			Mode: parser.ColorModeRGB,
			R:    clampByte(rest[1]),
			G:    clampByte(rest[2]),
			B:    clampByte(rest[3]),
		}, 4, true
	}
	return parser.Color{}, 0, false
}

func clampByte(n int) uint8 {
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}
