package parser

// ColorMode selects the interpretation of a Color value.
type ColorMode uint8

const (
	// ColorModeDefault inherits the terminal default for that plane.
	ColorModeDefault ColorMode = iota
	// ColorModeStandard is one of the 16 basic ANSI colors.
	ColorModeStandard
	// ColorMode256 indexes the xterm 256-color palette.
	ColorMode256
	// ColorModeRGB is a 24-bit true color.
	ColorModeRGB
)

// Color is a terminal color. The zero value is the terminal default.
type Color struct {
	Mode    ColorMode
	Value   uint8 // palette index for Standard/256
	R, G, B uint8 // components for RGB
}

// DefaultColor is the inherit-terminal-default color.
var DefaultColor = Color{Mode: ColorModeDefault}

// Attribute is a bitset of text style flags.
type Attribute uint16

const (
	AttrBold Attribute = 1 << iota
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrInvisible
	AttrStrike
)

// Cell represents a single character cell on the screen.
// A zero Rune means the cell is erased (renders as a blank) or is the
// continuation half of a wide rune.
type Cell struct {
	Rune rune
	FG   Color
	BG   Color
	Attr Attribute
}

// IsDefault reports whether the cell carries no glyph and no styling.
func (c Cell) IsDefault() bool {
	return c.Rune == 0 && c.FG == DefaultColor && c.BG == DefaultColor && c.Attr == 0
}
