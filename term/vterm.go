// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/vterm.go
// Summary: Virtual terminal screen model and action interpreter.
//
// VTerm owns the visible grid, cursor, pen and mode state, and applies the
// parser's action stream to them. Malformed or unsupported actions degrade
// to no-ops; nothing the child writes can make Apply fail.

package term

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"termlaunch/term/parser"
)

// ModeFlags is the subset of terminal state that gates rendering and key
// encoding. It resets to defaults at the start of each execution and never
// leaks between runs.
type ModeFlags struct {
	AppCursorKeys  bool
	CursorVisible  bool
	MouseReporting bool
	AltScreen      bool
}

// VTerm holds the state of a virtual terminal.
type VTerm struct {
	cols, rows int
	grid       [][]parser.Cell

	cursorX, cursorY int
	wrapNext         bool

	pen parser.Cell // current attributes; Rune is unused

	savedCursorX, savedCursorY int
	savedPen                   parser.Cell
	hasSavedCursor             bool

	marginTop, marginBottom int
	tabStops                map[int]bool

	autoWrap       bool
	cursorVisible  bool
	appCursorKeys  bool
	mouseReporting bool

	altActive     bool
	savedPrimary  [][]parser.Cell
	savedPrimaryX int
	savedPrimaryY int

	scrollback *Scrollback
	title      string

	// TitleChanged is invoked when the child sets the window title.
	TitleChanged func(string)
	// Reply sends bytes back to the child, used for device status reports.
	Reply func([]byte)
}

// Option configures a VTerm.
type Option func(*VTerm)

// WithTitleChangeHandler sets a callback for OSC title changes.
func WithTitleChangeHandler(handler func(string)) Option {
	return func(v *VTerm) { v.TitleChanged = handler }
}

// WithReply sets a callback for writing report responses back to the PTY.
func WithReply(reply func([]byte)) Option {
	return func(v *VTerm) { v.Reply = reply }
}

// WithScrollback bounds the scrollback to maxRows rows.
func WithScrollback(maxRows int) Option {
	return func(v *VTerm) { v.scrollback = NewScrollback(maxRows) }
}

// NewVTerm creates a virtual terminal with the given dimensions.
func NewVTerm(cols, rows int, opts ...Option) *VTerm {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	v := &VTerm{
		cols:          cols,
		rows:          rows,
		autoWrap:      true,
		cursorVisible: true,
		marginTop:     0,
		marginBottom:  rows - 1,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.scrollback == nil {
		v.scrollback = NewScrollback(DefaultScrollbackRows)
	}
	v.grid = newGrid(cols, rows)
	v.resetTabStops()
	return v
}

func newGrid(cols, rows int) [][]parser.Cell {
	grid := make([][]parser.Cell, rows)
	for y := range grid {
		grid[y] = make([]parser.Cell, cols)
	}
	return grid
}

// Size returns (cols, rows).
func (v *VTerm) Size() (int, int) { return v.cols, v.rows }

// Cursor returns the cursor position as (col, row), 0-indexed.
func (v *VTerm) Cursor() (int, int) { return v.cursorX, v.cursorY }

// Grid returns the live grid. Callers must treat it as read-only.
func (v *VTerm) Grid() [][]parser.Cell { return v.grid }

// Scrollback returns the scrollback buffer.
func (v *VTerm) Scrollback() *Scrollback { return v.scrollback }

// Title returns the last title the child set.
func (v *VTerm) Title() string { return v.title }

// Modes returns the current mode flags.
func (v *VTerm) Modes() ModeFlags {
	return ModeFlags{
		AppCursorKeys:  v.appCursorKeys,
		CursorVisible:  v.cursorVisible,
		MouseReporting: v.mouseReporting,
		AltScreen:      v.altActive,
	}
}

// Apply mutates the screen model according to one parsed action.
func (v *VTerm) Apply(a parser.Action) {
	switch a.Kind {
	case parser.ActionPrint:
		v.placeRune(a.Rune)
	case parser.ActionControl:
		v.applyControl(a.Byte)
	case parser.ActionCursorUp:
		v.moveCursorUp(a.N)
	case parser.ActionCursorDown:
		v.moveCursorDown(a.N)
	case parser.ActionCursorForward:
		v.moveCursorForward(a.N)
	case parser.ActionCursorBack:
		v.moveCursorBackward(a.N)
	case parser.ActionCursorNextLine:
		v.moveCursorDown(a.N)
		v.cursorX = 0
	case parser.ActionCursorPrevLine:
		v.moveCursorUp(a.N)
		v.cursorX = 0
	case parser.ActionCursorTo:
		// Wire coordinates are 1-based.
		v.setCursorPos(a.Row-1, a.Col-1)
	case parser.ActionCursorColumn:
		v.setCursorColumn(a.N - 1)
	case parser.ActionCursorRow:
		v.setCursorRow(a.N - 1)
	case parser.ActionEraseLine:
		v.eraseLine(a.N)
	case parser.ActionEraseDisplay:
		v.eraseDisplay(a.N)
	case parser.ActionSetAttributes:
		v.applySGR(a.Params)
	case parser.ActionSetPrivateMode:
		v.setPrivateMode(a.N, a.On)
	case parser.ActionSaveCursor:
		v.saveCursor()
	case parser.ActionRestoreCursor:
		v.restoreCursor()
	case parser.ActionScrollRegion:
		v.setMargins(a.Row, a.Col)
	case parser.ActionInsertLines:
		v.insertLines(a.N)
	case parser.ActionDeleteLines:
		v.deleteLines(a.N)
	case parser.ActionInsertChars:
		v.insertChars(a.N)
	case parser.ActionDeleteChars:
		v.deleteChars(a.N)
	case parser.ActionEraseChars:
		v.eraseChars(a.N)
	case parser.ActionScrollUp:
		v.scrollUp(a.N)
	case parser.ActionScrollDown:
		v.scrollDown(a.N)
	case parser.ActionIndex:
		v.lineFeed()
	case parser.ActionReverseIndex:
		v.reverseIndex()
	case parser.ActionNextLine:
		v.carriageReturn()
		v.lineFeed()
	case parser.ActionTabClear:
		v.tabClear(a.N)
	case parser.ActionSetTitle:
		v.title = a.Str
		if v.TitleChanged != nil {
			v.TitleChanged(a.Str)
		}
	case parser.ActionFullReset:
		v.Reset()
	case parser.ActionReport:
		v.report(a.N)
	case parser.ActionUnknown:
		// Silently discarded.
	}
}

// ApplyAll applies a batch of actions in order.
func (v *VTerm) ApplyAll(actions []parser.Action) {
	for _, a := range actions {
		v.Apply(a)
	}
}

func (v *VTerm) applyControl(b byte) {
	switch b {
	case 0x07: // BEL
	case 0x08:
		v.backspace()
	case 0x09:
		v.tab()
	case 0x0a, 0x0b, 0x0c:
		v.lineFeed()
	case 0x0d:
		v.carriageReturn()
	}
}

// placeRune writes a rune at the cursor with the current pen and advances
// by display width. A wide rune occupies its cell plus a zero-rune
// continuation cell. Wrap is deferred: a glyph in the last column does not
// scroll until the next print arrives.
func (v *VTerm) placeRune(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		// Combining marks and other zero-width runes are dropped.
		return
	}
	if w > 2 {
		w = 2
	}

	if v.wrapNext || (w == 2 && v.cursorX == v.cols-1 && v.autoWrap) {
		v.carriageReturn()
		v.lineFeed()
	}

	cell := v.pen
	cell.Rune = r
	v.grid[v.cursorY][v.cursorX] = cell
	if w == 2 && v.cursorX+1 < v.cols {
		cont := v.pen
		cont.Rune = 0
		v.grid[v.cursorY][v.cursorX+1] = cont
	}

	if v.cursorX+w >= v.cols {
		v.cursorX = v.cols - 1
		if v.autoWrap {
			v.wrapNext = true
		}
	} else {
		v.cursorX += w
	}
}

func (v *VTerm) lineFeed() {
	if v.cursorY == v.marginBottom {
		v.scrollUp(1)
	} else if v.cursorY < v.rows-1 {
		v.cursorY++
	}
}

func (v *VTerm) carriageReturn() {
	v.wrapNext = false
	v.cursorX = 0
}

func (v *VTerm) backspace() {
	v.wrapNext = false
	if v.cursorX > 0 {
		v.cursorX--
	}
}

func (v *VTerm) tab() {
	v.wrapNext = false
	for x := v.cursorX + 1; x < v.cols; x++ {
		if v.tabStops[x] {
			v.cursorX = x
			return
		}
	}
	v.cursorX = v.cols - 1
}

func (v *VTerm) tabClear(mode int) {
	switch mode {
	case 0:
		delete(v.tabStops, v.cursorX)
	case 3:
		v.tabStops = make(map[int]bool)
	}
}

func (v *VTerm) resetTabStops() {
	v.tabStops = make(map[int]bool)
	for x := 0; x < v.cols; x += 8 {
		v.tabStops[x] = true
	}
}

func (v *VTerm) moveCursorUp(n int) {
	v.wrapNext = false
	v.cursorY -= n
	if v.cursorY < v.marginTop {
		v.cursorY = v.marginTop
	}
}

func (v *VTerm) moveCursorDown(n int) {
	v.wrapNext = false
	v.cursorY += n
	if v.cursorY > v.marginBottom {
		v.cursorY = v.marginBottom
	}
}

func (v *VTerm) moveCursorForward(n int) {
	v.wrapNext = false
	v.cursorX += n
	if v.cursorX >= v.cols {
		v.cursorX = v.cols - 1
	}
}

func (v *VTerm) moveCursorBackward(n int) {
	v.wrapNext = false
	v.cursorX -= n
	if v.cursorX < 0 {
		v.cursorX = 0
	}
}

func (v *VTerm) setCursorPos(row, col int) {
	v.wrapNext = false
	v.cursorY = clamp(row, 0, v.rows-1)
	v.cursorX = clamp(col, 0, v.cols-1)
}

func (v *VTerm) setCursorColumn(col int) {
	v.wrapNext = false
	v.cursorX = clamp(col, 0, v.cols-1)
}

func (v *VTerm) setCursorRow(row int) {
	v.wrapNext = false
	v.cursorY = clamp(row, 0, v.rows-1)
}

func (v *VTerm) saveCursor() {
	v.savedCursorX, v.savedCursorY = v.cursorX, v.cursorY
	v.savedPen = v.pen
	v.hasSavedCursor = true
}

// restoreCursor is a no-op when nothing was saved.
func (v *VTerm) restoreCursor() {
	if !v.hasSavedCursor {
		return
	}
	v.wrapNext = false
	v.cursorX = clamp(v.savedCursorX, 0, v.cols-1)
	v.cursorY = clamp(v.savedCursorY, 0, v.rows-1)
	v.pen = v.savedPen
}

func (v *VTerm) report(code int) {
	if code == 6 && v.Reply != nil {
		// CPR: ESC [ <row> ; <col> R, 1-based.
		v.Reply([]byte(fmt.Sprintf("\x1b[%d;%dR", v.cursorY+1, v.cursorX+1)))
	}
}

// Reset restores the terminal to its power-on state. Scrollback is cleared
// as well: a full reset starts a fresh execution context.
func (v *VTerm) Reset() {
	v.grid = newGrid(v.cols, v.rows)
	v.altActive = false
	v.savedPrimary = nil
	v.cursorX, v.cursorY = 0, 0
	v.wrapNext = false
	v.pen = parser.Cell{}
	v.hasSavedCursor = false
	v.marginTop = 0
	v.marginBottom = v.rows - 1
	v.autoWrap = true
	v.cursorVisible = true
	v.appCursorKeys = false
	v.mouseReporting = false
	v.resetTabStops()
	v.scrollback.Clear()
}

// Resize changes the grid dimensions, truncating or padding columns and
// pushing surplus rows into scrollback when the row count shrinks. Resizing
// to the current dimensions is a no-op, which makes the operation
// idempotent. Wrapped lines are not reflowed.
func (v *VTerm) Resize(cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if cols == v.cols && rows == v.rows {
		return
	}

	if removed := v.rows - rows; removed > 0 && !v.altActive {
		for i := 0; i < removed && i < len(v.grid); i++ {
			v.scrollback.Push(resizeRow(v.grid[i], cols))
		}
		v.cursorY -= removed
	}

	v.grid = resizeGrid(v.grid, cols, rows)
	if v.altActive && v.savedPrimary != nil {
		v.savedPrimary = resizeGrid(v.savedPrimary, cols, rows)
	}

	v.cols = cols
	v.rows = rows
	v.marginTop = 0
	v.marginBottom = rows - 1
	v.cursorX = clamp(v.cursorX, 0, cols-1)
	v.cursorY = clamp(v.cursorY, 0, rows-1)
	v.wrapNext = false
	v.resetTabStops()
}

func resizeGrid(grid [][]parser.Cell, cols, rows int) [][]parser.Cell {
	oldRows := len(grid)
	newGrid := make([][]parser.Cell, rows)
	// Keep the bottom rows when shrinking, the surplus top rows having been
	// evicted by the caller.
	src := oldRows - rows
	if src < 0 {
		src = 0
	}
	for y := 0; y < rows; y++ {
		if src < oldRows {
			newGrid[y] = resizeRow(grid[src], cols)
			src++
		} else {
			newGrid[y] = make([]parser.Cell, cols)
		}
	}
	return newGrid
}

func resizeRow(row []parser.Cell, cols int) []parser.Cell {
	out := make([]parser.Cell, cols)
	copy(out, row)
	return out
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
