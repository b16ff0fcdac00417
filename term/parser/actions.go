// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/parser/actions.go
// Summary: The parser's output vocabulary: discrete terminal actions.

package parser

// ActionKind tags the variant of an Action.
type ActionKind uint8

const (
	// ActionPrint places Rune at the cursor with the current pen.
	ActionPrint ActionKind = iota
	// ActionControl is a C0 control code (Byte holds the code).
	ActionControl
	// ActionCursorUp .. ActionCursorBack move the cursor by N.
	ActionCursorUp
	ActionCursorDown
	ActionCursorForward
	ActionCursorBack
	// ActionCursorNextLine / ActionCursorPrevLine move N rows and reset the column.
	ActionCursorNextLine
	ActionCursorPrevLine
	// ActionCursorTo is absolute positioning; Row/Col are 1-based wire coordinates.
	ActionCursorTo
	// ActionCursorColumn sets the column (1-based), ActionCursorRow the row.
	ActionCursorColumn
	ActionCursorRow
	// ActionEraseLine / ActionEraseDisplay erase with mode N (0=to end, 1=to start, 2=all, 3=scrollback for display).
	ActionEraseLine
	ActionEraseDisplay
	// ActionSetAttributes carries raw SGR parameters in Params.
	ActionSetAttributes
	// ActionSetPrivateMode toggles DEC private mode N to On.
	ActionSetPrivateMode
	ActionSaveCursor
	ActionRestoreCursor
	// ActionScrollRegion sets margins; Row=top, Col=bottom, 1-based, 0 means default.
	ActionScrollRegion
	// Line/character editing; N is the count.
	ActionInsertLines
	ActionDeleteLines
	ActionInsertChars
	ActionDeleteChars
	ActionEraseChars
	ActionScrollUp
	ActionScrollDown
	// ESC-level motions.
	ActionIndex
	ActionReverseIndex
	ActionNextLine
	// ActionTabClear clears tab stops (N: 0=current column, 3=all).
	ActionTabClear
	// ActionSetTitle carries the OSC title in Str.
	ActionSetTitle
	ActionFullReset
	// ActionReport asks the host to answer a device query; N is the DSR code.
	ActionReport
	// ActionUnknown is an unrecognized sequence; interpreters must discard it.
	ActionUnknown
)

// Action is one fully resolved terminal action. It is a tagged variant:
// Kind selects which of the remaining fields are meaningful.
type Action struct {
	Kind   ActionKind
	Rune   rune
	Byte   byte
	N      int
	Row    int
	Col    int
	On     bool
	Params []int
	Str    string
}
