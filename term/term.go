// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/term.go
// Summary: One command execution: session + parser + screen model + viewport.
//
// A Term is created when an execution begins and discarded when the user
// returns to the listing, so mode flags and scrollback never leak between
// runs. After the child exits the Term stays readable for output review.

package term

import (
	"log"

	"github.com/gdamore/tcell/v2"

	"termlaunch/term/parser"
)

// maxChunksPerTick bounds how much buffered output one tick will parse, so
// a flooding child cannot starve the UI.
const maxChunksPerTick = 64

// Term drives a single in-place command execution.
type Term struct {
	command string
	session *Session
	parser  *parser.Parser
	vterm   *VTerm
	palette *Palette

	scrollOffset int
	following    bool

	status *Status
	eof    bool
	closed bool
}

// NewTerm spawns command in a PTY sized cols x rows with the given
// scrollback bound and returns the execution handle.
func NewTerm(command string, cols, rows, scrollbackRows int) (*Term, error) {
	t := &Term{
		command:   command,
		parser:    parser.NewParser(),
		palette:   NewDefaultPalette(),
		following: true,
	}

	session, err := StartSession(command, cols, rows)
	if err != nil {
		return nil, err
	}
	t.session = session

	t.vterm = NewVTerm(cols, rows,
		WithScrollback(scrollbackRows),
		WithReply(func(b []byte) {
			if err := session.Write(b); err != nil {
				log.Printf("Term: report write failed: %v", err)
			}
		}),
	)

	return t, nil
}

// Command returns the command line this Term is executing.
func (t *Term) Command() string { return t.command }

// VTerm exposes the screen model for rendering.
func (t *Term) VTerm() *VTerm { return t.vterm }

// Palette returns the color palette for this execution.
func (t *Term) Palette() *Palette { return t.palette }

// Title returns the child-set title, or the command line.
func (t *Term) Title() string {
	if title := t.vterm.Title(); title != "" {
		return title
	}
	return t.command
}

// Tick runs one poll cycle: drain pending output through the parser into
// the screen model, then poll the child status. Returns whether the screen
// changed. Never blocks.
func (t *Term) Tick() bool {
	changed := false

	for i := 0; i < maxChunksPerTick; i++ {
		data, open := t.session.ReadOutput()
		if !open {
			t.eof = true
			break
		}
		if data == nil {
			break
		}
		t.vterm.ApplyAll(t.parser.Feed(data))
		changed = true
	}

	if t.status == nil {
		if st, done := t.session.TryWait(); done {
			t.status = &st
			changed = true
			log.Printf("Term: %q finished: %s", t.command, st)
		}
	}

	if changed {
		if t.following {
			t.scrollOffset = 0
		} else if max := t.vterm.MaxScrollOffset(); t.scrollOffset > max {
			t.scrollOffset = max
		}
	}

	return changed
}

// Status reports the exit status once the child has finished.
func (t *Term) Status() (Status, bool) {
	if t.status == nil {
		return Status{}, false
	}
	return *t.status, true
}

// Running reports whether the child is still alive.
func (t *Term) Running() bool { return t.status == nil }

// SendKey encodes a key event under the current terminal modes and writes
// it to the child. Scrolling snaps back to follow mode on input, the way
// real terminals behave.
func (t *Term) SendKey(ev *tcell.EventKey) {
	data := EncodeKey(ev, t.vterm.Modes())
	if len(data) == 0 {
		return
	}
	t.ScrollToBottom()
	if err := t.session.Write(data); err != nil {
		log.Printf("Term: key write failed: %v", err)
	}
}

// Resize propagates new dimensions to the PTY and the screen model
// together so the child's and our notion of the screen stay consistent.
func (t *Term) Resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	t.vterm.Resize(cols, rows)
	if err := t.session.Resize(cols, rows); err != nil {
		log.Printf("Term: resize failed: %v", err)
	}
}

// ScrollUp moves the viewport n rows into scrollback and leaves follow mode.
func (t *Term) ScrollUp(n int) {
	max := t.vterm.MaxScrollOffset()
	t.scrollOffset = clamp(t.scrollOffset+n, 0, max)
	t.following = t.scrollOffset == 0
}

// ScrollDown moves the viewport n rows toward the live screen; reaching the
// bottom re-enters follow mode.
func (t *Term) ScrollDown(n int) {
	t.scrollOffset = clamp(t.scrollOffset-n, 0, t.vterm.MaxScrollOffset())
	if t.scrollOffset == 0 {
		t.following = true
	}
}

// ScrollToTop jumps to the oldest scrollback row.
func (t *Term) ScrollToTop() {
	t.scrollOffset = t.vterm.MaxScrollOffset()
	t.following = t.scrollOffset == 0
}

// ScrollToBottom returns to the live screen and follow mode.
func (t *Term) ScrollToBottom() {
	t.scrollOffset = 0
	t.following = true
}

// ScrollOffset returns the current viewport offset (0 = following).
func (t *Term) ScrollOffset() int { return t.scrollOffset }

// Following reports whether the viewport tracks the live bottom.
func (t *Term) Following() bool { return t.following }

// VisibleRows projects the viewport for rendering.
func (t *Term) VisibleRows(height int) [][]parser.Cell {
	return t.vterm.VisibleRows(height, t.scrollOffset)
}

// CursorPos returns the cursor position within the viewport of the given
// height, and whether it should be drawn (visible, following, child alive).
func (t *Term) CursorPos(height int) (int, int, bool) {
	if t.scrollOffset != 0 || !t.vterm.Modes().CursorVisible || !t.Running() {
		return 0, 0, false
	}
	x, y := t.vterm.Cursor()
	_, rows := t.vterm.Size()
	y += height - rows
	if y < 0 || y >= height {
		return 0, 0, false
	}
	return x, y, true
}

// Kill asks the child to terminate.
func (t *Term) Kill() {
	t.session.Kill()
}

// Close tears down the execution. Idempotent.
func (t *Term) Close() {
	if t.closed {
		return
	}
	t.closed = true
	t.session.Close()
}
