// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/scrollback.go
// Summary: Bounded buffer of rows evicted off the top of the screen.

package term

import "termlaunch/term/parser"

// Scrollback stores rows scrolled off the top of the surface, oldest first.
// Insertion is append-only at the tail; once the configured bound is
// exceeded the oldest rows are evicted from the head. Only the terminal
// mutates it; the renderer reads windows of it.
type Scrollback struct {
	rows    [][]parser.Cell
	maxRows int
}

// DefaultScrollbackRows is used when no capacity is configured.
const DefaultScrollbackRows = 10000

// NewScrollback creates a scrollback bounded to maxRows rows.
func NewScrollback(maxRows int) *Scrollback {
	if maxRows <= 0 {
		maxRows = DefaultScrollbackRows
	}
	return &Scrollback{
		rows:    make([][]parser.Cell, 0, min(maxRows, 1024)),
		maxRows: maxRows,
	}
}

// Len returns the number of stored rows.
func (s *Scrollback) Len() int {
	return len(s.rows)
}

// MaxRows returns the configured bound.
func (s *Scrollback) MaxRows() int {
	return s.maxRows
}

// Push appends a row, taking ownership of the slice, and evicts from the
// head if the bound is exceeded. Eviction happens here, synchronously, so
// memory stays bounded no matter how fast the child produces output.
func (s *Scrollback) Push(row []parser.Cell) {
	s.rows = append(s.rows, row)
	if excess := len(s.rows) - s.maxRows; excess > 0 {
		copy(s.rows, s.rows[excess:])
		for i := len(s.rows) - excess; i < len(s.rows); i++ {
			s.rows[i] = nil
		}
		s.rows = s.rows[:len(s.rows)-excess]
	}
}

// Row returns the stored row at index i (0 = oldest), or nil if out of range.
func (s *Scrollback) Row(i int) []parser.Cell {
	if i < 0 || i >= len(s.rows) {
		return nil
	}
	return s.rows[i]
}

// Clear discards all stored rows.
func (s *Scrollback) Clear() {
	s.rows = s.rows[:0]
}
