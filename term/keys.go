// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/keys.go
// Summary: Encodes key events into the byte sequences the child expects.

package term

import "github.com/gdamore/tcell/v2"

// arrowFinals maps arrow keys to their VT final byte.
var arrowFinals = map[tcell.Key]byte{
	tcell.KeyUp:    'A',
	tcell.KeyDown:  'B',
	tcell.KeyRight: 'C',
	tcell.KeyLeft:  'D',
}

// EncodeKey translates a key event into the bytes to write to the PTY,
// consulting the terminal's mode flags: arrow keys switch between CSI and
// SS3 sequences under application cursor keys mode. Deterministic for
// identical inputs. Unmappable keys encode to nil and are dropped.
//
// Keys the host application reserves for itself never reach this function;
// that interception happens at the event-dispatch layer.
func EncodeKey(ev *tcell.EventKey, modes ModeFlags) []byte {
	key := ev.Key()

	if final, ok := arrowFinals[key]; ok {
		if modes.AppCursorKeys {
			return []byte{0x1b, 'O', final}
		}
		return []byte{0x1b, '[', final}
	}

	switch key {
	case tcell.KeyRune:
		r := ev.Rune()
		if r == 0 {
			return nil
		}
		b := []byte(string(r))
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return append([]byte{0x1b}, b...)
		}
		return b

	case tcell.KeyEnter:
		return []byte{'\r'}
	case tcell.KeyTab:
		return []byte{'\t'}
	case tcell.KeyBacktab:
		return []byte("\x1b[Z")
	case tcell.KeyEsc:
		return []byte{0x1b}
	case tcell.KeyBackspace:
		return []byte{0x08}
	case tcell.KeyBackspace2:
		return []byte{0x7f}

	case tcell.KeyHome:
		return []byte("\x1b[H")
	case tcell.KeyEnd:
		return []byte("\x1b[F")
	case tcell.KeyInsert:
		return []byte("\x1b[2~")
	case tcell.KeyDelete:
		return []byte("\x1b[3~")
	case tcell.KeyPgUp:
		return []byte("\x1b[5~")
	case tcell.KeyPgDn:
		return []byte("\x1b[6~")

	case tcell.KeyF1:
		return []byte("\x1bOP")
	case tcell.KeyF2:
		return []byte("\x1bOQ")
	case tcell.KeyF3:
		return []byte("\x1bOR")
	case tcell.KeyF4:
		return []byte("\x1bOS")
	case tcell.KeyF5:
		return []byte("\x1b[15~")
	case tcell.KeyF6:
		return []byte("\x1b[17~")
	case tcell.KeyF7:
		return []byte("\x1b[18~")
	case tcell.KeyF8:
		return []byte("\x1b[19~")
	case tcell.KeyF9:
		return []byte("\x1b[20~")
	case tcell.KeyF10:
		return []byte("\x1b[21~")
	case tcell.KeyF11:
		return []byte("\x1b[23~")
	case tcell.KeyF12:
		return []byte("\x1b[24~")
	}

	// Ctrl-A .. Ctrl-Z and friends arrive as the control codes themselves
	// (tcell.KeyCtrlA == 0x01). Tab, Enter and Esc were handled above.
	if key > 0 && key < 0x20 {
		return []byte{byte(key)}
	}

	return nil
}
