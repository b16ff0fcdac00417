// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/vterm_modes.go
// Summary: DEC private mode handling, including the alternate screen.

package term

// setPrivateMode toggles a DEC private mode (CSI ? N h / l). Unrecognized
// mode numbers are ignored.
func (v *VTerm) setPrivateMode(mode int, on bool) {
	switch mode {
	case 1:
		v.appCursorKeys = on
	case 7:
		v.autoWrap = on
	case 25:
		v.cursorVisible = on
	case 47, 1047:
		v.setAltScreen(on, false)
	case 1049:
		v.setAltScreen(on, true)
	case 1000, 1002, 1003:
		v.mouseReporting = on
	case 6, 12, 1004, 1005, 1006, 2004:
		// Origin mode, cursor blink, focus reporting, mouse encodings and
		// bracketed paste: recognized, intentionally not implemented.
	}
}

// setAltScreen switches between the primary and alternate screen buffers.
// The alternate screen starts blank and contributes nothing to scrollback;
// leaving it restores the primary grid (and cursor, for mode 1049) exactly
// as it was. Re-entering while already active is a no-op.
func (v *VTerm) setAltScreen(on, saveCursor bool) {
	if on == v.altActive {
		return
	}

	if on {
		v.savedPrimary = v.grid
		v.savedPrimaryX, v.savedPrimaryY = v.cursorX, v.cursorY
		if saveCursor {
			v.saveCursor()
		}
		v.grid = newGrid(v.cols, v.rows)
		v.cursorX, v.cursorY = 0, 0
		v.wrapNext = false
		v.altActive = true
		return
	}

	if v.savedPrimary != nil {
		v.grid = v.savedPrimary
		v.savedPrimary = nil
		v.cursorX = clamp(v.savedPrimaryX, 0, v.cols-1)
		v.cursorY = clamp(v.savedPrimaryY, 0, v.rows-1)
	}
	if saveCursor {
		v.restoreCursor()
	}
	v.wrapNext = false
	v.altActive = false
}
