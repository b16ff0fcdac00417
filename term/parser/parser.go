// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/parser/parser.go
// Summary: Byte-oriented VT100/ANSI stream parser emitting discrete actions.
//
// The parser is resumable: Feed may be called with arbitrary chunk
// boundaries, including splits in the middle of escape sequences or UTF-8
// runes, and produces the same action stream as one call with the
// concatenated bytes. Unrecognized sequences become ActionUnknown and are
// never an error.

package parser

import (
	"bytes"
	"unicode/utf8"
)

type state int

const (
	stateGround state = iota
	stateEscape
	stateCSI
	stateOSC
	stateDCS
	stateCharset
)

const (
	maxParams    = 16
	maxParamVal  = 9999
	maxOSCLength = 2048
)

// Parser converts a PTY byte stream into a sequence of Actions.
type Parser struct {
	state    state
	params   []int
	curParam int
	private  bool
	interm   bool
	prefix   byte // '>' or '=' CSI prefix, unsupported queries

	oscBuf []byte
	strEsc bool // saw ESC inside an OSC/DCS string, awaiting ST

	utf8Buf  [4]byte
	utf8Len  int
	utf8Need int

	actions []Action
}

// NewParser creates a parser in the ground state.
func NewParser() *Parser {
	return &Parser{
		params:  make([]int, 0, maxParams),
		oscBuf:  make([]byte, 0, 128),
		actions: make([]Action, 0, 64),
	}
}

// Feed processes a chunk of bytes and returns the actions it completed.
// The returned slice is reused by the next Feed call; consume it first.
func (p *Parser) Feed(data []byte) []Action {
	p.actions = p.actions[:0]
	for _, b := range data {
		p.processByte(b)
	}
	return p.actions
}

func (p *Parser) emit(a Action) {
	p.actions = append(p.actions, a)
}

func (p *Parser) processByte(b byte) {
	switch p.state {
	case stateGround:
		p.processGround(b)
	case stateEscape:
		p.processEscape(b)
	case stateCSI:
		p.processCSI(b)
	case stateOSC:
		p.processString(b, true)
	case stateDCS:
		p.processString(b, false)
	case stateCharset:
		// Charset designation byte, e.g. ESC ( B. Consumed and ignored.
		p.state = stateGround
	}
}

func (p *Parser) processGround(b byte) {
	if p.utf8Need > 0 {
		if b&0xC0 == 0x80 {
			p.utf8Buf[p.utf8Len] = b
			p.utf8Len++
			if p.utf8Len == p.utf8Need {
				r, _ := utf8.DecodeRune(p.utf8Buf[:p.utf8Len])
				p.utf8Need = 0
				p.utf8Len = 0
				p.emit(Action{Kind: ActionPrint, Rune: r})
			}
			return
		}
		// Truncated rune; drop it and reprocess the interrupting byte.
		p.utf8Need = 0
		p.utf8Len = 0
	}

	switch {
	case b == 0x1b:
		p.state = stateEscape
	case b < 0x20:
		switch b {
		case 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d:
			p.emit(Action{Kind: ActionControl, Byte: b})
		default:
			// NUL and other C0 codes are ignored.
		}
	case b == 0x7f:
		// DEL is ignored in the output stream.
	case b < 0x80:
		p.emit(Action{Kind: ActionPrint, Rune: rune(b)})
	default:
		switch {
		case b&0xE0 == 0xC0:
			p.utf8Need = 2
		case b&0xF0 == 0xE0:
			p.utf8Need = 3
		case b&0xF8 == 0xF0:
			p.utf8Need = 4
		default:
			// Stray continuation byte; drop it.
			return
		}
		p.utf8Buf[0] = b
		p.utf8Len = 1
	}
}

func (p *Parser) processEscape(b byte) {
	switch b {
	case '[':
		p.state = stateCSI
		p.params = p.params[:0]
		p.curParam = 0
		p.private = false
		p.interm = false
		p.prefix = 0
	case ']':
		p.state = stateOSC
		p.oscBuf = p.oscBuf[:0]
		p.strEsc = false
	case 'P':
		p.state = stateDCS
		p.strEsc = false
	case '(', ')':
		p.state = stateCharset
	case '7':
		p.state = stateGround
		p.emit(Action{Kind: ActionSaveCursor})
	case '8':
		p.state = stateGround
		p.emit(Action{Kind: ActionRestoreCursor})
	case 'D':
		p.state = stateGround
		p.emit(Action{Kind: ActionIndex})
	case 'M':
		p.state = stateGround
		p.emit(Action{Kind: ActionReverseIndex})
	case 'E':
		p.state = stateGround
		p.emit(Action{Kind: ActionNextLine})
	case 'c':
		p.state = stateGround
		p.emit(Action{Kind: ActionFullReset})
	case '=', '>':
		// Keypad application/numeric mode. No effect on the screen model.
		p.state = stateGround
	case 0x1b:
		// Restart: ESC ESC begins a fresh sequence.
	default:
		p.state = stateGround
		p.emit(Action{Kind: ActionUnknown, Str: "\x1b" + string(rune(b))})
	}
}

func (p *Parser) processCSI(b byte) {
	switch {
	case b >= '0' && b <= '9':
		if p.curParam < maxParamVal {
			p.curParam = p.curParam*10 + int(b-'0')
			if p.curParam > maxParamVal {
				p.curParam = maxParamVal
			}
		}
	case b == ';':
		if len(p.params) < maxParams {
			p.params = append(p.params, p.curParam)
		}
		p.curParam = 0
	case b == '?':
		p.private = true
	case b == '>', b == '<', b == '=':
		p.prefix = b
	case b >= 0x20 && b <= 0x2f:
		p.interm = true
	case b >= '@' && b <= '~':
		if len(p.params) < maxParams {
			p.params = append(p.params, p.curParam)
		}
		p.dispatchCSI(b)
		p.state = stateGround
	case b == 0x18, b == 0x1a:
		// CAN/SUB abort the sequence.
		p.state = stateGround
	case b == 0x1b:
		p.state = stateEscape
	default:
		// C0 controls execute even inside a CSI sequence.
		if b < 0x20 {
			p.processGround(b)
		}
	}
}

// arg returns parameter i, substituting def when it is missing or zero,
// per the VT100 default-parameter convention.
func (p *Parser) arg(i, def int) int {
	if i < len(p.params) && p.params[i] != 0 {
		return p.params[i]
	}
	return def
}

func (p *Parser) dispatchCSI(final byte) {
	if p.interm || p.prefix != 0 {
		p.emit(Action{Kind: ActionUnknown})
		return
	}

	if p.private {
		switch final {
		case 'h', 'l':
			on := final == 'h'
			for _, mode := range p.params {
				if mode != 0 {
					p.emit(Action{Kind: ActionSetPrivateMode, N: mode, On: on})
				}
			}
		default:
			p.emit(Action{Kind: ActionUnknown})
		}
		return
	}

	switch final {
	case 'A':
		p.emit(Action{Kind: ActionCursorUp, N: p.arg(0, 1)})
	case 'B':
		p.emit(Action{Kind: ActionCursorDown, N: p.arg(0, 1)})
	case 'C':
		p.emit(Action{Kind: ActionCursorForward, N: p.arg(0, 1)})
	case 'D':
		p.emit(Action{Kind: ActionCursorBack, N: p.arg(0, 1)})
	case 'E':
		p.emit(Action{Kind: ActionCursorNextLine, N: p.arg(0, 1)})
	case 'F':
		p.emit(Action{Kind: ActionCursorPrevLine, N: p.arg(0, 1)})
	case 'G', '`':
		p.emit(Action{Kind: ActionCursorColumn, N: p.arg(0, 1)})
	case 'H', 'f':
		p.emit(Action{Kind: ActionCursorTo, Row: p.arg(0, 1), Col: p.arg(1, 1)})
	case 'J':
		p.emit(Action{Kind: ActionEraseDisplay, N: p.arg(0, 0)})
	case 'K':
		p.emit(Action{Kind: ActionEraseLine, N: p.arg(0, 0)})
	case 'L':
		p.emit(Action{Kind: ActionInsertLines, N: p.arg(0, 1)})
	case 'M':
		p.emit(Action{Kind: ActionDeleteLines, N: p.arg(0, 1)})
	case '@':
		p.emit(Action{Kind: ActionInsertChars, N: p.arg(0, 1)})
	case 'P':
		p.emit(Action{Kind: ActionDeleteChars, N: p.arg(0, 1)})
	case 'S':
		p.emit(Action{Kind: ActionScrollUp, N: p.arg(0, 1)})
	case 'T':
		p.emit(Action{Kind: ActionScrollDown, N: p.arg(0, 1)})
	case 'X':
		p.emit(Action{Kind: ActionEraseChars, N: p.arg(0, 1)})
	case 'd':
		p.emit(Action{Kind: ActionCursorRow, N: p.arg(0, 1)})
	case 'm':
		params := make([]int, len(p.params))
		copy(params, p.params)
		if len(params) == 0 {
			params = []int{0}
		}
		p.emit(Action{Kind: ActionSetAttributes, Params: params})
	case 'n':
		if p.arg(0, 0) == 6 {
			p.emit(Action{Kind: ActionReport, N: 6})
		} else {
			p.emit(Action{Kind: ActionUnknown})
		}
	case 'r':
		p.emit(Action{Kind: ActionScrollRegion, Row: p.arg(0, 0), Col: p.arg(1, 0)})
	case 's':
		p.emit(Action{Kind: ActionSaveCursor})
	case 'u':
		p.emit(Action{Kind: ActionRestoreCursor})
	case 'g':
		p.emit(Action{Kind: ActionTabClear, N: p.arg(0, 0)})
	default:
		p.emit(Action{Kind: ActionUnknown})
	}
}

// processString accumulates OSC and DCS strings until BEL or ST (ESC \).
// DCS payloads are consumed and discarded.
func (p *Parser) processString(b byte, isOSC bool) {
	if p.strEsc {
		p.strEsc = false
		if b == '\\' {
			if isOSC {
				p.handleOSC()
			}
			p.state = stateGround
			return
		}
		// The ESC began a new sequence; the string is abandoned.
		p.state = stateEscape
		p.processEscape(b)
		return
	}

	switch b {
	case 0x07:
		if isOSC {
			p.handleOSC()
		}
		p.state = stateGround
	case 0x1b:
		p.strEsc = true
	default:
		if isOSC && len(p.oscBuf) < maxOSCLength {
			p.oscBuf = append(p.oscBuf, b)
		}
	}
}

// handleOSC processes an Operating System Command.
func (p *Parser) handleOSC() {
	parts := bytes.SplitN(p.oscBuf, []byte{';'}, 2)
	if len(parts) != 2 {
		return
	}

	// ESC ] 0 ; <title> BEL sets the window title (2 sets title only).
	switch string(parts[0]) {
	case "0", "2":
		p.emit(Action{Kind: ActionSetTitle, Str: string(parts[1])})
	default:
		p.emit(Action{Kind: ActionUnknown, Str: string(p.oscBuf)})
	}
}
