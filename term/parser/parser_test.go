// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/parser/parser_test.go
// Summary: Tests for the escape-sequence parser.
// Usage: Run with `go test` to validate chunking, parameters, and fallbacks.

package parser

import (
	"reflect"
	"testing"
)

// feedAll runs one Feed call and copies the results, since Feed reuses
// its return slice.
func feedAll(p *Parser, data []byte) []Action {
	out := p.Feed(data)
	cp := make([]Action, len(out))
	copy(cp, out)
	return cp
}

func TestPrintAndControls(t *testing.T) {
	p := NewParser()
	got := feedAll(p, []byte("a\r\nb"))

	want := []Action{
		{Kind: ActionPrint, Rune: 'a'},
		{Kind: ActionControl, Byte: '\r'},
		{Kind: ActionControl, Byte: '\n'},
		{Kind: ActionPrint, Rune: 'b'},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

// TestChunkBoundaryInvariance verifies that splitting input at every byte
// boundary yields the same action stream as a single feed.
func TestChunkBoundaryInvariance(t *testing.T) {
	input := []byte("\x1b[31mHi\x1b[0m")

	whole := feedAll(NewParser(), input)

	for split := 1; split < len(input); split++ {
		p := NewParser()
		var got []Action
		got = append(got, feedAll(p, input[:split])...)
		got = append(got, feedAll(p, input[split:])...)

		if !reflect.DeepEqual(got, whole) {
			t.Errorf("split at %d: got %+v, want %+v", split, got, whole)
		}
	}
}

func TestChunkedUTF8(t *testing.T) {
	input := []byte("é") // 0xC3 0xA9

	p := NewParser()
	if got := feedAll(p, input[:1]); len(got) != 0 {
		t.Fatalf("partial rune emitted actions: %+v", got)
	}
	got := feedAll(p, input[1:])
	want := []Action{{Kind: ActionPrint, Rune: 'é'}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCSIDefaults(t *testing.T) {
	cases := []struct {
		input string
		want  Action
	}{
		{"\x1b[A", Action{Kind: ActionCursorUp, N: 1}},
		{"\x1b[5B", Action{Kind: ActionCursorDown, N: 5}},
		{"\x1b[H", Action{Kind: ActionCursorTo, Row: 1, Col: 1}},
		{"\x1b[3;7H", Action{Kind: ActionCursorTo, Row: 3, Col: 7}},
		{"\x1b[;7H", Action{Kind: ActionCursorTo, Row: 1, Col: 7}},
		{"\x1b[J", Action{Kind: ActionEraseDisplay, N: 0}},
		{"\x1b[2J", Action{Kind: ActionEraseDisplay, N: 2}},
		{"\x1b[1K", Action{Kind: ActionEraseLine, N: 1}},
		{"\x1b[4d", Action{Kind: ActionCursorRow, N: 4}},
		{"\x1b[2;10r", Action{Kind: ActionScrollRegion, Row: 2, Col: 10}},
	}

	for _, tc := range cases {
		got := feedAll(NewParser(), []byte(tc.input))
		if len(got) != 1 || !reflect.DeepEqual(got[0], tc.want) {
			t.Errorf("%q: got %+v, want %+v", tc.input, got, tc.want)
		}
	}
}

func TestParamClamping(t *testing.T) {
	got := feedAll(NewParser(), []byte("\x1b[999999999A"))
	if len(got) != 1 || got[0].Kind != ActionCursorUp {
		t.Fatalf("got %+v", got)
	}
	if got[0].N > maxParamVal {
		t.Errorf("parameter not clamped: %d", got[0].N)
	}
}

func TestSGRParams(t *testing.T) {
	got := feedAll(NewParser(), []byte("\x1b[1;31m"))
	want := []Action{{Kind: ActionSetAttributes, Params: []int{1, 31}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	// Bare CSI m is SGR reset.
	got = feedAll(NewParser(), []byte("\x1b[m"))
	want = []Action{{Kind: ActionSetAttributes, Params: []int{0}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("bare m: got %+v, want %+v", got, want)
	}
}

func TestPrivateModes(t *testing.T) {
	got := feedAll(NewParser(), []byte("\x1b[?1h\x1b[?25l"))
	want := []Action{
		{Kind: ActionSetPrivateMode, N: 1, On: true},
		{Kind: ActionSetPrivateMode, N: 25, On: false},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestOSCTitle(t *testing.T) {
	// BEL-terminated.
	got := feedAll(NewParser(), []byte("\x1b]0;hello\x07"))
	want := []Action{{Kind: ActionSetTitle, Str: "hello"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BEL: got %+v, want %+v", got, want)
	}

	// ST-terminated.
	got = feedAll(NewParser(), []byte("\x1b]2;world\x1b\\"))
	want = []Action{{Kind: ActionSetTitle, Str: "world"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ST: got %+v, want %+v", got, want)
	}
}

func TestUnknownSequencesDoNotStall(t *testing.T) {
	// An unsupported CSI, a DCS payload, and a stray ESC sequence must all
	// leave the parser ready to print again.
	p := NewParser()
	feedAll(p, []byte("\x1b[4i"))
	feedAll(p, []byte("\x1bPq#0;1;2\x1b\\"))
	feedAll(p, []byte("\x1b%"))

	got := feedAll(p, []byte("x"))
	want := []Action{{Kind: ActionPrint, Rune: 'x'}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestEscLevelActions(t *testing.T) {
	got := feedAll(NewParser(), []byte("\x1b7\x1b8\x1bM\x1bD\x1bc"))
	kinds := []ActionKind{ActionSaveCursor, ActionRestoreCursor, ActionReverseIndex, ActionIndex, ActionFullReset}
	if len(got) != len(kinds) {
		t.Fatalf("got %d actions, want %d: %+v", len(got), len(kinds), got)
	}
	for i, k := range kinds {
		if got[i].Kind != k {
			t.Errorf("action %d: got kind %d, want %d", i, got[i].Kind, k)
		}
	}
}

func TestDSRReport(t *testing.T) {
	got := feedAll(NewParser(), []byte("\x1b[6n"))
	want := []Action{{Kind: ActionReport, N: 6}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
