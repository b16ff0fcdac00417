// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: launcher/match.go
// Summary: Fuzzy subsequence scoring for entry filtering.

package launcher

import (
	"strings"
	"unicode"
)

// Scoring weights. Matches in the entry name beat matches in keywords,
// which beat matches in the comment.
const (
	scoreConsecutive  = 8
	scoreWordBoundary = 10
	scorePrefix       = 15
	scoreBase         = 1
	gapPenalty        = 1

	fieldWeightName    = 3
	fieldWeightKeyword = 2
	fieldWeightComment = 1
)

// MatchEntry scores how well query matches an entry across its fields.
// Returns (score, true) when every query rune appears in order in at least
// one field, (0, false) otherwise. Empty queries match everything.
func MatchEntry(query string, e *Entry) (int, bool) {
	if query == "" {
		return 0, true
	}

	best := -1
	if s, ok := matchField(query, e.Name); ok {
		best = s * fieldWeightName
	}
	if s, ok := matchField(query, e.GenericName); ok {
		if s *= fieldWeightKeyword; s > best {
			best = s
		}
	}
	for _, kw := range e.Keywords {
		if s, ok := matchField(query, kw); ok {
			if s *= fieldWeightKeyword; s > best {
				best = s
			}
		}
	}
	if s, ok := matchField(query, e.Comment); ok {
		if s *= fieldWeightComment; s > best {
			best = s
		}
	}

	if best < 0 {
		return 0, false
	}
	return best, true
}

// matchField runs the subsequence scan of query against one field.
// Case-insensitive. Consecutive runs, word boundaries and a match starting
// at the first rune all raise the score; gaps between matches lower it.
func matchField(query, field string) (int, bool) {
	if field == "" {
		return 0, false
	}
	q := []rune(strings.ToLower(query))
	f := []rune(strings.ToLower(field))

	score := 0
	qi := 0
	lastMatch := -1

	for fi := 0; fi < len(f) && qi < len(q); fi++ {
		if f[fi] != q[qi] {
			continue
		}

		score += scoreBase
		switch {
		case fi == 0:
			score += scorePrefix
		case lastMatch == fi-1:
			score += scoreConsecutive
		case isBoundary(f[fi-1]):
			score += scoreWordBoundary
		}
		if lastMatch >= 0 && fi > lastMatch+1 {
			score -= (fi - lastMatch - 1) * gapPenalty
		}

		lastMatch = fi
		qi++
	}

	if qi < len(q) {
		return 0, false
	}
	if score < 1 {
		score = 1
	}
	return score, true
}

func isBoundary(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '_' || r == '.' || r == '/'
}
