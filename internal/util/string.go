// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// UNICODE: All width math goes through go-runewidth so double-width runes
// count as two columns and strings are never cut inside a rune.

// StringWidth returns the display width of s in terminal columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateWidth cuts s to at most maxWidth columns, ending in "..." when
// something was removed and there is room for it.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// SplitWidth breaks s into consecutive pieces no wider than width columns.
// A single rune wider than width gets a piece of its own.
func SplitWidth(s string, width int) []string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return []string{s}
	}

	var parts []string
	var cur strings.Builder
	curWidth := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if curWidth+rw > width && curWidth > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
			curWidth = 0
		}
		cur.WriteRune(r)
		curWidth += rw
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

// NormalizeInput converts user input to NFC so composed and decomposed forms
// of the same text are stored and sent identically.
func NormalizeInput(s string) string {
	return norm.NFC.String(s)
}

// Summarize collapses whitespace in s and truncates it to maxWidth columns.
// It is used for conversation titles and list views.
func Summarize(s string, maxWidth int) string {
	return TruncateWidth(strings.Join(strings.Fields(s), " "), maxWidth)
}
