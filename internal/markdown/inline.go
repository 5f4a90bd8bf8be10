// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import "strings"

// =============================================================================
// INLINE FORMATTER
// =============================================================================

const (
	codeDelim   = "`"
	boldDelim   = "**"
	italicDelim = "*"
)

// Format splits one block's text into inline spans.
//
// Markers are resolved in a fixed order: code runs first, then bold runs in
// the text between them, then italic runs in the text that is left. Content
// claimed by an earlier pass is never scanned again, so "**a *b* c**" is a
// single Bold span with literal asterisks inside. Empty text yields a single
// empty Text span; the result is never empty.
func Format(text string) []Span {
	var spans []Span

	splitDelimited(text, codeDelim, func(plain string) {
		splitDelimited(plain, boldDelim, func(plain string) {
			splitDelimited(plain, italicDelim, func(plain string) {
				spans = append(spans, Text(plain))
			}, func(content string) {
				spans = append(spans, Italic(content))
			})
		}, func(content string) {
			spans = append(spans, Bold(content))
		})
	}, func(content string) {
		spans = append(spans, Code(content))
	})

	if len(spans) == 0 {
		return []Span{Text(text)}
	}
	return spans
}

// splitDelimited scans s left to right for non-overlapping delim...delim runs
// with non-empty content. The closer is the first delim after the opener.
// plain receives every non-empty gap between runs and match receives each run's
// content, both in source order.
//
// When the closer immediately follows the opener the scan resumes one byte
// later, so "``a`" still finds "a". Once an opener has no closer nothing later
// can match either.
func splitDelimited(s, delim string, plain, match func(string)) {
	last, i := 0, 0
	for i < len(s) {
		j := strings.Index(s[i:], delim)
		if j < 0 {
			break
		}
		open := i + j
		body := open + len(delim)
		k := strings.Index(s[body:], delim)
		if k < 0 {
			break
		}
		if k == 0 {
			i = open + 1
			continue
		}
		if open > last {
			plain(s[last:open])
		}
		match(s[body : body+k])
		last = body + k + len(delim)
		i = last
	}
	if last < len(s) {
		plain(s[last:])
	}
}
