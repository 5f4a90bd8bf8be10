// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// =============================================================================
// BLOCK SEGMENTER
// =============================================================================

const fence = "```"

// headingPrefixes is ordered longest first so "### " is never read as "# ".
var headingPrefixes = [...]struct {
	prefix string
	level  int
}{
	{"### ", 3},
	{"## ", 2},
	{"# ", 1},
}

// segmenter holds the scan state for one call to Segment.
type segmenter struct {
	blocks    []Block
	paragraph []string

	inFence  bool
	code     []string
	language string
}

// Segment splits text into top-level blocks in a single pass over its lines.
//
// Fence lines toggle code mode and win over every other rule. Outside a fence,
// headings are matched on the raw line while list markers, fences and blank
// lines are matched on the trimmed line. All other lines accumulate into a
// paragraph. A fence that is still open at the end of input is dropped along
// with its content. Empty input yields no blocks.
func Segment(text string) []Block {
	s := &segmenter{}
	for _, line := range strings.Split(text, "\n") {
		s.line(line)
	}
	s.flush()
	return s.blocks
}

func (s *segmenter) line(line string) {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, fence) {
		if !s.inFence {
			s.flush()
			s.inFence = true
			s.language = strings.TrimSpace(trimmed[len(fence):])
			s.code = s.code[:0]
			return
		}
		s.blocks = append(s.blocks, CodeBlock{
			Text:     strings.Join(s.code, "\n"),
			Language: s.language,
		})
		s.inFence = false
		s.code = s.code[:0]
		s.language = ""
		return
	}

	if s.inFence {
		s.code = append(s.code, line)
		return
	}

	for _, h := range headingPrefixes {
		if strings.HasPrefix(line, h.prefix) {
			s.flush()
			s.blocks = append(s.blocks, Heading{Level: h.level, Text: line[len(h.prefix):]})
			return
		}
	}

	if rest, ok := bulletItem(trimmed); ok {
		s.flush()
		s.blocks = append(s.blocks, ListItem{Text: rest})
		return
	}

	if n, rest, ok := numberedItem(trimmed); ok {
		s.flush()
		s.blocks = append(s.blocks, ListItem{Text: rest, Ordered: true, Number: n})
		return
	}

	if trimmed == "" {
		s.flush()
		return
	}

	s.paragraph = append(s.paragraph, line)
}

// flush emits the pending paragraph, if any.
func (s *segmenter) flush() {
	if len(s.paragraph) == 0 {
		return
	}
	s.blocks = append(s.blocks, Paragraph{Text: strings.Join(s.paragraph, "\n")})
	s.paragraph = s.paragraph[:0]
}

// bulletItem matches "-", "*" or "+" followed by one whitespace rune and
// returns the text after that rune.
func bulletItem(trimmed string) (string, bool) {
	if trimmed == "" {
		return "", false
	}
	switch trimmed[0] {
	case '-', '*', '+':
		return afterSpace(trimmed, 1)
	}
	return "", false
}

// numberedItem matches one or more ASCII digits, a dot and one whitespace
// rune. The numeral is reported as 0 when it does not fit in an int.
func numberedItem(trimmed string) (int, string, bool) {
	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(trimmed) || trimmed[i] != '.' {
		return 0, "", false
	}
	rest, ok := afterSpace(trimmed, i+1)
	if !ok {
		return 0, "", false
	}
	n, err := strconv.Atoi(trimmed[:i])
	if err != nil {
		n = 0
	}
	return n, rest, true
}

// afterSpace reports whether the rune at byte offset i is whitespace and
// returns everything after it.
func afterSpace(s string, i int) (string, bool) {
	if i >= len(s) {
		return "", false
	}
	r, size := utf8.DecodeRuneInString(s[i:])
	if !unicode.IsSpace(r) {
		return "", false
	}
	return s[i+size:], true
}
