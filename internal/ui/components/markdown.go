// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/gaia-tui/internal/markdown"
	"github.com/jeranaias/gaia-tui/internal/ui/styles"
)

// =============================================================================
// RENDER OPTIONS
// =============================================================================

// ListNumbering selects which ordinal an ordered list item displays.
type ListNumbering string

const (
	// NumberByPosition shows the item's index in the whole block sequence
	// plus one, so "1. a\n\ntext\n\n2. b" shows 1 and 3.
	NumberByPosition ListNumbering = "position"

	// NumberSequential counts 1, 2, 3 within each run of adjacent ordered
	// items.
	NumberSequential ListNumbering = "sequential"

	// NumberFromSource shows the numeral written in the source text.
	NumberFromSource ListNumbering = "source"
)

// ParseListNumbering returns the mode named s, or NumberByPosition and false.
func ParseListNumbering(s string) (ListNumbering, bool) {
	switch ListNumbering(strings.ToLower(strings.TrimSpace(s))) {
	case NumberByPosition, "":
		return NumberByPosition, true
	case NumberSequential:
		return NumberSequential, true
	case NumberFromSource:
		return NumberFromSource, true
	}
	return NumberByPosition, false
}

// RenderOptions carry everything presentation needs that the parser does not.
type RenderOptions struct {
	Palette styles.Palette

	// IsUser selects the inline code tint used inside user bubbles.
	IsUser bool

	// Width is the wrap width in columns. Zero or less disables wrapping.
	Width int

	ListNumbering ListNumbering

	// Highlight runs code blocks through chroma.
	Highlight bool
}

// =============================================================================
// BLOCK RENDERING
// =============================================================================

const bulletMarker = "• "

// RenderMarkdown segments text and renders the resulting blocks.
func RenderMarkdown(text string, opts RenderOptions) string {
	return RenderBlocks(markdown.Segment(text), opts)
}

// RenderBlocks renders blocks top to bottom. Adjacent list items sit on
// consecutive lines; every other pair of blocks is separated by a blank line.
func RenderBlocks(blocks []markdown.Block, opts RenderOptions) string {
	if len(blocks) == 0 {
		return ""
	}

	st := styles.NewMarkdownStyles(opts.Palette, opts.IsUser)
	ordinals := Ordinals(blocks, opts.ListNumbering)

	var sb strings.Builder
	for i, block := range blocks {
		if i > 0 {
			_, prevItem := blocks[i-1].(markdown.ListItem)
			_, curItem := block.(markdown.ListItem)
			if prevItem && curItem {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		sb.WriteString(renderBlock(block, ordinals[i], st, opts))
	}
	return sb.String()
}

func renderBlock(block markdown.Block, ordinal int, st styles.MarkdownStyles, opts RenderOptions) string {
	switch b := block.(type) {
	case markdown.Heading:
		base := st.H3
		switch b.Level {
		case 1:
			base = st.H1
		case 2:
			base = st.H2
		}
		return strings.Join(layoutSpans(markdown.Format(b.Text), base, st, opts.Width), "\n")

	case markdown.Paragraph:
		return strings.Join(layoutSpans(markdown.Format(b.Text), st.Paragraph, st, opts.Width), "\n")

	case markdown.ListItem:
		marker := bulletMarker
		if b.Ordered {
			marker = strconv.Itoa(ordinal) + ". "
		}
		return renderListItem(marker, b.Text, st, opts.Width)

	case markdown.CodeBlock:
		cb := NewCodeBlock(b.Language, b.Text)
		cb.Width = opts.Width
		cb.Highlight = opts.Highlight
		cb.Styles = st
		return cb.Render()
	}
	return ""
}

// renderListItem draws the marker and hangs continuation lines under the
// first character of the item text.
func renderListItem(marker, text string, st styles.MarkdownStyles, width int) string {
	markerWidth := runewidth.StringWidth(marker)
	inner := width - markerWidth
	if width > 0 && inner < 1 {
		inner = 1
	}
	if width <= 0 {
		inner = 0
	}

	lines := layoutSpans(markdown.Format(text), st.Paragraph, st, inner)
	indent := strings.Repeat(" ", markerWidth)

	var sb strings.Builder
	for i, line := range lines {
		if i == 0 {
			sb.WriteString(st.Marker.Render(marker))
		} else {
			sb.WriteString("\n")
			sb.WriteString(indent)
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// Ordinals returns, for each block, the number an ordered list item shows
// under mode. Entries for other blocks are zero.
func Ordinals(blocks []markdown.Block, mode ListNumbering) []int {
	out := make([]int, len(blocks))
	run := 0
	for i, block := range blocks {
		item, ok := block.(markdown.ListItem)
		if !ok || !item.Ordered {
			run = 0
			continue
		}
		run++
		switch mode {
		case NumberSequential:
			out[i] = run
		case NumberFromSource:
			out[i] = item.Number
		default:
			out[i] = i + 1
		}
	}
	return out
}

// =============================================================================
// SPAN LAYOUT
// =============================================================================

// run is a piece of text drawn with one style.
type run struct {
	text  string
	style lipgloss.Style
	code  bool
}

// word is a sequence of runs with no whitespace between them. Wrapping only
// happens between words.
type word struct {
	runs  []run
	width int
}

func (w *word) add(r run) {
	if r.text == "" {
		return
	}
	w.runs = append(w.runs, r)
	w.width += runWidth(r)
}

func runWidth(r run) int {
	w := runewidth.StringWidth(r.text)
	if r.code {
		w += 2 // InlineCode padding
	}
	return w
}

func (w word) render() string {
	var sb strings.Builder
	for _, r := range w.runs {
		sb.WriteString(r.style.Render(r.text))
	}
	return sb.String()
}

// spanStyle maps a span to its style on top of base.
func spanStyle(span markdown.Span, base lipgloss.Style, st styles.MarkdownStyles) (lipgloss.Style, bool) {
	switch span.(type) {
	case markdown.Code:
		return st.InlineCode.Inherit(base), true
	case markdown.Bold:
		return st.Bold.Inherit(base), false
	case markdown.Italic:
		return st.Italic.Inherit(base), false
	}
	return base, false
}

// splitWords breaks spans into source lines of words. Embedded newlines end a
// line; whitespace separates words. Code spans keep their inner spaces.
func splitWords(spans []markdown.Span, base lipgloss.Style, st styles.MarkdownStyles) [][]word {
	lines := [][]word{nil}
	var cur word

	flush := func() {
		if len(cur.runs) > 0 {
			lines[len(lines)-1] = append(lines[len(lines)-1], cur)
		}
		cur = word{}
	}

	for _, span := range spans {
		style, code := spanStyle(span, base, st)
		parts := strings.Split(span.Content(), "\n")
		for pi, part := range parts {
			if pi > 0 {
				flush()
				lines = append(lines, nil)
			}
			if code {
				cur.add(run{text: part, style: style, code: true})
				continue
			}

			start := -1
			for i, r := range part {
				if r == ' ' || r == '\t' || r == '\r' {
					if start >= 0 {
						cur.add(run{text: part[start:i], style: style})
						start = -1
					}
					flush()
					continue
				}
				if start < 0 {
					start = i
				}
			}
			if start >= 0 {
				cur.add(run{text: part[start:], style: style})
			}
		}
	}
	flush()
	return lines
}

// layoutSpans renders spans as lines no wider than width columns (when
// width > 0). Words wider than a line are broken between runes.
func layoutSpans(spans []markdown.Span, base lipgloss.Style, st styles.MarkdownStyles, width int) []string {
	var out []string
	for _, words := range splitWords(spans, base, st) {
		out = append(out, wrapWords(words, width)...)
	}
	return out
}

func wrapWords(words []word, width int) []string {
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var sb strings.Builder
	lineWidth := 0

	newLine := func() {
		lines = append(lines, sb.String())
		sb.Reset()
		lineWidth = 0
	}

	for _, w := range words {
		if width <= 0 || lineWidth+w.width+boolInt(lineWidth > 0) <= width {
			if lineWidth > 0 {
				sb.WriteString(" ")
				lineWidth++
			}
			sb.WriteString(w.render())
			lineWidth += w.width
			continue
		}

		if lineWidth > 0 {
			newLine()
		}
		if w.width <= width {
			sb.WriteString(w.render())
			lineWidth = w.width
			continue
		}

		// PERFORMANCE: over-wide words are rare; break them rune by rune.
		for _, r := range w.runs {
			pad := 0
			if r.code {
				pad = 2
			}
			var chunk strings.Builder
			chunkWidth := 0
			emit := func() {
				if chunk.Len() == 0 {
					return
				}
				sb.WriteString(r.style.Render(chunk.String()))
				lineWidth += chunkWidth + pad
				chunk.Reset()
				chunkWidth = 0
			}
			for _, c := range r.text {
				cw := runewidth.RuneWidth(c)
				if lineWidth+pad+chunkWidth+cw > width && (chunkWidth > 0 || lineWidth > 0) {
					emit()
					newLine()
				}
				chunk.WriteRune(c)
				chunkWidth += cw
			}
			emit()
		}
	}
	lines = append(lines, sb.String())
	return lines
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
