// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gaia-tui/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// minCodeWidth keeps very narrow bubbles from collapsing the box.
const minCodeWidth = 12

// CodeBlock is a fenced code block ready for display.
type CodeBlock struct {
	Language string
	Code     string

	// Width caps the box, border included. Zero leaves it unbounded.
	Width int

	Highlight bool
	Styles    styles.MarkdownStyles
}

// NewCodeBlock creates a code block with neutral styles.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language: language,
		Code:     code,
		Styles:   styles.NewMarkdownStyles(styles.NeutralPalette, false),
	}
}

// Render draws the language badge (when known) above a bordered box holding
// the code. The code text is shown as written; lines that do not fit are cut
// at the box edge.
func (c CodeBlock) Render() string {
	code := c.Code
	if c.Highlight {
		code = highlightCode(code, c.Language)
	}

	box := c.Styles.CodeBox
	if c.Width > 0 {
		w := c.Width
		if w < minCodeWidth {
			w = minCodeWidth
		}
		box = box.MaxWidth(w)
	}
	body := box.Render(code)

	if c.Language == "" {
		return body
	}
	badge := c.Styles.CodeBadge.Render(c.Language)
	return lipgloss.JoinVertical(lipgloss.Left, badge, body)
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// highlightCode colours code for a 256-colour terminal. An unknown language
// falls back to content analysis and then to plain text; any chroma failure
// returns the input unchanged.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	// Drop a trailing newline the formatter adds to the last token.
	out := buf.String()
	if !strings.HasSuffix(code, "\n") {
		out = strings.TrimSuffix(out, "\n")
	}
	return out
}
