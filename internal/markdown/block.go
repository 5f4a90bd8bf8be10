// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

// =============================================================================
// BLOCK TYPES
// =============================================================================

// Block is one top-level element of a segmented document.
// It is implemented by Heading, Paragraph, CodeBlock and ListItem only.
type Block interface {
	blockNode()
}

// Heading is a "#", "##" or "###" line. Level is 1, 2 or 3.
type Heading struct {
	Level int
	Text  string
}

// Paragraph is a run of consecutive plain lines. Text keeps the line breaks.
type Paragraph struct {
	Text string
}

// CodeBlock is the verbatim content of a fenced region.
// Language is the tag after the opening fence and may be empty.
type CodeBlock struct {
	Text     string
	Language string
}

// ListItem is a single bulleted or numbered line.
// Number holds the numeral written in the source for ordered items and is 0
// for unordered items.
type ListItem struct {
	Text    string
	Ordered bool
	Number  int
}

func (Heading) blockNode()   {}
func (Paragraph) blockNode() {}
func (CodeBlock) blockNode() {}
func (ListItem) blockNode()  {}

// =============================================================================
// SPAN TYPES
// =============================================================================

// Span is one inline run of a block's text.
// It is implemented by Text, Code, Bold and Italic only. Spans never nest.
type Span interface {
	// Content returns the text carried by the span without delimiters.
	Content() string
	spanNode()
}

// Text is unformatted text.
type Text string

// Code is the content of a `backtick` run.
type Code string

// Bold is the content of a **double star** run.
type Bold string

// Italic is the content of a *single star* run.
type Italic string

func (t Text) Content() string   { return string(t) }
func (c Code) Content() string   { return string(c) }
func (b Bold) Content() string   { return string(b) }
func (i Italic) Content() string { return string(i) }

func (Text) spanNode()   {}
func (Code) spanNode()   {}
func (Bold) spanNode()   {}
func (Italic) spanNode() {}

// PlainText joins the content of spans, dropping all formatting.
func PlainText(spans []Span) string {
	n := 0
	for _, s := range spans {
		n += len(s.Content())
	}
	buf := make([]byte, 0, n)
	for _, s := range spans {
		buf = append(buf, s.Content()...)
	}
	return string(buf)
}
