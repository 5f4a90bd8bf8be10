// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown turns assistant replies into a small, structured document
// tree that the display layer can style.
//
// Parsing happens in two stages. Segment splits raw text into blocks
// (headings, paragraphs, fenced code and list items) in a single forward scan
// over lines. Format then splits the text of one block into inline spans
// (text, code, bold and italic) in three strictly ordered passes.
//
// # Supported Subset
//
//   - "# ", "## ", "### " headings at the very start of a line
//   - ``` fences with an optional language tag
//   - "- ", "* ", "+ " unordered items and "1. " ordered items
//   - `code`, **bold** and *italic* inline runs, never nested
//
// Anything else is plain text. Neither function can fail; malformed input
// degrades to text and an unterminated fence is dropped.
//
// # Usage
//
//	for _, b := range markdown.Segment(reply) {
//	    switch blk := b.(type) {
//	    case markdown.Heading:
//	        spans := markdown.Format(blk.Text)
//	        ...
//	    case markdown.CodeBlock:
//	        ...
//	    }
//	}
//
// Both functions are pure and safe for concurrent use.
package markdown
