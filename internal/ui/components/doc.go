// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components draws the chat screen.

# Markdown

RenderMarkdown turns message text into styled terminal lines. Text is split
into blocks by markdown.Segment and each heading, paragraph and list item is
run through markdown.Format once. Code blocks are boxed and optionally
highlighted with Chroma. Everything the renderer needs beyond the text
travels in RenderOptions:

	out := components.RenderMarkdown(msg.Text, components.RenderOptions{
	    Palette:       styles.PaletteFor("Agreeable"),
	    Width:         60,
	    ListNumbering: components.NumberSequential,
	})

# Chat Elements

MessageList (message.go) - user and assistant bubbles with timestamps.
Typing, Header, Footer (message.go) - status lines around the conversation.
KeyPrompt (keyprompt.go) - the first-run API key screen.
CodeBlock (codeblock.go) - fenced code with a language badge.
*/
package components
