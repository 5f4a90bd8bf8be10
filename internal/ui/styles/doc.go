// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the gaia TUI.

All fixed colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. Accent colors come from the active tone's Palette, so switching the
tone at runtime restyles bubbles, headings and the header bar.

# Color System (colors.go)

Surface, text and semantic colors shared by every tone:

	Surface, SurfaceDim, Border  - Backgrounds and separators
	TextPrimary, TextMuted       - Body text and timestamps
	Danger                       - Validation and request errors

# Palettes (palette.go)

One Palette per conversation tone (Neutral, Condescending, Agreeable). Unknown
tone names resolve to the Neutral palette:

	p := styles.PaletteFor("Agreeable")

# Theme (theme.go)

Theme bundles every lipgloss.Style the chat screen needs and is rebuilt when
the palette changes:

	theme := styles.NewTheme(styles.PaletteFor(cfg.Chat.Tone))
	theme.SetSize(width, height)

MarkdownStyles holds the styles used to draw rendered markdown blocks inside a
single bubble.
*/
package styles
