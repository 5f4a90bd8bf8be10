// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the chat screen.
// It is rebuilt from a Palette whenever the tone changes.
type Theme struct {
	Palette Palette

	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER AND FOOTER
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderTone  lipgloss.Style
	Footer      lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	BotName         lipgloss.Style
	Timestamp       lipgloss.Style
	Typing          lipgloss.Style

	// ==========================================================================
	// INPUT AREA
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	Placeholder    lipgloss.Style

	// ==========================================================================
	// API KEY PROMPT
	// ==========================================================================

	PromptBox   lipgloss.Style
	PromptTitle lipgloss.Style
	Hint        lipgloss.Style
	Error       lipgloss.Style
	LinkStyle   lipgloss.Style
}

// NewTheme creates a theme for the given palette.
func NewTheme(p Palette) *Theme {
	t := &Theme{
		IsDark:       lipgloss.HasDarkBackground(),
		ColorProfile: lipgloss.ColorProfile(),
	}
	t.SetPalette(p)
	return t
}

// SetPalette swaps the accent colors and rebuilds every style.
func (t *Theme) SetPalette(p Palette) {
	t.Palette = p
	t.initStyles()
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// BubbleWidth returns the widest a message bubble may be: 70% of the screen,
// but never narrower than 20 columns.
func (t *Theme) BubbleWidth() int {
	w := t.Width * 7 / 10
	if w < 20 {
		w = 20
	}
	return w
}

func (t *Theme) initStyles() {
	p := t.Palette

	t.Header = lipgloss.NewStyle().
		Background(p.Primary).
		Foreground(TextOnAccent).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextOnAccent).
		Background(p.Primary)

	t.HeaderTone = lipgloss.NewStyle().
		Italic(true).
		Foreground(TextOnAccent).
		Background(p.Primary)

	t.Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Align(lipgloss.Center)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(TextOnAccent).
		Background(p.UserBg).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	t.BotName = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Typing = lipgloss.NewStyle().
		Foreground(p.Secondary)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Border)

	t.InputPrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.PromptBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 3).
		Width(72)

	t.PromptTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)

	t.Hint = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.Error = lipgloss.NewStyle().
		Foreground(Danger)

	t.LinkStyle = lipgloss.NewStyle().
		Foreground(Link).
		Underline(true)
}

// =============================================================================
// MARKDOWN STYLES
// =============================================================================

// MarkdownStyles are the styles used to draw one rendered message body.
type MarkdownStyles struct {
	H1, H2, H3 lipgloss.Style

	Paragraph lipgloss.Style
	Marker    lipgloss.Style

	Bold       lipgloss.Style
	Italic     lipgloss.Style
	InlineCode lipgloss.Style

	CodeBox   lipgloss.Style
	CodeBadge lipgloss.Style
}

// NewMarkdownStyles derives block and span styles from a palette.
// User bubbles get a lighter inline code tint so it stays visible on the
// pastel background.
func NewMarkdownStyles(p Palette, isUser bool) MarkdownStyles {
	codeBg := CodeBg
	accent := lipgloss.TerminalColor(p.Primary)
	if isUser {
		codeBg = CodeBgOnAccent
		accent = TextOnAccent
	}

	return MarkdownStyles{
		H1: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(accent),
		H2: lipgloss.NewStyle().Bold(true).Foreground(accent),
		H3: lipgloss.NewStyle().Bold(true),

		Paragraph: lipgloss.NewStyle(),
		Marker:    lipgloss.NewStyle().Foreground(p.Secondary).Bold(true),

		Bold:       lipgloss.NewStyle().Bold(true),
		Italic:     lipgloss.NewStyle().Italic(true),
		InlineCode: lipgloss.NewStyle().Background(codeBg).Padding(0, 1),

		CodeBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1),
		CodeBadge: lipgloss.NewStyle().
			Foreground(TextOnAccent).
			Background(p.Secondary).
			Bold(true).
			Padding(0, 1),
	}
}
