// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gaia-tui/internal/ui/styles"
)

// =============================================================================
// API KEY PROMPT
// =============================================================================

// Text of the first-run key screen.
const (
	KeyPromptTitle       = "Enter Your OpenAI API Key"
	KeyPromptHint        = "To use this chatbot, you'll need to provide your own OpenAI API key."
	KeyPromptPlaceholder = "sk-..."
	KeyPromptSubmit      = "Start Chatting"
	KeyPromptNoKey       = "Don't have an API key? "
	KeyPromptURL         = "https://platform.openai.com/api-keys"
)

// KeyPrompt renders the key entry box centred in the screen. input is the
// rendered text field; errMsg, when set, is shown under it.
func KeyPrompt(theme *styles.Theme, input, errMsg string) string {
	lines := []string{
		theme.PromptTitle.Render(KeyPromptTitle),
		theme.Hint.Render(KeyPromptHint),
		"",
		input,
	}
	if errMsg != "" {
		lines = append(lines, theme.Error.Render(errMsg))
	}
	lines = append(lines,
		"",
		theme.InputPrompt.Render("[enter] "+KeyPromptSubmit),
		"",
		theme.Hint.Render(KeyPromptNoKey)+theme.LinkStyle.Render(KeyPromptURL),
	)

	box := theme.PromptBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	if theme.Width <= 0 || theme.Height <= 0 {
		return box
	}
	return lipgloss.Place(theme.Width, theme.Height, lipgloss.Center, lipgloss.Center, box)
}
