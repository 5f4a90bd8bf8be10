// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gaia-tui/internal/model"
	"github.com/jeranaias/gaia-tui/internal/ui/styles"
)

// Disclaimer is shown under the input line.
const Disclaimer = "AI can make mistakes. Verify important information."

// =============================================================================
// MESSAGE LIST
// =============================================================================

// MessageList renders a conversation as a column of bubbles.
type MessageList struct {
	Theme   *styles.Theme
	BotName string

	ShowTimestamps bool
	ListNumbering  ListNumbering
	Highlight      bool
}

// NewMessageList creates a list with timestamps on and position numbering.
func NewMessageList(theme *styles.Theme, botName string) *MessageList {
	return &MessageList{
		Theme:          theme,
		BotName:        botName,
		ShowTimestamps: true,
		ListNumbering:  NumberByPosition,
		Highlight:      true,
	}
}

// View renders every message, oldest first, separated by a blank line.
func (ml *MessageList) View(messages []model.Message) string {
	parts := make([]string, 0, len(messages))
	for i := range messages {
		parts = append(parts, ml.Bubble(messages[i]))
	}
	return strings.Join(parts, "\n\n")
}

// Bubble renders one message. User messages hug the right edge, everything
// else the left edge under the bot name.
func (ml *MessageList) Bubble(msg model.Message) string {
	if msg.Role == model.RoleUser {
		return ml.userBubble(msg)
	}
	return ml.assistantBubble(msg)
}

func (ml *MessageList) renderOptions(isUser bool, width int) RenderOptions {
	return RenderOptions{
		Palette:       ml.Theme.Palette,
		IsUser:        isUser,
		Width:         width,
		ListNumbering: ml.ListNumbering,
		Highlight:     ml.Highlight,
	}
}

func (ml *MessageList) userBubble(msg model.Message) string {
	t := ml.Theme
	inner := t.BubbleWidth() - t.UserBubble.GetHorizontalFrameSize()
	body := RenderMarkdown(msg.Text, ml.renderOptions(true, inner))

	lines := []string{t.UserBubble.Render(body)}
	if ml.ShowTimestamps {
		lines = append(lines, t.Timestamp.Render(msg.Clock()))
	}
	return alignRight(lipgloss.JoinVertical(lipgloss.Right, lines...), t.Width)
}

func (ml *MessageList) assistantBubble(msg model.Message) string {
	t := ml.Theme
	inner := t.BubbleWidth() - t.AssistantBubble.GetHorizontalFrameSize()
	body := RenderMarkdown(msg.Text, ml.renderOptions(false, inner))

	lines := []string{
		t.BotName.Render(ml.BotName),
		t.AssistantBubble.Render(body),
	}
	if ml.ShowTimestamps {
		lines = append(lines, t.Timestamp.Render(msg.Clock()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func alignRight(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) >= width {
		return s
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, s)
}

// =============================================================================
// TYPING INDICATOR, HEADER AND FOOTER
// =============================================================================

// Typing renders the in-flight indicator: the bot name followed by frame
// (usually a spinner view).
func Typing(theme *styles.Theme, botName, frame string) string {
	return theme.BotName.Render(botName) + " " + theme.Typing.Render(frame+" typing...")
}

// Header renders the title bar with the bot name and current tone.
func Header(theme *styles.Theme, botName string, tone model.Tone) string {
	title := theme.HeaderTitle.Render(botName)
	toneLabel := theme.HeaderTone.Render(tone.String())

	gap := theme.Width - theme.Header.GetHorizontalFrameSize() -
		lipgloss.Width(title) - lipgloss.Width(toneLabel)
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Background(theme.Palette.Primary).Render(strings.Repeat(" ", gap))
	return theme.Header.Render(title + spacer + toneLabel)
}

// Footer renders the disclaimer centred across the screen.
func Footer(theme *styles.Theme) string {
	s := theme.Footer
	if theme.Width > 0 {
		s = s.Width(theme.Width)
	}
	return s.Render(Disclaimer)
}
