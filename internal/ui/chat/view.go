// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gaia-tui/internal/model"
	"github.com/jeranaias/gaia-tui/internal/ui/components"
)

// minInputWidth keeps the text field usable in very narrow terminals.
const minInputWidth = 10

// =============================================================================
// VIEW
// =============================================================================

// View renders the current screen.
func (m Model) View() string {
	if m.screen == screenKeyPrompt {
		return components.KeyPrompt(m.theme, m.keyInput.View(), m.keyErr)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.viewport.View(),
		m.inputView(),
		m.statusView(),
		m.footerView(),
	)
}

func (m Model) headerView() string {
	return components.Header(m.theme, m.list.BotName, m.sess.Tone())
}

func (m Model) inputView() string {
	s := m.theme.InputContainer
	if m.width > 0 {
		s = s.Width(m.width)
	}
	return s.Render(m.input.View())
}

// statusView shows the last status message, or key help when there is none.
// The full help also lists the slash commands.
func (m Model) statusView() string {
	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.help.View(m.keys),
			m.theme.Hint.Render(strings.Join(m.registry.HelpLines(), "\n")),
		)
	}
	if m.status != "" {
		return m.theme.Hint.Render(m.status)
	}
	return m.help.View(m.keys)
}

func (m Model) footerView() string {
	return components.Footer(m.theme)
}

// =============================================================================
// LAYOUT
// =============================================================================

// layout sizes every widget after a resize or a change in chrome height.
func (m *Model) layout() {
	m.theme.SetSize(m.width, m.height)
	m.help.Width = m.width

	w := m.width - m.theme.InputContainer.GetHorizontalFrameSize() - lipgloss.Width(m.input.Prompt) - 1
	if w < minInputWidth {
		w = minInputWidth
	}
	m.input.Width = w

	chrome := lipgloss.Height(m.headerView()) +
		lipgloss.Height(m.inputView()) +
		lipgloss.Height(m.statusView()) +
		lipgloss.Height(m.footerView())
	h := m.height - chrome
	if h < 1 {
		h = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
	m.refresh()
}

// refresh re-renders the conversation into the viewport. The view follows
// new content only when it was already scrolled to the end.
func (m *Model) refresh() {
	follow := m.viewport.AtBottom()
	m.viewport.SetContent(m.transcript())
	if follow {
		m.viewport.GotoBottom()
	}
}

// transcript renders every message plus the reply in progress.
func (m *Model) transcript() string {
	out := m.list.View(m.sess.Messages())
	if !m.waiting {
		return out
	}

	var pending string
	switch {
	case m.partial != "":
		pending = m.list.Bubble(model.Message{
			Role:      model.RoleAssistant,
			Text:      m.partial,
			Timestamp: time.Now(),
		})
	case m.cfg.UI.ShowTypingIndicator:
		pending = components.Typing(m.theme, m.list.BotName, m.spinner.View())
	default:
		return out
	}
	if out == "" {
		return pending
	}
	return out + "\n\n" + pending
}
