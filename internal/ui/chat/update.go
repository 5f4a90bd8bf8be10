// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/gaia-tui/internal/cloud"
	"github.com/jeranaias/gaia-tui/internal/commands"
	"github.com/jeranaias/gaia-tui/internal/config"
	"github.com/jeranaias/gaia-tui/internal/model"
	"github.com/jeranaias/gaia-tui/internal/session"
	"github.com/jeranaias/gaia-tui/internal/ui/styles"
)

// Status line texts.
const (
	statusCopied      = "Reply copied to clipboard"
	statusNothingCopy = "No reply to copy yet"
	statusStopped     = "Reply stopped"
	statusBusy        = "Still waiting for the last reply"
	statusReloaded    = "Configuration reloaded"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.cancel.stop()
			return m, tea.Quit
		}
		if m.screen == screenKeyPrompt {
			return m.updateKeyPrompt(msg)
		}
		return m.updateChat(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case replyMsg:
		return m.handleReply(msg)

	case streamTickMsg:
		if !m.waiting {
			return m, nil
		}
		if text, ok := m.stream.Flush(); ok {
			m.partial += text
			m.refresh()
		}
		return m, streamTickCmd()

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd

	case reloadMsg:
		m.applyReload(msg.Reload)
		return m, waitForReload(m.reloads)

	case clipboardMsg:
		if msg.Err != nil {
			m.log.Warn("clipboard write failed", "error", msg.Err)
			m.status = "Copy failed: " + msg.Err.Error()
		} else {
			m.status = statusCopied
		}
		return m, nil
	}

	// Cursor blink and anything else belongs to the focused input.
	var cmd tea.Cmd
	if m.screen == screenKeyPrompt {
		m.keyInput, cmd = m.keyInput.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// =============================================================================
// KEY SCREEN
// =============================================================================

func (m Model) updateKeyPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Submit) {
		var cmd tea.Cmd
		m.keyInput, cmd = m.keyInput.Update(msg)
		m.keyErr = ""
		return m, cmd
	}

	apiKey := m.keyInput.Value()
	if err := cloud.ValidateAPIKey(apiKey); err != nil {
		m.keyErr = err.Error()
		return m, nil
	}
	apiKey = strings.TrimSpace(apiKey)

	// SECURITY: the key itself is never logged, only its fingerprint.
	m.log.Info("api key entered", "key", cloud.MaskKey(apiKey))
	m.sess.SetProvider(m.provider(apiKey))
	if m.saveKey != nil {
		if err := m.saveKey(apiKey); err != nil {
			m.log.Warn("failed to save api key", "error", err)
			m.status = "Key not saved: " + err.Error()
		}
	}

	m.keyErr = ""
	m.keyInput.Reset()
	m.keyInput.Blur()
	m.screen = screenChat
	m.layout()
	return m, m.input.Focus()
}

// =============================================================================
// CHAT SCREEN
// =============================================================================

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		text := m.input.Value()
		if commands.IsCommand(text) {
			m.input.Reset()
			return m.runCommand(text)
		}
		if m.waiting {
			m.status = statusBusy
			return m, nil
		}
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		m.input.Reset()
		return m, m.startRequest(text)

	case key.Matches(msg, m.keys.Complete):
		m.complete()
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		if m.cancel.stop() {
			m.status = statusStopped
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keys.CycleTone):
		m.setTone(m.sess.Tone().Next())
		return m, nil

	case key.Matches(msg, m.keys.CopyReply):
		return m, m.copyReply()

	case key.Matches(msg, m.keys.NewChat):
		m.newChat()
		return m, nil

	case key.Matches(msg, m.keys.ToggleHelp):
		m.setHelp(!m.showHelp)
		return m, nil
	}

	m.status = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m *Model) copyReply() tea.Cmd {
	text := m.sess.LastReply()
	if text == "" {
		m.status = statusNothingCopy
		return nil
	}
	return copyCmd(m.clipboard, text)
}

func (m *Model) newChat() {
	if m.waiting {
		m.status = statusBusy
		return
	}
	m.sess.Reset(m.cfg.Chat.WelcomeMessage)
	m.status = ""
	m.refresh()
	m.viewport.GotoTop()
}

func (m *Model) setHelp(show bool) {
	m.showHelp = show
	m.help.ShowAll = show
	m.layout()
}

// runCommand executes a slash command typed into the input.
func (m Model) runCommand(input string) (tea.Model, tea.Cmd) {
	res := m.registry.Parse(input)
	if res.Error != nil {
		m.status = res.Error.Error()
		return m, nil
	}

	switch res.Command.Action {
	case commands.ActionHelp:
		m.setHelp(true)
	case commands.ActionQuit:
		m.cancel.stop()
		return m, tea.Quit
	case commands.ActionNew:
		m.newChat()
	case commands.ActionCopy:
		return m, m.copyReply()
	case commands.ActionTone:
		if len(res.Args) == 0 {
			m.status = "Tone: " + m.sess.Tone().String()
			return m, nil
		}
		// Args were validated against the tone list.
		tone, _ := model.ParseTone(res.Args[0])
		m.setTone(tone)
	}
	return m, nil
}

// complete extends a partly typed slash command. A single candidate is
// taken; several are extended to their common prefix and listed in the
// status line.
func (m *Model) complete() {
	candidates := m.registry.Complete(m.input.Value())
	switch len(candidates) {
	case 0:
		return
	case 1:
		m.input.SetValue(candidates[0] + " ")
	default:
		if prefix := commands.CommonPrefix(candidates); len(prefix) > len(m.input.Value()) {
			m.input.SetValue(prefix)
		}
		m.status = strings.Join(candidates, "  ")
	}
	m.input.CursorEnd()
}

// startRequest marks the model busy and returns the commands that send
// text and animate the wait.
func (m *Model) startRequest(text string) tea.Cmd {
	m.waiting = true
	m.partial = ""
	m.status = ""
	m.stream.Reset()

	ctx := m.cancel.begin(m.ctx)
	m.refresh()
	m.viewport.GotoBottom()

	return tea.Batch(
		requestCmd(ctx, m.sess, text, m.stream.Write),
		m.spinner.Tick,
		streamTickCmd(),
	)
}

func (m Model) handleReply(msg replyMsg) (tea.Model, tea.Cmd) {
	m.waiting = false
	m.partial = ""
	m.stream.Reset()
	m.cancel.done()

	switch err := msg.Err; {
	case err == nil:
	case errors.Is(err, cloud.ErrNotConfigured):
		m.screen = screenKeyPrompt
		m.keyErr = cloud.ErrKeyEmpty.Error()
		m.input.Blur()
		m.layout()
		return m, m.keyInput.Focus()
	case errors.Is(err, session.ErrBusy):
		m.status = statusBusy
	case errors.Is(err, context.Canceled):
		m.status = statusStopped
	default:
		m.log.Warn("reply failed", "error", err)
	}

	m.refresh()
	m.viewport.GotoBottom()
	return m, nil
}

// setTone switches the assistant personality and its colors.
func (m *Model) setTone(t model.Tone) {
	m.sess.SetTone(t)
	m.theme.SetPalette(styles.PaletteFor(string(t)))
	m.applyPresentation(m.cfg)
	m.status = "Tone: " + t.String()
	m.refresh()
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

// applyReload adopts a config re-read from disk. An invalid file keeps
// the current settings.
func (m *Model) applyReload(r config.Reload) {
	if r.Err != nil {
		m.log.Warn("config reload failed", "error", r.Err)
		m.status = "Config not reloaded: " + r.Err.Error()
		return
	}

	cfg := r.Config
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		m.log.Warn("reloaded config is invalid", "error", err)
		m.status = "Config not reloaded: " + err.Error()
		return
	}
	m.cfg = cfg

	styles.ApplyThemeMode(cfg.UI.Theme)
	tone, _ := model.ParseTone(cfg.Chat.Tone)
	if tone != m.sess.Tone() {
		m.sess.SetTone(tone)
	}
	m.theme.SetPalette(styles.PaletteFor(string(tone)))
	m.applyPresentation(cfg)

	if cfg.Provider.APIKey != "" {
		m.sess.SetProvider(m.provider(cfg.Provider.APIKey))
		if m.screen == screenKeyPrompt && m.sess.HasProvider() {
			m.screen = screenChat
			m.keyInput.Blur()
			m.input.Focus()
		}
	}

	m.log.Info("config reloaded", "tone", tone, "model", cfg.Provider.Model)
	m.status = statusReloaded
	m.layout()
}
