// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/gaia-tui/internal/config"
	"github.com/jeranaias/gaia-tui/internal/model"
	"github.com/jeranaias/gaia-tui/internal/session"
)

// =============================================================================
// MESSAGES
// =============================================================================

// replyMsg carries the outcome of one Send.
type replyMsg struct {
	Reply *model.Message
	Err   error
}

// streamTickMsg drains the streaming buffer.
type streamTickMsg struct {
	At time.Time
}

// reloadMsg wraps a config file reload.
type reloadMsg struct {
	config.Reload
}

// clipboardMsg reports the result of copying a reply.
type clipboardMsg struct {
	Err error
}

// =============================================================================
// COMMANDS
// =============================================================================

// requestCmd sends input on a goroutine owned by the Bubble Tea runtime.
func requestCmd(ctx context.Context, sess *session.Session, input string, onToken func(string)) tea.Cmd {
	return func() tea.Msg {
		reply, err := sess.Send(ctx, input, onToken)
		return replyMsg{Reply: reply, Err: err}
	}
}

// waitForReload blocks for the next config reload. It returns nil once
// the channel is closed, which ends the listen loop.
func waitForReload(ch <-chan config.Reload) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return reloadMsg{Reload: r}
	}
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{Err: write(text)}
	}
}

// copyToClipboard writes text to the system clipboard.
func copyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}
