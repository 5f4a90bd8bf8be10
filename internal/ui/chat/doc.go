// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat is the interactive Bubble Tea screen of gaia.

It has two states. Without an API key the user first sees the key screen,
a masked text field that validates the key shape before building a
provider. After that the chat screen shows:

  - a header with the bot name and the active tone
  - the scrollable conversation, one bubble per message
  - a typing indicator, or the reply so far when streaming
  - the input line, a status/help line and the disclaimer

Input starting with "/" runs a slash command from package commands
instead of being sent; Tab completes command names and tone names.

Replies are requested on a tea.Cmd goroutine through session.Session.
Streamed fragments are collected in a StreamingBuffer and painted on a
30fps tick. Config file changes arrive as config.Reload values and are
applied without a restart.

# Usage

	m := chat.New(chat.Options{
		Config:      cfg,
		Session:     sess,
		NewProvider: newProvider,
		Reloads:     watcher.Updates(),
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
*/
package chat
