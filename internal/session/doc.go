// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session runs the send/reply cycle of one chat.
//
// A Session owns a model.Conversation and serialises access to it. Send
// appends the user turn, marks the session as typing, asks the provider for a
// reply and appends either the reply or the fixed error reply. When a
// Recorder is attached, every stored turn is written through to it; the
// welcome message is never recorded.
//
// # Usage
//
//	sess := session.New(conv, client, session.Options{
//	    ErrorReply: cfg.Chat.ErrorReply,
//	    Recorder:   store,
//	})
//	reply, err := sess.Send(ctx, "Hello", nil)
//
// Both the TUI and the line-mode REPL drive the same Session.
package session
