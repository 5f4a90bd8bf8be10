// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides transcript persistence for gaia.
//
// Conversations and their messages live in a single SQLite database
// (modernc.org/sqlite, no cgo), by default ~/.gaia/history.db.
//
// # Key Types
//
//   - Store: the database handle; implements session.Recorder
//   - Summary: lightweight row for listing conversations
//
// # Usage
//
//	store, err := storage.Open(ctx, cfg.StoragePath())
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	summaries, err := store.ListConversations(ctx, 20)
//	conv, err := store.LoadConversation(ctx, summaries[0].ID)
//
// Welcome messages are display-only and never stored.
package storage
