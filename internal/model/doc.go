// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Conversation: ordered messages plus tone, model and history limit
//   - Message: one turn with role, text and timestamp
//   - Tone: the assistant persona, which selects the system prompt
//
// # Usage
//
//	conv := model.NewConversation(model.ToneNeutral, "Hello! How can I help?")
//	req := conv.RequestMessages("What is NFC?")
//	conv.AddUserMessage("What is NFC?")
//	conv.AddAssistantMessage(reply)
//
// The welcome message is shown to the user but never sent to the provider.
package model
