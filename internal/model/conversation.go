// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/gaia-tui/internal/cloud"
)

// MaxMessages is the maximum number of messages kept in memory.
// When exceeded, the oldest messages are pruned (the welcome message stays).
const MaxMessages = 1000

// titleWidth is the widest automatic title, in columns.
const titleWidth = 48

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds one chat with its messages and settings.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Tone      Tone      `json:"tone"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []*Message `json:"messages"`

	// MaxHistory caps how many earlier messages are sent with a request.
	// Zero means unlimited.
	MaxHistory int `json:"-"`
}

// NewConversation creates a conversation seeded with an assistant welcome
// message. An empty welcome seeds nothing.
func NewConversation(tone Tone, welcome string) *Conversation {
	now := time.Now()
	c := &Conversation{
		ID:        uuid.NewString(),
		Tone:      tone,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0, 8),
	}
	if welcome != "" {
		msg := NewMessage(RoleAssistant, welcome)
		msg.Welcome = true
		c.Messages = append(c.Messages, msg)
	}
	return c
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends msg and refreshes the title and update time.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.updateTitle()
	c.pruneOldMessages()
}

// AddUserMessage appends a user message.
func (c *Conversation) AddUserMessage(text string) *Message {
	msg := NewMessage(RoleUser, text)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage appends an assistant message.
func (c *Conversation) AddAssistantMessage(text string) *Message {
	msg := NewMessage(RoleAssistant, text)
	c.AddMessage(msg)
	return msg
}

// LastAssistantMessage returns the most recent assistant reply that is not
// the welcome message, or nil.
func (c *Conversation) LastAssistantMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if m := c.Messages[i]; m.Role == RoleAssistant && !m.Welcome {
			return m
		}
	}
	return nil
}

// History returns the messages that are sent to the provider: everything
// except the welcome message, trimmed to the newest MaxHistory entries when a
// limit is set.
func (c *Conversation) History() []*Message {
	history := make([]*Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		if m.Welcome || m.Role == RoleSystem {
			continue
		}
		history = append(history, m)
	}
	if c.MaxHistory > 0 && len(history) > c.MaxHistory {
		history = history[len(history)-c.MaxHistory:]
	}
	return history
}

// RequestMessages builds the provider request for a new user input: the tone
// prompt, then History, then input as the final user turn. The conversation
// itself is not modified.
func (c *Conversation) RequestMessages(input string) []cloud.ChatMessage {
	history := c.History()
	msgs := make([]cloud.ChatMessage, 0, len(history)+2)
	msgs = append(msgs, cloud.NewSystemMessage(c.Tone.SystemPrompt()))
	for _, m := range history {
		if m.Role == RoleUser {
			msgs = append(msgs, cloud.NewUserMessage(m.Text))
		} else {
			msgs = append(msgs, cloud.NewAssistantMessage(m.Text))
		}
	}
	return append(msgs, cloud.NewUserMessage(input))
}

// MessageCount returns the number of messages, welcome included.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty reports whether nothing beyond the welcome message was exchanged.
func (c *Conversation) IsEmpty() bool {
	for _, m := range c.Messages {
		if !m.Welcome {
			return false
		}
	}
	return true
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// updateTitle derives a title from the first user message if none is set.
func (c *Conversation) updateTitle() {
	if c.Title != "" {
		return
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			c.Title = msg.Preview(titleWidth)
			return
		}
	}
}

// GetTitle returns the conversation title or a default.
func (c *Conversation) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New Conversation"
}

// pruneOldMessages drops the oldest non-welcome messages beyond MaxMessages.
func (c *Conversation) pruneOldMessages() {
	if len(c.Messages) <= MaxMessages {
		return
	}
	kept := make([]*Message, 0, MaxMessages)
	excess := len(c.Messages) - MaxMessages
	for _, m := range c.Messages {
		if !m.Welcome && excess > 0 {
			excess--
			continue
		}
		kept = append(kept, m)
	}
	c.Messages = kept
}
