// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/gaia-tui/internal/util"
)

// ClockLayout renders message times as two-digit hour and minute with AM/PM.
const ClockLayout = "03:04 PM"

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	// Welcome marks the greeting seeded into new conversations. It is
	// displayed but never sent to the provider or stored.
	Welcome bool `json:"-"`
}

// NewMessage creates a message with a fresh ID and the current time.
func NewMessage(role Role, text string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// Clock returns the message time formatted for display, e.g. "09:41 AM".
func (m *Message) Clock() string {
	return m.Timestamp.Format(ClockLayout)
}

// IsUser reports whether the user wrote the message.
func (m *Message) IsUser() bool {
	return m.Role == RoleUser
}

// Preview returns the text on one line, truncated to maxWidth columns.
func (m *Message) Preview(maxWidth int) string {
	return util.Summarize(m.Text, maxWidth)
}
