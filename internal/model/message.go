// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/shelfchat/shelfchat/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	// RoleUser is a message typed by the person at the keyboard.
	RoleUser Role = "user"
	// RoleAgent is a message produced by the recommendation agent,
	// including error text the agent reported.
	RoleAgent Role = "agent"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether the role is one shelfchat knows how to render.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAgent
}

// DisplayName returns a human-readable label for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAgent:
		return "Agent"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single chat message in a conversation transcript.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserMessage creates a user message stamped with the current time.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, Timestamp: time.Now()}
}

// NewAgentMessage creates an agent message stamped with the current time.
func NewAgentMessage(content string) Message {
	return Message{Role: RoleAgent, Content: content, Timestamp: time.Now()}
}

// Preview returns the message content truncated to maxRunes runes with an
// ellipsis appended when truncated.
func (m Message) Preview(maxRunes int) string {
	return util.Ellipsize(m.Content, maxRunes)
}
