// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/shelfchat/shelfchat/internal/util"
)

// DefaultTitle is the title of a conversation before the first user message
// (or an explicit rename) gives it one.
const DefaultTitle = "untitled"

// TitlePreviewRunes is how much of the first user message becomes the
// derived conversation title.
const TitlePreviewRunes = 20

// MaxTitleRunes caps user-supplied titles from rename.
const MaxTitleRunes = 50

// ErrEmptyTitle is returned by Rename when the new title is empty or
// whitespace-only after trimming.
var ErrEmptyTitle = errors.New("title must not be empty")

// ErrConversationNotFound is returned by table operations given an unknown
// conversation ID.
var ErrConversationNotFound = errors.New("conversation not found")

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete chat transcript with its metadata.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// NewConversation creates an empty conversation with a generated ID and the
// default title.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        generateConversationID(),
		Title:     DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]Message, 0),
	}
}

// generateConversationID creates a unique conversation identifier.
func generateConversationID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// Fall back to a timestamp-based ID
		return "conv_" + time.Now().Format("20060102150405.000000000")
	}
	return "conv_" + hex.EncodeToString(b)
}

// AddMessage appends a message and bumps UpdatedAt. When the conversation
// still carries the default title and this is its first user message, the
// title is derived from that message.
func (c *Conversation) AddMessage(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()

	if c.Title == DefaultTitle && msg.Role == RoleUser && c.countUserMessages() == 1 {
		if title := DeriveTitle(msg.Content); title != "" {
			c.Title = title
		}
	}
}

func (c *Conversation) countUserMessages() int {
	n := 0
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// DeriveTitle builds a conversation title from the first user message:
// trimmed, truncated to TitlePreviewRunes runes with an ellipsis when cut.
func DeriveTitle(firstUserMessage string) string {
	return util.Ellipsize(strings.TrimSpace(firstUserMessage), TitlePreviewRunes)
}

// Clone returns a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	clone := *c
	clone.Messages = make([]Message, len(c.Messages))
	copy(clone.Messages, c.Messages)
	return &clone
}

// =============================================================================
// CONVERSATION TABLE
// =============================================================================

// ConversationTable is the whole persisted conversation set, keyed by
// conversation ID. It serializes as a single JSON object.
type ConversationTable map[string]*Conversation

// NewConversationTable returns an empty table.
func NewConversationTable() ConversationTable {
	return make(ConversationTable)
}

// Get returns the conversation for id, or ErrConversationNotFound.
func (t ConversationTable) Get(id string) (*Conversation, error) {
	conv, ok := t[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return conv, nil
}

// Put inserts or replaces a conversation under its own ID.
func (t ConversationTable) Put(conv *Conversation) {
	t[conv.ID] = conv
}

// AppendMessage appends msg to the conversation id, with the same title
// derivation and UpdatedAt bump as Conversation.AddMessage.
func (t ConversationTable) AppendMessage(id string, msg Message) error {
	conv, ok := t[id]
	if !ok {
		return ErrConversationNotFound
	}
	conv.AddMessage(msg)
	return nil
}

// Rename sets a new title on conversation id. The title is trimmed and
// clamped to MaxTitleRunes runes; an empty result is rejected with
// ErrEmptyTitle and nothing changes.
func (t ConversationTable) Rename(id, title string) error {
	conv, ok := t[id]
	if !ok {
		return ErrConversationNotFound
	}
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return ErrEmptyTitle
	}
	conv.Title = util.ClampRunes(trimmed, MaxTitleRunes)
	conv.UpdatedAt = time.Now()
	return nil
}

// Delete removes conversation id. Deleting an unknown id is a no-op.
func (t ConversationTable) Delete(id string) {
	delete(t, id)
}
