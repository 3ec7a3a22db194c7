// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Conversation: a chat transcript with title and timestamps
//   - ConversationTable: every persisted conversation, keyed by ID
//   - Message: single message with role, content, and timestamp
//   - Role: message role enumeration (user, agent)
//   - ListEntry: one derived sidebar row, see BuildList
//
// # Usage
//
// Create a new conversation and record a message:
//
//	conv := model.NewConversation()
//	conv.AddMessage(model.NewUserMessage("recommend me a novel"))
//
// The first user message gives an untitled conversation its title.
package model
