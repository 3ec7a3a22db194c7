// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the shelfchat TUI.
//
// Components are small, focused building blocks composed by the chat model:
//
//   - MessageBubble: styled user/agent message bubbles with structured lines
//   - Sidebar: the conversation list with cursor and active markers
//   - TypingIndicator: spinner shown while a reply is pending
//   - ChatInput: the message input line
//   - ConfirmDialog: yes/no confirmation for destructive actions
//   - TextPrompt: single-line prompt used for renaming conversations
package components
