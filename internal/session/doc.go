// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session drives the chat lifecycle for shelfchat.
//
// The Controller owns the conversation table and enforces the
// one-request-in-flight rule. Mutating operations use a begin/complete
// pattern so the UI can flip into its waiting state synchronously and run
// the network exchange in the background:
//
//	ticket, err := ctrl.BeginSend("recommend sci-fi")
//	// in a background goroutine:
//	result := ctrl.CompleteSend(ctx, ticket)
//
// The ticket pins the reply to the conversation that was active when the
// send began, so switching conversations mid-flight cannot misfile it.
//
// # Persistence rules
//
//   - user messages, agent responses, and agent-reported errors persist
//   - transport-failure apologies are display-only and never persist
//   - welcome greetings persist as the first agent message
package session
