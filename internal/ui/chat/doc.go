// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main Bubble Tea model for the shelfchat TUI.

The model composes the conversation sidebar, the transcript viewport, the
typing indicator, and the input line, and drives the session controller:

  - Begin* controller calls run synchronously inside Update, so the input
    locks the instant a send starts.
  - Complete* calls run as tea.Cmd goroutines; their results come back as
    welcomeDoneMsg and sendDoneMsg.

Key bindings: Enter sends, Ctrl+N opens a conversation, Ctrl+D deletes,
Ctrl+R renames, Tab moves focus to the sidebar, Esc dismisses transient
state, Ctrl+C quits. Delete and rename confirm through modal overlays.
*/
package chat
