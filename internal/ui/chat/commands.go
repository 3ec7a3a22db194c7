// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shelfchat/shelfchat/internal/session"
)

// =============================================================================
// ASYNC COMMANDS
// =============================================================================

// The controller's Begin* calls run synchronously inside Update; the matching
// Complete* calls do network work, so they run as commands.

// completeWelcome fetches and applies the greeting for a new conversation.
func completeWelcome(ctrl *session.Controller, ticket session.WelcomeTicket) tea.Cmd {
	return func() tea.Msg {
		return welcomeDoneMsg{result: ctrl.CompleteWelcome(context.Background(), ticket)}
	}
}

// completeSend resolves an in-flight send against its ticket.
func completeSend(ctrl *session.Controller, ticket session.SendTicket) tea.Cmd {
	return func() tea.Msg {
		return sendDoneMsg{result: ctrl.CompleteSend(context.Background(), ticket)}
	}
}
