// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/shelfchat/shelfchat/internal/session"
)

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// welcomeDoneMsg arrives when a new conversation's greeting has resolved.
type welcomeDoneMsg struct {
	result session.WelcomeResult
}

// sendDoneMsg arrives when an in-flight send has resolved.
type sendDoneMsg struct {
	result session.SendResult
}

// statusMsg is a transient line for the status bar.
type statusMsg struct {
	text string
}
