// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shelfchat/shelfchat/internal/format"
	"github.com/shelfchat/shelfchat/internal/model"
	"github.com/shelfchat/shelfchat/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one transcript message as a styled bubble.
type MessageBubble struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool
	theme         *styles.Theme
}

// NewMessageBubble creates a bubble for msg with a default width.
func NewMessageBubble(msg model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message: msg,
		Width:   80,
		theme:   theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message.Role == model.RoleUser {
		return b.renderUserBubble()
	}
	return b.renderAgentBubble()
}

// ==========================================================================
// USER BUBBLE - Blue tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := b.theme.UserBubble.Width(contentWidth).Render(wrapped)
	header := b.renderHeader("you")

	// Right-align with a left margin
	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble),
	)
}

// ==========================================================================
// AGENT BUBBLE - Purple tones, left-aligned, structured lines
// ==========================================================================

func (b *MessageBubble) renderAgentBubble() string {
	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}

	// Agent replies carry structure worth preserving: emoji-led titles and
	// bullet lists render with their own styles instead of a flat blob.
	lines := format.Message(b.Message.Content)
	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		wrapped := wordWrap(line.Text, maxContentWidth)
		switch line.Kind {
		case format.LineTitle:
			rendered = append(rendered, b.theme.MessageTitle.Render(wrapped))
		case format.LineListItem:
			rendered = append(rendered, b.theme.ListItem.Render(wrapped))
		default:
			rendered = append(rendered, b.theme.PlainLine.Render(wrapped))
		}
	}
	content := strings.Join(rendered, "\n")
	if content == "" {
		content = "..."
	}

	contentWidth := minInt(maxLineWidth(content)+4, b.Width-8)
	bubble := b.theme.AgentBubble.Width(contentWidth).Render(content)
	header := b.renderHeader(b.Message.Role.DisplayName())

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

func (b *MessageBubble) renderHeader(role string) string {
	parts := []string{b.theme.RoleLabel.Render(role)}
	if b.ShowTimestamp && !b.Message.Timestamp.IsZero() {
		parts = append(parts, b.theme.Timestamp.Render(b.Message.Timestamp.Format("15:04")))
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// APOLOGY LINE
// =============================================================================

// RenderApology renders a transient connection-failure line. It appears in
// the transcript view but is never part of the saved conversation.
func RenderApology(theme *styles.Theme, text string, width int) string {
	maxContentWidth := width - 4
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	return theme.ApologyText.Render(wordWrap(text, maxContentWidth))
}
