// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shelfchat/shelfchat/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the full screen.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	header := m.renderHeader()

	transcript := m.viewport.View()
	if m.typing.IsActive() {
		transcript += "\n" + m.typing.View()
	}

	main := transcript
	if m.sidebarWidth() > 0 {
		main = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), transcript)
	}

	sections := []string{header, main, m.input.View(), m.renderStatusBar()}
	screen := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.modal != modalNone {
		return m.renderModal(screen)
	}
	return screen
}

// renderHeader shows the app name and the active conversation title.
func (m Model) renderHeader() string {
	title := m.ctrl.ActiveTitle()
	line := m.theme.HeaderTitle.Render("shelfchat")
	if title != "" {
		line += m.theme.Header.Render(" · " + title)
	}
	return line
}

// renderTranscript renders the active conversation into viewport content.
func (m Model) renderTranscript() string {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	var sb strings.Builder
	for i, msg := range m.ctrl.Transcript() {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		bubble := components.NewMessageBubble(msg, m.theme)
		bubble.SetWidth(width)
		bubble.ShowTimestamp = m.showTimestamps
		sb.WriteString(bubble.View())
	}

	if m.apology != "" {
		sb.WriteString("\n\n")
		sb.WriteString(components.RenderApology(m.theme, m.apology, width))
	}
	return sb.String()
}

// renderStatusBar shows shortcuts, or the current status message.
func (m Model) renderStatusBar() string {
	if m.status != "" {
		return m.theme.StatusBar.Render(m.theme.StatusError.Render(m.status))
	}

	shortcuts := []struct{ k, desc string }{
		{"Enter", "send"},
		{"C-n", "new"},
		{"C-d", "delete"},
		{"C-r", "rename"},
		{"Tab", "list"},
		{"C-c", "quit"},
	}

	parts := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		parts = append(parts, m.theme.ShortcutKey.Render(s.k)+" "+m.theme.ShortcutDesc.Render(s.desc))
	}
	return m.theme.StatusBar.Render(strings.Join(parts, "  "))
}

// renderModal centers the active overlay over the screen.
func (m Model) renderModal(screen string) string {
	var overlay string
	switch m.modal {
	case modalConfirmDelete:
		overlay = m.confirm.View()
	case modalRename:
		overlay = m.rename.View()
	default:
		return screen
	}

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		overlay)
}
