// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/shelfchat/shelfchat/internal/ui/styles"
)

// =============================================================================
// CONFIRMATION DIALOG
// =============================================================================

// ConfirmDialog is a modal yes/no prompt for destructive actions.
type ConfirmDialog struct {
	Title  string
	Prompt string
	theme  *styles.Theme
}

// NewConfirmDialog creates a dialog with the given title and prompt.
func NewConfirmDialog(theme *styles.Theme, title, prompt string) ConfirmDialog {
	return ConfirmDialog{
		Title:  title,
		Prompt: prompt,
		theme:  theme,
	}
}

// View renders the dialog box.
func (d ConfirmDialog) View() string {
	var sb strings.Builder
	sb.WriteString(d.theme.ModalDanger.Render(d.Title))
	sb.WriteString("\n\n")
	sb.WriteString(d.Prompt)
	sb.WriteString("\n\n")
	sb.WriteString(d.theme.ShortcutKey.Render("y"))
	sb.WriteString(d.theme.ModalHint.Render(" confirm  "))
	sb.WriteString(d.theme.ShortcutKey.Render("n"))
	sb.WriteString(d.theme.ModalHint.Render("/"))
	sb.WriteString(d.theme.ShortcutKey.Render("esc"))
	sb.WriteString(d.theme.ModalHint.Render(" cancel"))

	return d.theme.ModalBox.Render(sb.String())
}
