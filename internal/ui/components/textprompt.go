// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shelfchat/shelfchat/internal/model"
	"github.com/shelfchat/shelfchat/internal/ui/styles"
)

// =============================================================================
// TEXT PROMPT
// =============================================================================

// TextPrompt is a modal single-line prompt, used for renaming conversations.
type TextPrompt struct {
	Title string

	input   textinput.Model
	errText string
	theme   *styles.Theme
}

// NewTextPrompt creates a prompt pre-filled with initial text.
func NewTextPrompt(theme *styles.Theme, title, initial string) TextPrompt {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.CharLimit = model.MaxTitleRunes
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()

	return TextPrompt{
		Title: title,
		input: ti,
		theme: theme,
	}
}

// Value returns the current prompt text.
func (p *TextPrompt) Value() string {
	return p.input.Value()
}

// SetError shows a validation message under the input.
func (p *TextPrompt) SetError(msg string) {
	p.errText = msg
}

// Update forwards messages to the text input and clears any stale error.
func (p TextPrompt) Update(msg tea.Msg) (TextPrompt, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		p.errText = ""
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// View renders the prompt box.
func (p TextPrompt) View() string {
	var sb strings.Builder
	sb.WriteString(p.theme.ModalTitle.Render(p.Title))
	sb.WriteString("\n\n")
	sb.WriteString(p.input.View())
	if p.errText != "" {
		sb.WriteString("\n")
		sb.WriteString(p.theme.ModalError.Render(p.errText))
	}
	sb.WriteString("\n\n")
	sb.WriteString(p.theme.ShortcutKey.Render("enter"))
	sb.WriteString(p.theme.ModalHint.Render(" save  "))
	sb.WriteString(p.theme.ShortcutKey.Render("esc"))
	sb.WriteString(p.theme.ModalHint.Render(" cancel"))

	return p.theme.ModalBox.Render(sb.String())
}
