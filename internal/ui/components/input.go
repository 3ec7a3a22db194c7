// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shelfchat/shelfchat/internal/ui/styles"
)

// =============================================================================
// CHAT INPUT
// =============================================================================

// ChatInput is the single-line message input at the bottom of the screen.
// It locks while a reply is pending so only one send can be in flight.
type ChatInput struct {
	input  textinput.Model
	theme  *styles.Theme
	locked bool
}

// NewChatInput creates a focused, empty input.
func NewChatInput(theme *styles.Theme) ChatInput {
	ti := textinput.New()
	ti.Placeholder = "输入您的问题..."
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.CharLimit = 2000
	ti.Focus()

	return ChatInput{
		input: ti,
		theme: theme,
	}
}

// Value returns the current input text.
func (c *ChatInput) Value() string {
	return c.input.Value()
}

// Reset clears the input.
func (c *ChatInput) Reset() {
	c.input.Reset()
}

// Lock disables typing while a reply is pending.
func (c *ChatInput) Lock() {
	c.locked = true
	c.input.Blur()
	c.input.Placeholder = TypingMessage + "..."
}

// Unlock re-enables typing.
func (c *ChatInput) Unlock() {
	c.locked = false
	c.input.Placeholder = "输入您的问题..."
	c.input.Focus()
}

// Locked returns whether the input is locked.
func (c *ChatInput) Locked() bool {
	return c.locked
}

// Focus gives the input keyboard focus.
func (c *ChatInput) Focus() {
	if !c.locked {
		c.input.Focus()
	}
}

// Blur removes keyboard focus.
func (c *ChatInput) Blur() {
	c.input.Blur()
}

// SetWidth sets the input width.
func (c *ChatInput) SetWidth(width int) {
	c.input.Width = width
}

// Update forwards messages to the underlying text input.
func (c ChatInput) Update(msg tea.Msg) (ChatInput, tea.Cmd) {
	if c.locked {
		return c, nil
	}
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// View renders the input line inside its container.
func (c ChatInput) View() string {
	return c.theme.InputContainer.Render(c.input.View())
}
