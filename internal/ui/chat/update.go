// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shelfchat/shelfchat/internal/model"
	"github.com/shelfchat/shelfchat/internal/session"
	"github.com/shelfchat/shelfchat/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all incoming Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.typing, cmd = m.typing.Update(msg)
		return m, cmd

	case welcomeDoneMsg:
		m.typing.Stop()
		m.input.Unlock()
		m.refreshSidebar()
		if msg.result.ConversationID == m.ctrl.ActiveID() {
			m.refreshTranscript()
		}
		return m, nil

	case sendDoneMsg:
		m.typing.Stop()
		m.input.Unlock()
		m.refreshSidebar()
		if msg.result.ConversationID == m.ctrl.ActiveID() {
			if msg.result.Apology != "" {
				m.apology = msg.result.Apology
			}
			m.refreshTranscript()
		}
		return m, nil

	case statusMsg:
		m.status = msg.text
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleKey routes a key press by overlay and focus.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.modal {
	case modalConfirmDelete:
		return m.handleConfirmKey(msg)
	case modalRename:
		return m.handleRenameKey(msg)
	}

	if m.sidebar.Focused() {
		return m.handleSidebarKey(msg)
	}
	return m.handleChatKey(msg)
}

// ==========================================================================
// MODAL KEY HANDLING
// ==========================================================================

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.modal = modalNone
		return m.deleteConversation(m.targetID)
	case "n", "N", "esc":
		m.modal = modalNone
		return m, nil
	}
	return m, nil
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc":
		m.modal = modalNone
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		err := m.ctrl.RenameConversation(m.targetID, m.rename.Value())
		switch {
		case errors.Is(err, model.ErrEmptyTitle):
			m.rename.SetError("标题不能为空")
			return m, nil
		case err != nil:
			m.modal = modalNone
			m.status = err.Error()
			return m, nil
		}
		m.modal = modalNone
		m.refreshSidebar()
		return m, nil
	}

	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

// ==========================================================================
// SIDEBAR KEY HANDLING
// ==========================================================================

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Sidebar), msg.String() == "esc":
		m.sidebar.SetFocused(false)
		m.input.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.sidebar.MoveUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.sidebar.MoveDown()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		entry, ok := m.sidebar.Selected()
		if !ok {
			return m, nil
		}
		if err := m.ctrl.SwitchConversation(entry.ID); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.apology = ""
		m.sidebar.SetFocused(false)
		m.input.Focus()
		m.refreshSidebar()
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if entry, ok := m.sidebar.Selected(); ok {
			return m.openDeleteConfirm(entry.ID, entry.Title)
		}
		return m, nil

	case key.Matches(msg, m.keys.Rename):
		if entry, ok := m.sidebar.Selected(); ok {
			return m.openRenamePrompt(entry.ID, entry.Title)
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		return m.newConversation()
	}
	return m, nil
}

// ==========================================================================
// CHAT KEY HANDLING
// ==========================================================================

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.sendMessage()

	case key.Matches(msg, m.keys.New):
		return m.newConversation()

	case key.Matches(msg, m.keys.Delete):
		if id := m.ctrl.ActiveID(); id != "" {
			return m.openDeleteConfirm(id, m.ctrl.ActiveTitle())
		}
		return m, nil

	case key.Matches(msg, m.keys.Rename):
		if id := m.ctrl.ActiveID(); id != "" {
			return m.openRenamePrompt(id, m.ctrl.ActiveTitle())
		}
		return m, nil

	case key.Matches(msg, m.keys.Sidebar):
		if m.sidebarWidth() > 0 {
			m.sidebar.SetFocused(true)
			m.sidebar.CursorTo(m.ctrl.ActiveID())
			m.input.Blur()
		}
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		m.apology = ""
		m.status = ""
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ==========================================================================
// ACTIONS
// ==========================================================================

// sendMessage begins a send for the input text and locks the input.
func (m Model) sendMessage() (tea.Model, tea.Cmd) {
	ticket, err := m.ctrl.BeginSend(m.input.Value())
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		return m, nil
	case errors.Is(err, session.ErrBusy):
		m.status = "等待回复中"
		return m, nil
	case err != nil:
		m.status = err.Error()
		return m, nil
	}

	m.input.Reset()
	m.input.Lock()
	m.apology = ""
	m.status = ""
	tick := m.typing.Start()
	m.refreshSidebar()
	m.refreshTranscript()
	return m, tea.Batch(completeSend(m.ctrl, ticket), tick)
}

// newConversation opens a fresh conversation and fetches its greeting.
func (m Model) newConversation() (tea.Model, tea.Cmd) {
	ticket, err := m.ctrl.BeginNewConversation()
	if errors.Is(err, session.ErrBusy) {
		m.status = "等待回复中"
		return m, nil
	} else if err != nil {
		m.status = err.Error()
		return m, nil
	}

	m.apology = ""
	m.status = ""
	m.sidebar.SetFocused(false)
	m.input.Lock()
	tick := m.typing.Start()
	m.refreshSidebar()
	m.refreshTranscript()
	return m, tea.Batch(completeWelcome(m.ctrl, ticket), tick)
}

// openDeleteConfirm shows the delete confirmation overlay.
func (m Model) openDeleteConfirm(id, title string) (tea.Model, tea.Cmd) {
	if m.ctrl.State() == session.StateAwaitingResponse {
		m.status = "等待回复中"
		return m, nil
	}
	m.targetID = id
	m.confirm = components.NewConfirmDialog(m.theme, "Delete conversation",
		"Delete \""+title+"\"? This cannot be undone.")
	m.modal = modalConfirmDelete
	return m, nil
}

// openRenamePrompt shows the rename overlay pre-filled with the title.
func (m Model) openRenamePrompt(id, title string) (tea.Model, tea.Cmd) {
	if m.ctrl.State() == session.StateAwaitingResponse {
		m.status = "等待回复中"
		return m, nil
	}
	m.targetID = id
	m.rename = components.NewTextPrompt(m.theme, "Rename conversation", title)
	m.modal = modalRename
	return m, nil
}

// deleteConversation removes a conversation. Deleting the active one
// immediately opens a replacement so the screen is never empty.
func (m Model) deleteConversation(id string) (tea.Model, tea.Cmd) {
	wasActive, err := m.ctrl.DeleteConversation(id)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	m.refreshSidebar()
	if wasActive {
		m.apology = ""
		return m.newConversation()
	}
	return m, nil
}
