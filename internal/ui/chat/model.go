// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main Bubble Tea model for the shelfchat TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shelfchat/shelfchat/internal/session"
	"github.com/shelfchat/shelfchat/internal/ui/components"
	"github.com/shelfchat/shelfchat/internal/ui/styles"
)

// =============================================================================
// MODAL STATE
// =============================================================================

// modal identifies which overlay, if any, is capturing input.
type modal int

const (
	modalNone modal = iota
	modalConfirmDelete
	modalRename
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the whole chat screen: sidebar,
// transcript, typing indicator, input line, and modal overlays.
type Model struct {
	ctrl  *session.Controller
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// UI components
	viewport viewport.Model
	input    components.ChatInput
	sidebar  components.Sidebar
	typing   components.TypingIndicator

	// Overlay state
	modal    modal
	confirm  components.ConfirmDialog
	rename   components.TextPrompt
	targetID string

	// Display-only apology for the active conversation, cleared on the
	// next successful exchange or conversation switch.
	apology string

	status         string
	showTimestamps bool

	// initCmd is prepared in New so Init (which runs on a value copy)
	// cannot lose the typing indicator's started state.
	initCmd tea.Cmd

	keys KeyMap
}

// New creates the chat model around an initialized controller.
func New(ctrl *session.Controller, theme *styles.Theme) Model {
	vp := viewport.New(80, 20)

	m := Model{
		ctrl:     ctrl,
		theme:    theme,
		viewport: vp,
		input:    components.NewChatInput(theme),
		sidebar:  components.NewSidebar(theme),
		typing:   components.NewTypingIndicator(theme),
		keys:     DefaultKeyMap(),
	}
	m.refreshSidebar()

	// With an empty store, open a fresh conversation and fetch its greeting.
	if m.ctrl.ActiveID() == "" {
		if ticket, err := m.ctrl.BeginNewConversation(); err == nil {
			tick := m.typing.Start()
			m.input.Lock()
			m.initCmd = tea.Batch(completeWelcome(m.ctrl, ticket), tick)
			m.refreshSidebar()
		}
	}
	m.refreshTranscript()
	return m
}

// SetShowTimestamps toggles per-message timestamps in the transcript.
func (m *Model) SetShowTimestamps(show bool) {
	m.showTimestamps = show
}

// SetCompactSidebar toggles single-line sidebar entries.
func (m *Model) SetCompactSidebar(compact bool) {
	m.sidebar.SetCompact(compact)
}

// Init returns the startup command prepared in New, if any.
func (m Model) Init() tea.Cmd {
	return m.initCmd
}

// refreshSidebar re-pulls the conversation list from the controller.
func (m *Model) refreshSidebar() {
	m.sidebar.SetEntries(m.ctrl.List())
	m.sidebar.SetActive(m.ctrl.ActiveID())
}

// refreshTranscript re-renders the viewport from the active conversation.
func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	sidebarWidth := m.sidebarWidth()
	contentWidth := width - sidebarWidth

	// header + input + status bar
	contentHeight := height - 5
	if contentHeight < 3 {
		contentHeight = 3
	}

	m.viewport.Width = contentWidth
	m.viewport.Height = contentHeight
	m.sidebar.SetSize(sidebarWidth, contentHeight)
	m.input.SetWidth(contentWidth - 4)
	m.refreshTranscript()
}

// sidebarWidth returns the sidebar width for the current layout, zero when
// the terminal is too narrow to show it at all.
func (m *Model) sidebarWidth() int {
	switch m.theme.GetLayoutMode() {
	case styles.LayoutNarrow:
		return 0
	case styles.LayoutMedium:
		return 24
	default:
		return 32
	}
}
