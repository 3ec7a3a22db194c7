// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"time"

	"github.com/shelfchat/shelfchat/internal/model"
	"github.com/shelfchat/shelfchat/internal/ui/styles"
	"github.com/shelfchat/shelfchat/internal/util"
)

// =============================================================================
// CONVERSATION SIDEBAR
// =============================================================================

// Sidebar renders the conversation list with a movable cursor. The entries
// come pre-sorted; the sidebar only displays and tracks selection.
type Sidebar struct {
	entries  []model.ListEntry
	cursor   int
	activeID string
	focused  bool
	width    int
	height   int
	compact  bool
	theme    *styles.Theme
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) Sidebar {
	return Sidebar{
		width:  30,
		height: 20,
		theme:  theme,
	}
}

// SetEntries replaces the displayed entries, clamping the cursor.
func (s *Sidebar) SetEntries(entries []model.ListEntry) {
	s.entries = entries
	if s.cursor >= len(entries) {
		s.cursor = len(entries) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// SetActive marks the conversation shown in the transcript pane.
func (s *Sidebar) SetActive(id string) {
	s.activeID = id
}

// SetFocused toggles keyboard focus styling.
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// Focused returns whether the sidebar has keyboard focus.
func (s *Sidebar) Focused() bool {
	return s.focused
}

// SetSize sets the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// SetCompact toggles single-line entries without metadata.
func (s *Sidebar) SetCompact(compact bool) {
	s.compact = compact
}

// MoveUp moves the cursor one entry up.
func (s *Sidebar) MoveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// MoveDown moves the cursor one entry down.
func (s *Sidebar) MoveDown() {
	if s.cursor < len(s.entries)-1 {
		s.cursor++
	}
}

// CursorTo moves the cursor to the entry with the given ID, if present.
func (s *Sidebar) CursorTo(id string) {
	for i, e := range s.entries {
		if e.ID == id {
			s.cursor = i
			return
		}
	}
}

// Selected returns the entry under the cursor. The second return is false
// when the list is empty or only holds the placeholder entry.
func (s *Sidebar) Selected() (model.ListEntry, bool) {
	if len(s.entries) == 0 || s.cursor >= len(s.entries) {
		return model.ListEntry{}, false
	}
	entry := s.entries[s.cursor]
	if entry.Sentinel {
		return model.ListEntry{}, false
	}
	return entry, true
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	var sb strings.Builder
	sb.WriteString(s.theme.SidebarTitle.Render("Conversations"))
	sb.WriteString("\n")

	innerWidth := s.width - 4
	if innerWidth < 10 {
		innerWidth = 10
	}

	for i, entry := range s.entries {
		sb.WriteString("\n")

		if entry.Sentinel {
			sb.WriteString(s.theme.SidebarEmpty.Render(entry.Title))
			continue
		}

		title := util.TruncateWidth(entry.Title, innerWidth)
		style := s.theme.SidebarItem
		switch {
		case i == s.cursor && s.focused:
			style = s.theme.SidebarItemSelected
		case entry.ID == s.activeID:
			style = s.theme.SidebarItemActive
		}
		sb.WriteString(style.Render(title))

		if !s.compact {
			meta := model.RelativeTime(entry.UpdatedAt, time.Now()) +
				" · " + strconv.Itoa(entry.MessageCount)
			sb.WriteString("\n")
			sb.WriteString(s.theme.SidebarMeta.Render("  " + meta))
		}
	}

	box := s.theme.Sidebar
	if s.focused {
		box = s.theme.SidebarFocused
	}
	return box.Width(s.width).Height(s.height).Render(sb.String())
}
