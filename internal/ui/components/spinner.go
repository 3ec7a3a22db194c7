// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shelfchat/shelfchat/internal/ui/styles"
)

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// TypingMessage is shown while the agent composes a reply.
const TypingMessage = "正在生成中"

// TypingIndicator is the animated "reply pending" line shown in the
// transcript while a send is in flight.
type TypingIndicator struct {
	spinner   spinner.Model
	theme     *styles.Theme
	startTime time.Time
	active    bool
}

// NewTypingIndicator creates an indicator with an ASCII-safe spinner.
func NewTypingIndicator(theme *styles.Theme) TypingIndicator {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	return TypingIndicator{
		spinner: s,
		theme:   theme,
	}
}

// Start activates the indicator and returns the tick command that drives it.
func (t *TypingIndicator) Start() tea.Cmd {
	t.active = true
	t.startTime = time.Now()
	return t.spinner.Tick
}

// Stop deactivates the indicator.
func (t *TypingIndicator) Stop() {
	t.active = false
}

// IsActive returns whether the indicator is running.
func (t *TypingIndicator) IsActive() bool {
	return t.active
}

// Update advances the spinner animation.
func (t TypingIndicator) Update(msg tea.Msg) (TypingIndicator, tea.Cmd) {
	if !t.active {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders the indicator, or nothing when inactive.
func (t TypingIndicator) View() string {
	if !t.active {
		return ""
	}

	out := t.theme.Spinner.Render(t.spinner.View()) +
		" " + t.theme.ThinkingText.Render(TypingMessage) +
		t.theme.Spinner.Render("...")

	if !t.startTime.IsZero() {
		elapsed := int(time.Since(t.startTime).Seconds())
		if elapsed >= 3 {
			out += t.theme.Timestamp.Render(" (" + formatSeconds(elapsed) + ")")
		}
	}
	return out
}

// formatSeconds formats an elapsed second count as "12s" or "1m 05s".
func formatSeconds(seconds int) string {
	if seconds < 60 {
		return strconv.Itoa(seconds) + "s"
	}
	mins := seconds / 60
	secs := seconds % 60
	return fmt.Sprintf("%dm %02ds", mins, secs)
}
