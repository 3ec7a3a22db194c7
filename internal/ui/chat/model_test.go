// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shelfchat/shelfchat/internal/agent"
	"github.com/shelfchat/shelfchat/internal/session"
	"github.com/shelfchat/shelfchat/internal/storage"
	"github.com/shelfchat/shelfchat/internal/ui/styles"
)

// newTestModel wires a model against a stub agent server and a temp store.
func newTestModel(t *testing.T, respond func(message string) string) Model {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/welcome":
			json.NewEncoder(w).Encode(map[string]string{"message": "欢迎"})
		case "/chat":
			var req struct {
				Message string `json:"message"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			json.NewEncoder(w).Encode(map[string]string{"response": respond(req.Message)})
		}
	}))
	t.Cleanup(ts.Close)

	store := storage.NewStore(t.TempDir())
	client := agent.NewClient().WithBaseURL(ts.URL)
	ctrl := session.New(store, client, "test-user")

	return New(ctrl, styles.NewTheme())
}

// runCmd executes a command synchronously and feeds the result back through
// Update, the way the Bubble Tea runtime would.
func runCmd(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if msg == nil {
		return m
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = runCmd(t, m, c)
		}
		return m
	}
	m, next := m.Update(msg)
	return runCmd(t, m, next)
}

func sized(t *testing.T, m Model) tea.Model {
	var tm tea.Model
	tm, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return tm
}

func TestModelStartsConversationOnEmptyStore(t *testing.T) {
	m := newTestModel(t, func(string) string { return "ok" })

	if m.ctrl.ActiveID() == "" {
		t.Fatal("a fresh model should open a conversation")
	}
	if m.ctrl.State() != session.StateAwaitingResponse {
		t.Fatal("greeting fetch should be pending")
	}

	tm := runCmd(t, sized(t, m), m.Init())

	got := tm.(Model)
	if got.ctrl.State() != session.StateIdle {
		t.Error("controller should be idle after the greeting resolves")
	}
	transcript := got.ctrl.Transcript()
	if len(transcript) != 1 || transcript[0].Content != "欢迎" {
		t.Errorf("transcript = %+v, want the greeting", transcript)
	}
}

func TestSendRoundTrip(t *testing.T) {
	m := newTestModel(t, func(msg string) string { return "reply to " + msg })
	tm := runCmd(t, sized(t, m), m.Init())

	got := tm.(Model)
	got.input.Focus()
	for _, r := range "hello" {
		tm, _ = got.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		got = tm.(Model)
	}

	tm, cmd := got.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got = tm.(Model)
	if !got.input.Locked() {
		t.Error("input should lock while the reply is pending")
	}

	tm = runCmd(t, got, cmd)
	got = tm.(Model)
	if got.input.Locked() {
		t.Error("input should unlock once the reply lands")
	}

	transcript := got.ctrl.Transcript()
	last := transcript[len(transcript)-1]
	if last.Content != "reply to hello" {
		t.Errorf("last message = %q, want the reply", last.Content)
	}
}

func TestEnterWithEmptyInputDoesNothing(t *testing.T) {
	m := newTestModel(t, func(string) string { return "ok" })
	tm := runCmd(t, sized(t, m), m.Init())
	got := tm.(Model)

	before := len(got.ctrl.Transcript())
	tm, cmd := got.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("empty send should not produce a command")
	}
	got = tm.(Model)
	if len(got.ctrl.Transcript()) != before {
		t.Error("empty send should not touch the transcript")
	}
}

func TestDeleteActiveOpensReplacement(t *testing.T) {
	m := newTestModel(t, func(string) string { return "ok" })
	tm := runCmd(t, sized(t, m), m.Init())
	got := tm.(Model)

	originalID := got.ctrl.ActiveID()

	tm, _ = got.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	got = tm.(Model)
	if got.modal != modalConfirmDelete {
		t.Fatal("ctrl+d should open the confirmation overlay")
	}

	tm, cmd := got.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	got = tm.(Model)
	tm = runCmd(t, got, cmd)
	got = tm.(Model)

	if got.ctrl.ActiveID() == "" || got.ctrl.ActiveID() == originalID {
		t.Errorf("deleting the active conversation should open a new one, got %q", got.ctrl.ActiveID())
	}
}

func TestDeleteCancelKeepsConversation(t *testing.T) {
	m := newTestModel(t, func(string) string { return "ok" })
	tm := runCmd(t, sized(t, m), m.Init())
	got := tm.(Model)

	originalID := got.ctrl.ActiveID()
	tm, _ = got.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	got = tm.(Model)
	tm, _ = got.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	got = tm.(Model)

	if got.modal != modalNone {
		t.Error("n should dismiss the overlay")
	}
	if got.ctrl.ActiveID() != originalID {
		t.Error("cancelled delete should keep the conversation")
	}
}

func TestRenameValidation(t *testing.T) {
	m := newTestModel(t, func(string) string { return "ok" })
	tm := runCmd(t, sized(t, m), m.Init())
	got := tm.(Model)

	tm, _ = got.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	got = tm.(Model)
	if got.modal != modalRename {
		t.Fatal("ctrl+r should open the rename overlay")
	}

	// Clear the pre-filled title, then submit empty
	for range [60]struct{}{} {
		tm, _ = got.Update(tea.KeyMsg{Type: tea.KeyBackspace})
		got = tm.(Model)
	}
	tm, _ = got.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got = tm.(Model)

	if got.modal != modalRename {
		t.Error("empty title should keep the overlay open")
	}

	for _, r := range "science fiction picks" {
		tm, _ = got.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		got = tm.(Model)
	}
	tm, _ = got.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got = tm.(Model)

	if got.modal != modalNone {
		t.Error("valid rename should close the overlay")
	}
	if got.ctrl.ActiveTitle() != "science fiction picks" {
		t.Errorf("title = %q after rename", got.ctrl.ActiveTitle())
	}
}

func TestViewContainsTranscript(t *testing.T) {
	m := newTestModel(t, func(string) string { return "ok" })
	tm := runCmd(t, sized(t, m), m.Init())
	got := tm.(Model)

	if view := got.View(); !strings.Contains(view, "shelfchat") {
		t.Error("view should contain the header")
	}
}
