// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shelfchat/shelfchat/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(t.TempDir())
	store.SetLogger(log.New(io.Discard, "", 0))
	return store
}

// =============================================================================
// LOAD TESTS
// =============================================================================

func TestStore_Load_MissingFileIsEmptyTable(t *testing.T) {
	store := newTestStore(t)

	table := store.Load()
	if table == nil {
		t.Fatal("Load returned nil table")
	}
	if len(table) != 0 {
		t.Errorf("Expected empty table, got %d entries", len(table))
	}
}

func TestStore_Load_CorruptFileIsEmptyTable(t *testing.T) {
	store := newTestStore(t)

	if err := os.MkdirAll(store.BaseDir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	table := store.Load()
	if len(table) != 0 {
		t.Errorf("Expected empty table from corrupt file, got %d entries", len(table))
	}
}

func TestStore_Load_JSONNullIsEmptyTable(t *testing.T) {
	store := newTestStore(t)

	if err := os.MkdirAll(store.BaseDir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte("null"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	table := store.Load()
	if table == nil {
		t.Fatal("Load returned nil table")
	}
	if len(table) != 0 {
		t.Errorf("Expected empty table, got %d entries", len(table))
	}
}

// =============================================================================
// ROUND TRIP TESTS
// =============================================================================

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	table := model.NewConversationTable()
	conv := model.NewConversation()
	conv.AddMessage(model.NewAgentMessage("👋 welcome"))
	conv.AddMessage(model.NewUserMessage("recommend sci-fi 科幻"))
	conv.AddMessage(model.NewAgentMessage("📚 Picks\n• Dune"))
	table.Put(conv)

	if err := store.Save(table); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := store.Load()
	if len(loaded) != 1 {
		t.Fatalf("Expected 1 conversation, got %d", len(loaded))
	}

	got, err := loaded.Get(conv.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != conv.Title {
		t.Errorf("Title = %q, want %q", got.Title, conv.Title)
	}
	if len(got.Messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(got.Messages))
	}
	for i, msg := range got.Messages {
		if msg.Content != conv.Messages[i].Content {
			t.Errorf("Message %d content = %q, want %q", i, msg.Content, conv.Messages[i].Content)
		}
		if msg.Role != conv.Messages[i].Role {
			t.Errorf("Message %d role = %q, want %q", i, msg.Role, conv.Messages[i].Role)
		}
		if !msg.Timestamp.Equal(conv.Messages[i].Timestamp) {
			t.Errorf("Message %d timestamp drifted: %v vs %v", i, msg.Timestamp, conv.Messages[i].Timestamp)
		}
	}
	if !got.UpdatedAt.Equal(conv.UpdatedAt) {
		t.Errorf("UpdatedAt drifted: %v vs %v", got.UpdatedAt, conv.UpdatedAt)
	}
}

func TestStore_Save_Overwrite(t *testing.T) {
	store := newTestStore(t)

	table := model.NewConversationTable()
	conv := model.NewConversation()
	table.Put(conv)
	if err := store.Save(table); err != nil {
		t.Fatalf("First save failed: %v", err)
	}

	table.Delete(conv.ID)
	if err := store.Save(table); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	if loaded := store.Load(); len(loaded) != 0 {
		t.Errorf("Expected 0 conversations after delete+save, got %d", len(loaded))
	}
}

func TestStore_Save_FilePermissions(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(model.NewConversationTable()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Permissions = %o, want 0600", perm)
	}
}

func TestStore_Load_KeyWinsOverEmbeddedID(t *testing.T) {
	store := newTestStore(t)

	if err := os.MkdirAll(store.BaseDir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	blob := `{"conv_aaa": {"id": "conv_zzz", "title": "untitled", "created_at": "2026-08-01T12:00:00Z", "updated_at": "2026-08-01T12:00:00Z", "messages": []}}`
	if err := os.WriteFile(store.Path(), []byte(blob), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	table := store.Load()
	got, err := table.Get("conv_aaa")
	if err != nil {
		t.Fatalf("Get by key failed: %v", err)
	}
	if got.ID != "conv_aaa" {
		t.Errorf("ID = %q, want key conv_aaa", got.ID)
	}
}

func TestStore_Path(t *testing.T) {
	store := NewStore("/tmp/data")
	want := filepath.Join("/tmp/data", FileName)
	if store.Path() != want {
		t.Errorf("Path = %q, want %q", store.Path(), want)
	}
}

func TestStore_TimestampsSurviveRoundTrip(t *testing.T) {
	store := newTestStore(t)

	ts := time.Date(2026, 8, 30, 9, 30, 0, 123456789, time.UTC)
	table := model.NewConversationTable()
	table.Put(&model.Conversation{
		ID:        "conv_fixed",
		Title:     "pinned",
		CreatedAt: ts,
		UpdatedAt: ts,
		Messages:  []model.Message{{Role: model.RoleUser, Content: "hi", Timestamp: ts}},
	})

	if err := store.Save(table); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load().Get("conv_fixed")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.CreatedAt.Equal(ts) || !got.UpdatedAt.Equal(ts) {
		t.Errorf("Conversation timestamps drifted: %v / %v", got.CreatedAt, got.UpdatedAt)
	}
	if !got.Messages[0].Timestamp.Equal(ts) {
		t.Errorf("Message timestamp drifted: %v", got.Messages[0].Timestamp)
	}
}
