// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides conversation persistence for shelfchat.
package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/shelfchat/shelfchat/internal/model"
	"github.com/shelfchat/shelfchat/internal/util"
)

// FileName is the single blob every conversation lives in, under the app
// data directory.
const FileName = "conversations.json"

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// Store persists the whole conversation table as one JSON file. Every save
// rewrites the file atomically; every load reads it whole.
type Store struct {
	// BaseDir is the data directory, e.g. ~/.local/share/shelfchat
	BaseDir string

	logger *log.Logger
}

// NewStore creates a store rooted at dir. Diagnostics go to the standard
// logger unless SetLogger overrides it.
func NewStore(dir string) *Store {
	return &Store{BaseDir: dir, logger: log.Default()}
}

// SetLogger redirects the store's diagnostic output.
func (s *Store) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Path returns the blob's location on disk.
func (s *Store) Path() string {
	return filepath.Join(s.BaseDir, FileName)
}

// Load reads the conversation table from disk.
//
// RELIABILITY: Load never fails hard. A missing file, an unreadable file,
// or corrupt JSON all produce an empty table so the app starts cleanly; the
// cause is logged so the user can investigate if history went missing.
func (s *Store) Load() model.ConversationTable {
	path := s.Path()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Printf("storage: could not read %s, starting empty: %v", path, err)
		}
		return model.NewConversationTable()
	}

	var table model.ConversationTable
	if err := json.Unmarshal(data, &table); err != nil {
		s.logger.Printf("storage: corrupt conversation file %s, starting empty: %v", path, err)
		return model.NewConversationTable()
	}
	if table == nil {
		return model.NewConversationTable()
	}

	// Entries must carry their own key so lookups and saves agree
	for id, conv := range table {
		if conv == nil {
			delete(table, id)
			continue
		}
		conv.ID = id
	}
	return table
}

// Save writes the whole table to disk atomically with 0600 permissions.
func (s *Store) Save(table model.ConversationTable) error {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize conversations: %w", err)
	}

	if err := util.AtomicWriteFile(s.Path(), data, 0600); err != nil {
		return fmt.Errorf("failed to save conversations: %w", err)
	}
	return nil
}
