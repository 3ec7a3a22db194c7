// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides conversation persistence for shelfchat.
//
// The whole conversation table is one JSON blob, loaded and saved whole.
// Saves are atomic (temp file + fsync + rename); loads never fail hard, a
// missing or corrupt file just yields an empty table.
//
// # Usage
//
//	store := storage.NewStore(dataDir)
//	table := store.Load()
//	table.AppendMessage(id, msg)
//	err := store.Save(table)
//
// # Storage Location
//
// The blob lives at <data dir>/conversations.json with 0600 permissions.
package storage
