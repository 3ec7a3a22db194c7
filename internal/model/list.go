// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"sort"
	"time"
)

// SentinelListLabel is shown as the only list entry when no conversations
// exist yet. The entry is not selectable.
const SentinelListLabel = "no conversations yet"

// ListEntry is one row of the conversation sidebar.
type ListEntry struct {
	ID           string
	Title        string
	UpdatedAt    time.Time
	MessageCount int
	// Sentinel marks the placeholder row rendered for an empty table.
	Sentinel bool
}

// BuildList derives the sidebar rows from a conversation table: most
// recently updated first, ties broken by ID so the order is deterministic.
// An empty table yields exactly one sentinel entry.
func BuildList(table ConversationTable) []ListEntry {
	if len(table) == 0 {
		return []ListEntry{{Title: SentinelListLabel, Sentinel: true}}
	}

	entries := make([]ListEntry, 0, len(table))
	for _, conv := range table {
		entries = append(entries, ListEntry{
			ID:           conv.ID,
			Title:        conv.Title,
			UpdatedAt:    conv.UpdatedAt,
			MessageCount: len(conv.Messages),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].UpdatedAt.Equal(entries[j].UpdatedAt) {
			return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
		}
		return entries[i].ID < entries[j].ID
	})

	return entries
}

// RelativeTime renders t relative to now in compact sidebar form.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
