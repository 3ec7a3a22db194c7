// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the shelfchat application.
//
// String Utilities:
//   - Ellipsize, ClampRunes: UTF-8 safe rune-count truncation
//   - StringWidth, TruncateWidth: terminal cell widths via go-runewidth
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
