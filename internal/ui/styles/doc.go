// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the shelfchat TUI.

This package defines the color palette and theme used throughout the
application. All colors use Lip Gloss AdaptiveColor for automatic light/dark
terminal detection.

# Color System (colors.go)

Accent colors:

  - Purple - Primary accent for agent messages and selections
  - Cyan - Brand color for shortcuts and user highlights
  - Rose - Errors and delete confirmation
  - Amber - Warnings and the rename prompt

Message bubbles use semantic color tokens:

	UserBubbleBg  - Background for user messages
	UserBubbleFg  - Text color for user messages
	AgentBubbleBg - Background for agent messages
	AgentBubbleFg - Text color for agent messages

Text colors form a hierarchy: TextPrimary, TextSecondary, TextMuted, and
TextInverse for text on colored backgrounds.

# Theme System (theme.go)

The Theme struct provides runtime color adaptation:

	theme := styles.NewTheme()
	if theme.IsDark {
		// Dark terminal detected
	}

Theme styles cover the header, message bubbles, structured transcript lines,
the conversation sidebar, modal prompts, the input area, and the status bar.
SetSize and GetLayoutMode support responsive layouts.
*/
package styles
