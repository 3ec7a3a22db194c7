// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/shelfchat/shelfchat/internal/util"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// wordWrap wraps text to fit within the specified display width.
// UNICODE: widths are terminal cells, so CJK text wraps correctly.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for lineIdx, line := range strings.Split(text, "\n") {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		current := ""
		for _, word := range words {
			// Hard-break words wider than the whole line (CJK has no spaces)
			for util.StringWidth(word) > width {
				head, rest := splitAtWidth(word, width)
				if current != "" {
					result.WriteString(current)
					result.WriteString("\n")
					current = ""
				}
				result.WriteString(head)
				result.WriteString("\n")
				word = rest
			}
			if word == "" {
				continue
			}

			switch {
			case current == "":
				current = word
			case util.StringWidth(current)+1+util.StringWidth(word) <= width:
				current += " " + word
			default:
				result.WriteString(current)
				result.WriteString("\n")
				current = word
			}
		}
		result.WriteString(current)
	}

	return result.String()
}

// splitAtWidth splits s into a head of at most width cells and the rest.
func splitAtWidth(s string, width int) (string, string) {
	w := 0
	for i, r := range s {
		rw := util.StringWidth(string(r))
		if w+rw > width {
			return s[:i], s[i:]
		}
		w += rw
	}
	return s, ""
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	maxWidth := 0
	for _, line := range strings.Split(text, "\n") {
		if w := util.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
