// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package format turns raw agent message text into classified display lines.
package format

import (
	"regexp"
	"strings"
)

// LineKind classifies a single display line.
type LineKind int

const (
	// LinePlain is ordinary text.
	LinePlain LineKind = iota
	// LineTitle is a heading line, recognized by its leading marker glyphs.
	LineTitle
	// LineListItem is a bulleted item with the bullet stripped.
	LineListItem
)

// String returns the kind name, used in logs and test failures.
func (k LineKind) String() string {
	switch k {
	case LineTitle:
		return "title"
	case LineListItem:
		return "list-item"
	default:
		return "plain"
	}
}

// Line is one classified display line.
type Line struct {
	Kind LineKind
	Text string
}

// titleGlyphs are the markers the agent prefixes to section headings. A line
// starting with a run of one or more of these renders as a title.
const titleGlyphs = "📚💬👋📖🎯🔍🎉✅❌⚠️💡🔧📝🌐🧠👤🔄📊"

var titleGlyphSet = func() map[rune]bool {
	set := make(map[rune]bool)
	for _, r := range titleGlyphs {
		set[r] = true
	}
	return set
}()

// listItemRe matches a bullet marker followed by at least one whitespace
// character. The match is stripped from the item text.
var listItemRe = regexp.MustCompile(`^[•·▪▫-]\s+`)

// ansiRe matches ANSI escape sequences (CSI and OSC forms).
var ansiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(\x07|\x1b\\)`)

// Message splits content into lines, trims each, and classifies the result.
// Blank and whitespace-only lines are skipped, so indented bullets classify
// the same as flush ones. Output order follows input order. Empty input
// yields no lines.
func Message(content string) []Line {
	if content == "" {
		return nil
	}

	var out []Line
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(Sanitize(raw))
		if line == "" {
			continue
		}
		out = append(out, classify(line))
	}
	return out
}

func classify(line string) Line {
	if hasTitlePrefix(line) {
		return Line{Kind: LineTitle, Text: line}
	}
	if loc := listItemRe.FindStringIndex(line); loc != nil {
		return Line{Kind: LineListItem, Text: line[loc[1]:]}
	}
	return Line{Kind: LinePlain, Text: line}
}

// hasTitlePrefix reports whether the line starts with at least one title
// glyph.
func hasTitlePrefix(line string) bool {
	for _, r := range line {
		return titleGlyphSet[r]
	}
	return false
}

// Sanitize treats message content as data: ANSI escape sequences and control
// characters (except tab) are removed so agent output cannot drive the
// terminal.
func Sanitize(s string) string {
	s = ansiRe.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
