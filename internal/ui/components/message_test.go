// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/shelfchat/shelfchat/internal/model"
	"github.com/shelfchat/shelfchat/internal/ui/styles"
)

func TestMessageBubbleUser(t *testing.T) {
	theme := styles.NewTheme()
	bubble := NewMessageBubble(model.NewUserMessage("find me a book"), theme)
	bubble.SetWidth(60)

	view := bubble.View()
	if !strings.Contains(view, "find me a book") {
		t.Error("user bubble should contain the message text")
	}
	if !strings.Contains(view, "you") {
		t.Error("user bubble should carry the role label")
	}
}

func TestMessageBubbleAgentStructure(t *testing.T) {
	theme := styles.NewTheme()
	content := "📚 推荐图书：\n• 三体\n• 活着\n科幻与文学各一本。"
	bubble := NewMessageBubble(model.NewAgentMessage(content), theme)
	bubble.SetWidth(60)

	view := bubble.View()
	for _, want := range []string{"推荐图书", "三体", "活着", "科幻与文学各一本"} {
		if !strings.Contains(view, want) {
			t.Errorf("agent bubble missing %q", want)
		}
	}
}

func TestMessageBubbleEmptyContent(t *testing.T) {
	theme := styles.NewTheme()
	bubble := NewMessageBubble(model.NewAgentMessage(""), theme)
	bubble.SetWidth(60)

	if view := bubble.View(); !strings.Contains(view, "...") {
		t.Error("empty message should render a placeholder")
	}
}

func TestRenderApology(t *testing.T) {
	theme := styles.NewTheme()
	out := RenderApology(theme, "Sorry, a connection error occurred: request timed out", 60)
	if !strings.Contains(out, "connection error") {
		t.Error("apology text missing from render")
	}
}
