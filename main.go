// shelfchat - a terminal client for the book recommendation agent.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/shelfchat/shelfchat/internal/agent"
	"github.com/shelfchat/shelfchat/internal/config"
	"github.com/shelfchat/shelfchat/internal/session"
	"github.com/shelfchat/shelfchat/internal/storage"
	"github.com/shelfchat/shelfchat/internal/ui/chat"
	"github.com/shelfchat/shelfchat/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	agentURL := flag.String("agent-url", "", "agent base URL (overrides config)")
	dataDir := flag.String("data-dir", "", "conversation storage directory (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("shelfchat v%s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "shelfchat requires an interactive terminal")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *agentURL != "" {
		cfg.Agent.BaseURL = *agentURL
	}
	if *dataDir != "" {
		cfg.Storage.DataDir = *dataDir
	}
	config.SetGlobal(cfg)

	// Each installation gets a stable user ID on first run.
	if err := cfg.EnsureUserID(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file in the data dir.
	logger := newFileLogger(cfg.Storage.DataDir)

	store := storage.NewStore(cfg.Storage.DataDir)
	store.SetLogger(logger)

	client := agent.NewClient().
		WithBaseURL(cfg.Agent.BaseURL).
		WithTimeout(cfg.Agent.Timeout())

	ctrl := session.New(store, client, cfg.UserID)
	ctrl.SetLogger(logger)

	// Pick up config edits without a restart: retarget the agent client so
	// later requests hit the new address.
	watcher, err := config.WatchConfig(func(c *config.Config) {
		ctrl.SetClient(agent.NewClient().
			WithBaseURL(c.Agent.BaseURL).
			WithTimeout(c.Agent.Timeout()))
		logger.Printf("config reloaded: agent=%s", c.Agent.BaseURL)
	})
	if err != nil {
		logger.Printf("config watch unavailable: %v", err)
	} else {
		defer watcher.Close()
	}

	theme := styles.NewTheme()
	m := chat.New(ctrl, theme)
	m.SetShowTimestamps(cfg.UI.ShowTimestamps)
	m.SetCompactSidebar(cfg.UI.CompactSidebar)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running shelfchat: %v\n", err)
		os.Exit(1)
	}
}

// newFileLogger logs to <dataDir>/shelfchat.log, or discards when the file
// cannot be opened.
func newFileLogger(dataDir string) *log.Logger {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return log.New(io.Discard, "", 0)
	}
	f, err := os.OpenFile(filepath.Join(dataDir, "shelfchat.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return log.New(io.Discard, "", 0)
	}
	return log.New(f, "", log.LstdFlags)
}
