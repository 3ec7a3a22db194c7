// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for shelfchat.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (SHELFCHAT_*)
//   - $XDG_CONFIG_HOME/shelfchat/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	agentURL := cfg.Agent.BaseURL
//	timeout := cfg.Agent.Timeout()
//
// A Watcher can hot-reload the global config when config.toml changes.
package config
