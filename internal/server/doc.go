// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the local book recommendation agent HTTP API.
//
// The server answers with canned recommendations from a small built-in
// catalog, so the chat client can be developed and demoed without a live
// model behind it.
//
// # Endpoints
//
//   - GET  /         - Liveness banner
//   - GET  /welcome  - Welcome message for new conversations
//   - POST /chat     - Chat turn: {"message": "...", "user_id": "..."}
//   - GET  /health   - Health check with uptime and request counters
//
// Errors are returned as {"error": "..."} with an appropriate status code.
//
// # Usage
//
//	srv := server.NewServer(server.DefaultPort)
//	if err := srv.Start(); err != nil {
//		log.Fatal(err)
//	}
package server
