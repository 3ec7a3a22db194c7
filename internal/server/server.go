// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultPort is the default port for the HTTP server.
	DefaultPort = 8787

	// MaxRequestBodySize caps request bodies to prevent DoS (1MB).
	MaxRequestBodySize = 1 * 1024 * 1024

	// MaxMessageLength caps a single chat message.
	MaxMessageLength = 10000

	// Version is the server version.
	Version = "0.1.0"
)

// ============================================================================
// SERVER
// ============================================================================

// Server is the development agent HTTP server.
type Server struct {
	port   int
	router *http.ServeMux
	server *http.Server

	totalRequests atomic.Int64
	startTime     time.Time
}

// NewServer creates a new Server. If port is 0, DefaultPort is used.
func NewServer(port int) *Server {
	if port == 0 {
		port = DefaultPort
	}

	s := &Server{
		port:      port,
		router:    http.NewServeMux(),
		startTime: time.Now(),
	}
	s.setupRoutes()
	return s
}

// Port returns the server port.
func (s *Server) Port() int {
	return s.port
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /", s.handleIndex)
	s.router.HandleFunc("GET /welcome", s.handleWelcome)
	s.router.HandleFunc("POST /chat", s.handleChat)
	s.router.HandleFunc("GET /health", s.handleHealth)
}

// ============================================================================
// TYPES
// ============================================================================

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.totalRequests.Add(1)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "Book Recommendation Agent is running!")
}

// handleWelcome serves the conversation greeting.
func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	s.totalRequests.Add(1)
	s.writeJSON(w, http.StatusOK, map[string]string{"message": WelcomeMessage})
}

// handleChat answers one chat message. Request problems come back as a
// 400 with an {"error": ...} body describing what was wrong.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.totalRequests.Add(1)

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("chat: invalid request body: %v", err)
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		s.writeError(w, http.StatusBadRequest, "No message provided")
		return
	}
	if len(req.Message) > MaxMessageLength {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("message exceeds %d bytes", MaxMessageLength))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"response": Respond(req.Message)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"version":        Version,
		"uptime_secs":    int64(time.Since(s.startTime).Seconds()),
		"total_requests": s.totalRequests.Load(),
	})
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Handler returns the fully wrapped handler, used by Start and by tests.
func (s *Server) Handler() http.Handler {
	return Chain(
		RecoveryMiddleware(),
		CORSMiddleware(DefaultCORSConfig()),
		LoggingMiddleware(log.Default()),
		RateLimitMiddleware(DefaultRateLimiter()),
	)(s.router)
}

// Start starts the HTTP server on localhost.
func (s *Server) Start() error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("SERVER_START | addr=%s version=%s", addr, Version)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Printf("SERVER_SHUTDOWN | requests_served=%d", s.totalRequests.Load())
	return s.server.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the flat {"error": ...} shape the chat client expects.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
