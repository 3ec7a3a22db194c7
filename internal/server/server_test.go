// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// HANDLER TESTS
// =============================================================================

func newTestServer() *Server {
	return NewServer(DefaultPort)
}

func postChat(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHandleIndex(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Book Recommendation Agent") {
		t.Errorf("body = %q, want liveness banner", w.Body.String())
	}
}

func TestHandleWelcome(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/welcome", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal welcome: %v", err)
	}
	if resp.Message != WelcomeMessage {
		t.Errorf("message = %q, want the welcome text", resp.Message)
	}
}

func TestHandleChat(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name     string
		message  string
		contains string
	}{
		{"search hit", "搜索《三体》", "三体"},
		{"search miss", "搜索不存在的书名啊", "没有找到"},
		{"similar recommendation", "推荐和《三体》相似的图书", "📖"},
		{"genre recommendation", "推荐科幻类型的图书", "🎯"},
		{"book detail", "三体的详细信息", "📚"},
		{"fallback help", "你好", "图书推荐助手"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(ChatRequest{Message: tt.message, UserID: "u-test"})
			w := postChat(t, s, string(body))

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}

			var resp struct {
				Response string `json:"response"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal chat response: %v", err)
			}
			if !strings.Contains(resp.Response, tt.contains) {
				t.Errorf("response = %q, want substring %q", resp.Response, tt.contains)
			}
		})
	}
}

func TestHandleChatErrors(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"empty message", `{"message": "", "user_id": "u1"}`, http.StatusBadRequest, "No message provided"},
		{"whitespace message", `{"message": "   ", "user_id": "u1"}`, http.StatusBadRequest, "No message provided"},
		{"malformed json", `{"message": `, http.StatusBadRequest, "invalid request body"},
		{"oversized message", `{"message": "` + strings.Repeat("a", MaxMessageLength+1) + `"}`, http.StatusBadRequest, "message exceeds 10000 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postChat(t, s, tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var resp struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal error response: %v", err)
			}
			if resp.Error != tt.wantError {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal health: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status field = %v, want ok", resp["status"])
	}
	if resp["version"] != Version {
		t.Errorf("version = %v, want %s", resp["version"], Version)
	}
}

// =============================================================================
// MIDDLEWARE TESTS
// =============================================================================

func TestCORSPreflight(t *testing.T) {
	s := newTestServer()
	handler := s.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q, want the request origin", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Errorf("Allow-Methods = %q, want POST included", got)
	}
}

func TestCORSUnknownOrigin(t *testing.T) {
	s := newTestServer()
	handler := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/welcome", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty for unknown origin", got)
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.1.2.3") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.1.2.3") {
		t.Error("request over the limit should be rejected")
	}
	if !rl.Allow("10.9.9.9") {
		t.Error("a different IP should have its own window")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond)

	if !rl.Allow("10.1.2.3") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("10.1.2.3") {
		t.Fatal("second request should be rejected")
	}

	time.Sleep(60 * time.Millisecond)
	if !rl.Allow("10.1.2.3") {
		t.Error("request after window expiry should be allowed")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	handler := RateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/welcome", nil)
		req.RemoteAddr = "203.0.113.5:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/welcome", nil)
	req.RemoteAddr = "203.0.113.5:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("429 response should carry Retry-After")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler blew up")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mk := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(mk("first"), mk("second"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	want := []string{"first", "second", "handler"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"direct connection", "203.0.113.5:1234", "", "203.0.113.5"},
		{"trusted proxy with forwarded header", "127.0.0.1:5000", "198.51.100.7", "198.51.100.7"},
		{"untrusted source cannot spoof", "203.0.113.5:1234", "198.51.100.7", "203.0.113.5"},
		{"forwarded chain uses first hop", "127.0.0.1:5000", "198.51.100.7, 10.0.0.1", "198.51.100.7"},
		{"garbage forwarded header falls back", "127.0.0.1:5000", "not-an-ip", "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := GetClientIP(req); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

// =============================================================================
// CATALOG TESTS
// =============================================================================

func TestRespondDispatch(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		contains []string
	}{
		{"search", "查找三体", []string{"🔍", "刘慈欣"}},
		{"similar", "推荐和三体相似的图书", []string{"📖", "同一作者"}},
		{"genre", "推荐魔幻现实主义类型的图书", []string{"🎯", "百年孤独"}},
		{"detail", "流浪地球的详情", []string{"📚", "流浪地球", "ISBN"}},
		{"help fallback", "今天天气不错", []string{"图书推荐助手", "•"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Respond(tt.message)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Respond(%q) = %q, want substring %q", tt.message, got, want)
				}
			}
		})
	}
}

func TestFindBook(t *testing.T) {
	b, ok := findBook("三体")
	if !ok || b.Author != "刘慈欣" {
		t.Errorf("exact match failed: %+v ok=%v", b, ok)
	}

	// Loose match tolerates stray words left around the title
	b, ok = findBook("那本三体小说")
	if !ok || b.Title != "三体" {
		t.Errorf("loose match failed: %+v ok=%v", b, ok)
	}

	if _, ok := findBook("完全不存在"); ok {
		t.Error("unknown title should not match")
	}
}

func TestExtractSubject(t *testing.T) {
	tests := []struct {
		in       string
		keywords []string
		want     string
	}{
		{"搜索《三体》", []string{"搜索", "查找"}, "三体"},
		{"查找活着", []string{"搜索", "查找"}, "活着"},
		{"三体的详细信息", []string{"详情", "详细信息", "信息", "的"}, "三体"},
	}

	for _, tt := range tests {
		if got := extractSubject(tt.in, tt.keywords...); got != tt.want {
			t.Errorf("extractSubject(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
