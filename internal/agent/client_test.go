// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Welcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/welcome", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"message": "👋 Welcome to the book agent!"})
	}))
	defer srv.Close()

	client := NewClient().WithBaseURL(srv.URL)
	msg, err := client.Welcome(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "👋 Welcome to the book agent!", msg)
}

func TestClient_Welcome_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient().WithBaseURL(srv.URL)
	_, err := client.Welcome(context.Background())
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestClient_Chat_Response(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat", r.URL.Path)

		var req struct {
			Message string `json:"message"`
			UserID  string `json:"user_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "recommend sci-fi", req.Message)
		assert.Equal(t, "user-123", req.UserID)

		json.NewEncoder(w).Encode(map[string]string{"response": "📚 Try Dune."})
	}))
	defer srv.Close()

	client := NewClient().WithBaseURL(srv.URL)
	reply, err := client.Chat(context.Background(), "recommend sci-fi", "user-123")
	require.NoError(t, err)
	assert.Equal(t, "📚 Try Dune.", reply)
}

func TestClient_Chat_InBandError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "model overloaded"})
	}))
	defer srv.Close()

	client := NewClient().WithBaseURL(srv.URL)
	_, err := client.Chat(context.Background(), "hi", "u")
	require.Error(t, err)

	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "model overloaded", se.Message)
}

func TestClient_Chat_ErrorStatusIsTransportFailure(t *testing.T) {
	// An {"error": ...} body only counts as in-band when the status is 2xx.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "message must not be empty"})
	}))
	defer srv.Close()

	client := NewClient().WithBaseURL(srv.URL)
	_, err := client.Chat(context.Background(), "", "u")
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.Reason, "400")

	var se *ServerError
	assert.False(t, errors.As(err, &se))
}

func TestClient_Chat_BareServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient().WithBaseURL(srv.URL)
	_, err := client.Chat(context.Background(), "hi", "u")
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestClient_Chat_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := NewClient().WithBaseURL(srv.URL)
	_, err := client.Chat(context.Background(), "hi", "u")

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.Reason, "malformed")
}

func TestClient_Chat_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]string{"response": "late"})
	}))
	defer srv.Close()

	client := NewClient().WithBaseURL(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Chat(ctx, "hi", "u")
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
}

func TestClient_Chat_ResponseTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		huge := strings.Repeat("x", MaxResponseSize+1)
		json.NewEncoder(w).Encode(map[string]string{"response": huge})
	}))
	defer srv.Close()

	client := NewClient().WithBaseURL(srv.URL)
	_, err := client.Chat(context.Background(), "hi", "u")
	require.Error(t, err)
}

func TestClient_WithBaseURL_TrimsTrailingSlash(t *testing.T) {
	client := NewClient().WithBaseURL("http://example.test/")
	assert.Equal(t, "http://example.test", client.BaseURL())
}

func TestClient_ErrorStrings(t *testing.T) {
	se := &ServerError{Message: "boom"}
	assert.Contains(t, se.Error(), "boom")

	te := &TransportError{Reason: "connection failed", Err: errors.New("refused")}
	assert.Contains(t, te.Error(), "connection failed")
}
