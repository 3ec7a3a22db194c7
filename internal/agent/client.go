// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package agent is the HTTP client for the book recommendation agent.
//
// The agent exposes two endpoints:
//
//	GET  /welcome  -> {"message": "..."}
//	POST /chat     -> {"response": "..."} or {"error": "..."}
//
// Errors the agent reports in-band ({"error": ...}) are distinguished from
// transport problems so callers can decide which belong in the transcript.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the agent API.
const (
	// DefaultBaseURL is where a locally running agent listens.
	DefaultBaseURL = "http://127.0.0.1:8787"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 1 * 1024 * 1024 // 1MB limit
)

// PERFORMANCE: Shared HTTP client with connection pooling for all agent
// requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// ErrServiceUnavailable indicates the agent could not serve the request at
// all (connection refused, 5xx with no usable body).
var ErrServiceUnavailable = errors.New("agent service unavailable")

// ServerError is an error the agent reported in-band via {"error": ...} in
// a 2xx response. These are part of the conversation and get persisted by
// the caller.
type ServerError struct {
	Message string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	return fmt.Sprintf("agent error: %s", e.Message)
}

// TransportError is a failure to complete the exchange: network errors,
// timeouts, unparseable responses, and any non-2xx status. Callers surface
// these without persisting.
type TransportError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %s", e.Reason)
}

// Unwrap exposes the underlying error for errors.Is checks.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// welcomeResponse is the body of GET /welcome.
type welcomeResponse struct {
	Message string `json:"message"`
}

// chatRequest is the body of POST /chat.
type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// chatResponse is the body of POST /chat. Exactly one field is set.
type chatResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Client talks to one agent instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a client for the agent at the default local address.
func NewClient() *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		httpClient: sharedHTTPClient,
		timeout:    DefaultTimeout,
	}
}

// WithBaseURL sets a custom base URL for the agent.
func (c *Client) WithBaseURL(url string) *Client {
	if url != "" {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
	return c
}

// WithTimeout sets the per-request timeout. This switches the client off the
// shared pooled transport onto a private one.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.timeout = timeout
		c.httpClient = &http.Client{
			Transport: sharedHTTPClient.Transport,
			Timeout:   timeout,
		}
	}
	return c
}

// WithHTTPClient substitutes the underlying HTTP client, used in tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// BaseURL returns the configured agent address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Welcome fetches the agent's greeting for a fresh conversation.
func (c *Client) Welcome(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/welcome", nil)
	if err != nil {
		return "", &TransportError{Reason: "invalid request", Err: err}
	}

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var welcome welcomeResponse
	if err := json.Unmarshal(body, &welcome); err != nil {
		return "", &TransportError{Reason: "malformed welcome response", Err: err}
	}
	if welcome.Message == "" {
		return "", &TransportError{Reason: "empty welcome response"}
	}
	return welcome.Message, nil
}

// Chat sends one user message and returns the agent's reply.
//
// An in-band {"error": ...} comes back as *ServerError; everything else that
// goes wrong is *TransportError or ErrServiceUnavailable.
func (c *Client) Chat(ctx context.Context, message, userID string) (string, error) {
	bodyBytes, err := json.Marshal(chatRequest{Message: message, UserID: userID})
	if err != nil {
		return "", &TransportError{Reason: "invalid request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", &TransportError{Reason: "invalid request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return "", &TransportError{Reason: "malformed chat response", Err: err}
	}
	if chat.Error != "" {
		return "", &ServerError{Message: chat.Error}
	}
	if chat.Response == "" {
		return "", &TransportError{Reason: "empty chat response"}
	}
	return chat.Response, nil
}

// do executes the request and returns the body for 2xx responses. Any
// non-2xx status is a transport error, even when the body carries an
// {"error": ...} payload.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TransportError{Reason: "request timed out", Err: err}
		}
		return nil, &TransportError{Reason: "connection failed", Err: fmt.Errorf("%w: %v", ErrServiceUnavailable, err)}
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, &TransportError{Reason: "failed to read response", Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	if resp.StatusCode >= 500 {
		return nil, &TransportError{
			Reason: fmt.Sprintf("agent returned HTTP %d", resp.StatusCode),
			Err:    ErrServiceUnavailable,
		}
	}
	return nil, &TransportError{Reason: fmt.Sprintf("agent returned HTTP %d", resp.StatusCode)}
}

// readResponse reads the response body with a size limit.
//
// SECURITY: Response size limit prevents memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}
