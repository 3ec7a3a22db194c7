// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session drives the chat lifecycle: which conversation is active,
// whether a request is in flight, and how agent replies land in the table.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/shelfchat/shelfchat/internal/agent"
	"github.com/shelfchat/shelfchat/internal/model"
	"github.com/shelfchat/shelfchat/internal/storage"
)

// State is the controller's request state.
type State int

const (
	// StateIdle means input is enabled and a send may begin.
	StateIdle State = iota
	// StateAwaitingResponse means one request is in flight. All mutating
	// operations are rejected until it resolves.
	StateAwaitingResponse
)

// String returns the state name.
func (s State) String() string {
	if s == StateAwaitingResponse {
		return "awaiting-response"
	}
	return "idle"
}

// DefaultWelcome is shown when the agent's /welcome endpoint cannot be
// reached. It mirrors the agent's own greeting.
const DefaultWelcome = `👋 欢迎使用图书推荐Agent！

📚 我可以帮助您：
   • 搜索图书信息
   • 基于您浏览的图书推荐相似图书
   • 根据您的阅读偏好推荐图书
   • 分析您的阅读趋势
   • 提供个性化的图书推荐

💬 请告诉我您需要什么帮助吧！`

var (
	// ErrBusy means a request is already in flight.
	ErrBusy = errors.New("a request is already in flight")

	// ErrEmptyMessage rejects empty or whitespace-only sends.
	ErrEmptyMessage = errors.New("message must not be empty")

	// ErrNoActiveConversation means a send was attempted before any
	// conversation existed.
	ErrNoActiveConversation = errors.New("no active conversation")
)

// =============================================================================
// TICKETS AND RESULTS
// =============================================================================

// SendTicket pins a send to the conversation that was active when it began.
// The reply lands there even if the user switches conversations meanwhile.
type SendTicket struct {
	ConversationID string
	Text           string
}

// SendResult is what a resolved send did to the transcript.
type SendResult struct {
	ConversationID string
	// Reply is the persisted agent message, either the response or the
	// in-band error text. Nil on transport failure.
	Reply *model.Message
	// Apology is a display-only line for transport failures. It is never
	// persisted.
	Apology string
}

// WelcomeTicket pins a welcome fetch to its new conversation.
type WelcomeTicket struct {
	ConversationID string
}

// WelcomeResult carries the persisted greeting of a new conversation.
type WelcomeResult struct {
	ConversationID string
	Message        model.Message
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the conversation table and the one-request-at-a-time rule.
//
// Mutating calls follow a begin/complete pattern: Begin* runs synchronously,
// flips the controller to StateAwaitingResponse and returns a ticket; the
// matching Complete* does the network exchange (no lock held) and applies the
// outcome to the ticket's conversation.
type Controller struct {
	mu     sync.Mutex
	store  *storage.Store
	client *agent.Client
	userID string
	logger *log.Logger

	table    model.ConversationTable
	activeID string
	state    State
}

// New loads the conversation table from store and returns an idle controller.
func New(store *storage.Store, client *agent.Client, userID string) *Controller {
	return &Controller{
		store:  store,
		client: client,
		userID: userID,
		logger: log.Default(),
		table:  store.Load(),
		state:  StateIdle,
	}
}

// SetLogger redirects the controller's diagnostic output.
func (c *Controller) SetLogger(l *log.Logger) {
	if l != nil {
		c.logger = l
	}
}

// SetClient swaps the agent client. Requests already in flight keep the
// client they started with; the next Complete* picks up the new one. Used
// when the config file changes the agent address at runtime.
func (c *Controller) SetClient(client *agent.Client) {
	if client == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client = client
}

// clientRef snapshots the client under the lock so Complete* can do the
// network exchange without holding it.
func (c *Controller) clientRef() *agent.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}

// State returns the current request state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ActiveID returns the active conversation's ID, or "" before the first
// conversation exists.
func (c *Controller) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// List derives the sidebar entries from the current table.
func (c *Controller) List() []model.ListEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.BuildList(c.table)
}

// Transcript returns a copy of the active conversation's messages, oldest
// first. Nil when no conversation is active.
func (c *Controller) Transcript() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	conv, ok := c.table[c.activeID]
	if !ok {
		return nil
	}
	msgs := make([]model.Message, len(conv.Messages))
	copy(msgs, conv.Messages)
	return msgs
}

// ActiveTitle returns the active conversation's title, or "" when none.
func (c *Controller) ActiveTitle() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if conv, ok := c.table[c.activeID]; ok {
		return conv.Title
	}
	return ""
}

// =============================================================================
// NEW CONVERSATION
// =============================================================================

// BeginNewConversation creates an empty conversation, makes it active, and
// enters StateAwaitingResponse for the welcome fetch. Rejected with ErrBusy
// while another request is in flight.
func (c *Controller) BeginNewConversation() (WelcomeTicket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return WelcomeTicket{}, ErrBusy
	}

	conv := model.NewConversation()
	c.table.Put(conv)
	c.activeID = conv.ID
	c.state = StateAwaitingResponse
	return WelcomeTicket{ConversationID: conv.ID}, nil
}

// CompleteWelcome fetches the greeting and persists it as the first agent
// message of the ticket's conversation. Any fetch failure falls back to
// DefaultWelcome, so a new conversation always opens with a greeting.
func (c *Controller) CompleteWelcome(ctx context.Context, ticket WelcomeTicket) WelcomeResult {
	text, err := c.clientRef().Welcome(ctx)
	if err != nil {
		c.logger.Printf("session: welcome fetch failed, using default greeting: %v", err)
		text = DefaultWelcome
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	msg := model.NewAgentMessage(text)
	if err := c.table.AppendMessage(ticket.ConversationID, msg); err != nil {
		c.logger.Printf("session: dropping welcome for %s: %v", ticket.ConversationID, err)
	} else {
		c.persistLocked()
	}
	c.state = StateIdle
	return WelcomeResult{ConversationID: ticket.ConversationID, Message: msg}
}

// =============================================================================
// SWITCH
// =============================================================================

// SwitchConversation makes id the active conversation. This is a read-only
// replay: no timestamps move and nothing is persisted, so it is allowed even
// while a request is in flight. The in-flight reply still lands in its
// ticket's conversation, not the newly active one. Unknown ids leave the
// active conversation unchanged.
func (c *Controller) SwitchConversation(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.table[id]; !ok {
		return model.ErrConversationNotFound
	}
	c.activeID = id
	return nil
}

// =============================================================================
// SEND
// =============================================================================

// BeginSend validates text, appends it as a user message to the active
// conversation, persists, and enters StateAwaitingResponse. The returned
// ticket pins the reply to the conversation that was active right now.
func (c *Controller) BeginSend(text string) (SendTicket, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return SendTicket{}, ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return SendTicket{}, ErrBusy
	}
	if _, ok := c.table[c.activeID]; !ok {
		return SendTicket{}, ErrNoActiveConversation
	}

	if err := c.table.AppendMessage(c.activeID, model.NewUserMessage(trimmed)); err != nil {
		return SendTicket{}, err
	}
	c.persistLocked()
	c.state = StateAwaitingResponse
	return SendTicket{ConversationID: c.activeID, Text: trimmed}, nil
}

// CompleteSend exchanges the ticket's text with the agent and applies the
// outcome:
//
//   - a response is persisted as an agent message
//   - an in-band agent error is persisted as "Error: <text>"
//   - a transport failure produces a display-only apology, nothing persists
//
// The controller returns to StateIdle in every case.
func (c *Controller) CompleteSend(ctx context.Context, ticket SendTicket) SendResult {
	reply, err := c.clientRef().Chat(ctx, ticket.Text, c.userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.state = StateIdle }()

	result := SendResult{ConversationID: ticket.ConversationID}

	switch {
	case err == nil:
		msg := model.NewAgentMessage(reply)
		result.Reply = &msg
	default:
		var serverErr *agent.ServerError
		if errors.As(err, &serverErr) {
			msg := model.NewAgentMessage(fmt.Sprintf("Error: %s", serverErr.Message))
			result.Reply = &msg
		} else {
			result.Apology = fmt.Sprintf("Sorry, a connection error occurred: %s", failureReason(err))
			return result
		}
	}

	if appendErr := c.table.AppendMessage(ticket.ConversationID, *result.Reply); appendErr != nil {
		c.logger.Printf("session: dropping reply for %s: %v", ticket.ConversationID, appendErr)
		result.Reply = nil
		return result
	}
	c.persistLocked()
	return result
}

// failureReason extracts a short human-readable reason for the apology line.
func failureReason(err error) string {
	var transportErr *agent.TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Reason
	}
	return err.Error()
}

// =============================================================================
// DELETE AND RENAME
// =============================================================================

// DeleteConversation removes id from the table and persists. The caller is
// expected to have confirmed with the user already. Returns whether the
// active conversation was the one deleted, in which case the caller should
// begin a new conversation.
func (c *Controller) DeleteConversation(id string) (wasActive bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return false, ErrBusy
	}

	wasActive = id == c.activeID && id != ""
	c.table.Delete(id)
	if wasActive {
		c.activeID = ""
	}
	c.persistLocked()
	return wasActive, nil
}

// RenameConversation sets a new title and persists. Empty or whitespace-only
// titles are rejected with model.ErrEmptyTitle and nothing changes.
func (c *Controller) RenameConversation(id, title string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return ErrBusy
	}

	if err := c.table.Rename(id, title); err != nil {
		return err
	}
	c.persistLocked()
	return nil
}

// persistLocked saves the table. Callers hold c.mu. Save failures are logged
// but do not abort the in-memory change: the session keeps working and the
// next successful save catches up.
func (c *Controller) persistLocked() {
	if err := c.store.Save(c.table); err != nil {
		c.logger.Printf("session: save failed: %v", err)
	}
}
