package chat

import (
	"log/slog"

	"arbor-cli/internal/api"

	"github.com/google/uuid"
)

// errorReplyText is shown as a synthetic assistant message when the chat
// call fails. Transport failures never fail the session.
const errorReplyText = "Sorry, something went wrong. Please try again."

// Backend is the slice of the Arbor API the session needs.
// *api.Client satisfies it.
type Backend interface {
	Chat(req api.ChatRequest) (*api.ChatResponse, error)
	ChatHistory(userID, conversationID string) (*api.ChatHistoryResponse, error)
}

// Session owns the transcript and card selection of one active
// conversation and drives the request/response turn cycle against the
// backend. All mutation is serialized by the caller; a Session has no
// internal locking.
//
// Every backend result is guarded by the conversation ID captured when the
// request was issued: if the user switches conversations while a request
// is in flight, the stale result is discarded instead of corrupting the
// newly selected transcript.
type Session struct {
	backend   Backend
	store     *TranscriptStore
	selection *SelectionController

	userID         string
	conversationID string
	isNewChat      bool

	newID func() string // stubbed in tests
}

func NewSession(backend Backend, userID string) *Session {
	return &Session{
		backend:   backend,
		store:     NewTranscriptStore(),
		selection: &SelectionController{},
		userID:    userID,
		newID:     uuid.NewString,
	}
}

func (s *Session) Transcript() *TranscriptStore    { return s.store }
func (s *Session) Selection() *SelectionController { return s.selection }
func (s *Session) ConversationID() string          { return s.conversationID }
func (s *Session) UserID() string                  { return s.userID }

// ─── Conversation lifecycle ─────────────────────────────────────────────────

// NewConversation starts a fresh, empty conversation and returns its ID.
func (s *Session) NewConversation() string {
	id := s.newID()
	s.conversationID = id
	s.isNewChat = true
	s.selection.Clear()
	s.store.Reset(id)
	return id
}

// BeginSwitch makes conversationID the active conversation and clears the
// per-conversation state. The caller then fetches history and hands the
// result to ApplyHistory; the returned ID is the capture for the guard.
func (s *Session) BeginSwitch(conversationID string) string {
	s.conversationID = conversationID
	s.isNewChat = false
	s.selection.Clear()
	s.store.Reset(conversationID)
	return conversationID
}

// ApplyHistory hydrates the transcript from a history fetch, unless the
// active conversation has changed since the request was captured. A fetch
// failure leaves the transcript empty. Reports whether the result was
// applied.
func (s *Session) ApplyHistory(capturedID string, turns []RawTurn, err error) bool {
	if capturedID != s.conversationID {
		slog.Debug("discarding stale history response",
			"captured", capturedID, "active", s.conversationID)
		return false
	}
	if err != nil {
		slog.Debug("history fetch failed", "conversation", capturedID, "err", err)
		s.store.Reset(capturedID)
		return true
	}
	s.store.Hydrate(capturedID, turns)
	return true
}

// SwitchConversation is the synchronous switch used by one-shot commands:
// begin, fetch, apply.
func (s *Session) SwitchConversation(conversationID string) error {
	captured := s.BeginSwitch(conversationID)
	resp, err := s.backend.ChatHistory(s.userID, conversationID)
	if err != nil {
		s.ApplyHistory(captured, nil, err)
		return err
	}
	s.ApplyHistory(captured, resp.ChatHistory, nil)
	return nil
}

// ─── Turn cycle ─────────────────────────────────────────────────────────────

// BeginTurn records the user's message immediately and returns the item
// plus the request to send. The user item is in the transcript before the
// backend call starts, so the UI shows it at once.
func (s *Session) BeginTurn(text string) (MessageItem, api.ChatRequest) {
	item := s.store.AppendUserTurn(text)
	req := api.ChatRequest{
		UserMessage:    text,
		UserID:         s.userID,
		ConversationID: s.conversationID,
		IsNewChat:      s.isNewChat,
	}
	return item, req
}

// ApplyReply appends the assistant's items for a completed chat call,
// unless the conversation changed while the call was in flight. Transport
// failure degrades to a single synthetic assistant message. Returns the
// appended items; nil when the reply was stale.
func (s *Session) ApplyReply(capturedID string, resp *api.ChatResponse, err error) []MessageItem {
	if capturedID != s.conversationID {
		slog.Debug("discarding stale chat reply",
			"captured", capturedID, "active", s.conversationID)
		return nil
	}
	if err != nil {
		slog.Debug("chat request failed", "conversation", capturedID, "err", err)
		return s.store.AppendAssistantTurn(errorReplyText)
	}
	s.isNewChat = false
	if resp.ConversationID != "" && s.conversationID == "" {
		// Server assigned an ID for an anonymous/new conversation.
		s.conversationID = resp.ConversationID
		s.store.AdoptConversationID(resp.ConversationID)
	}
	return s.store.AppendAssistantTurn(resp.BotMessage)
}

// Send runs one full turn synchronously: record the user message, call
// the backend, append the reply. Total: transport failure shows up as the
// synthetic assistant message, never as a session error.
func (s *Session) Send(text string) []MessageItem {
	_, req := s.BeginTurn(text)
	captured := s.conversationID
	resp, err := s.backend.Chat(req)
	return s.ApplyReply(captured, resp, err)
}

// ToggleCard flips the expanded/collapsed state of a watchlist card.
// Returns the now-focused ticker, empty when collapsed.
func (s *Session) ToggleCard(ticker string) string {
	return s.selection.Toggle(ticker)
}
