package chat

import (
	"errors"
	"testing"
	"time"

	"arbor-cli/internal/api"
)

// mockBackend scripts chat and history responses.
type mockBackend struct {
	chatResp    *api.ChatResponse
	chatErr     error
	historyResp map[string][]RawTurn
	historyErr  error

	chatCalls []api.ChatRequest
}

func (m *mockBackend) Chat(req api.ChatRequest) (*api.ChatResponse, error) {
	m.chatCalls = append(m.chatCalls, req)
	if m.chatErr != nil {
		return nil, m.chatErr
	}
	return m.chatResp, nil
}

func (m *mockBackend) ChatHistory(userID, conversationID string) (*api.ChatHistoryResponse, error) {
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return &api.ChatHistoryResponse{ChatHistory: m.historyResp[conversationID]}, nil
}

func testSession(backend Backend) *Session {
	s := NewSession(backend, "user-1")
	s.store.now = func() time.Time { return time.UnixMilli(1000) }
	n := 0
	s.newID = func() string {
		n++
		return "generated-" + string(rune('0'+n))
	}
	return s
}

func TestSendAppendsUserThenAssistant(t *testing.T) {
	reply := botPayloadJSON(t, []string{"Here is my take."}, nil)
	backend := &mockBackend{
		chatResp: &api.ChatResponse{BotMessage: reply, ConversationID: "conv-1"},
	}
	s := testSession(backend)
	s.BeginSwitch("conv-1")

	items := s.Send("should I buy AAPL?")

	if len(items) != 1 {
		t.Fatalf("reply items = %d, want 1", len(items))
	}
	all := s.Transcript().Items()
	if len(all) != 2 {
		t.Fatalf("transcript = %d items, want 2", len(all))
	}
	if all[0].Role != RoleUser || all[1].Role != RoleAssistant {
		t.Errorf("roles = %v, %v", all[0].Role, all[1].Role)
	}

	// The request carried the session's identity and conversation.
	req := backend.chatCalls[0]
	if req.UserID != "user-1" || req.ConversationID != "conv-1" || req.IsNewChat {
		t.Errorf("request = %+v", req)
	}
}

func TestSendTransportFailure(t *testing.T) {
	backend := &mockBackend{chatErr: errors.New("connection refused")}
	s := testSession(backend)
	s.BeginSwitch("conv-1")

	items := s.Send("hello?")

	if len(items) != 1 {
		t.Fatalf("items = %d, want 1 synthetic reply", len(items))
	}
	if items[0].Role != RoleAssistant {
		t.Errorf("role = %v", items[0].Role)
	}
	if got := Plain(items[0].Parts[0].Text); got != errorReplyText {
		t.Errorf("text = %q, want apology", got)
	}
	// Both the user turn and the apology are in the transcript.
	if s.Transcript().Len() != 2 {
		t.Errorf("transcript len = %d, want 2", s.Transcript().Len())
	}
}

func TestNewConversation(t *testing.T) {
	s := testSession(&mockBackend{})
	s.Transcript().Hydrate("old", []RawTurn{userTurn("hi")})
	s.ToggleCard("AAPL")

	id := s.NewConversation()

	if id == "" || id == "old" {
		t.Errorf("id = %q", id)
	}
	if s.Transcript().Len() != 0 {
		t.Error("transcript not reset")
	}
	if s.Selection().Focused() != "" {
		t.Error("selection not cleared")
	}

	// First send in a new conversation flags is_new_chat, then clears it.
	backend := &mockBackend{chatResp: &api.ChatResponse{BotMessage: "ok", ConversationID: id}}
	s.backend = backend
	s.Send("first")
	s.Send("second")
	if !backend.chatCalls[0].IsNewChat {
		t.Error("first turn should carry is_new_chat")
	}
	if backend.chatCalls[1].IsNewChat {
		t.Error("second turn should not carry is_new_chat")
	}
}

func TestSwitchConversationHydrates(t *testing.T) {
	backend := &mockBackend{historyResp: map[string][]RawTurn{
		"conv-2": {userTurn("old question"), botTurn("old answer")},
	}}
	s := testSession(backend)
	s.ToggleCard("AAPL")

	if err := s.SwitchConversation("conv-2"); err != nil {
		t.Fatalf("SwitchConversation: %v", err)
	}
	if s.Transcript().Len() != 2 {
		t.Errorf("transcript len = %d, want 2", s.Transcript().Len())
	}
	if s.Selection().Focused() != "" {
		t.Error("selection survived a conversation switch")
	}
}

func TestSwitchConversationFetchFailure(t *testing.T) {
	backend := &mockBackend{historyErr: errors.New("boom")}
	s := testSession(backend)
	s.Transcript().Hydrate("conv-1", []RawTurn{userTurn("hi")})

	err := s.SwitchConversation("conv-2")

	if err == nil {
		t.Fatal("want error")
	}
	// Failure leaves the new conversation's transcript empty, never the
	// old conversation's items.
	if s.Transcript().Len() != 0 {
		t.Errorf("transcript len = %d, want 0", s.Transcript().Len())
	}
	if s.Transcript().ConversationID() != "conv-2" {
		t.Errorf("conversation = %q", s.Transcript().ConversationID())
	}
}

func TestStaleReplyDiscarded(t *testing.T) {
	reply := botPayloadJSON(t, []string{"late answer"}, nil)
	backend := &mockBackend{chatResp: &api.ChatResponse{BotMessage: reply}}
	s := testSession(backend)
	s.BeginSwitch("conv-1")

	_, req := s.BeginTurn("slow question")
	captured := s.ConversationID()

	// User switches away while the request is in flight.
	s.BeginSwitch("conv-2")

	resp, err := backend.Chat(req)
	items := s.ApplyReply(captured, resp, err)

	if items != nil {
		t.Errorf("stale reply applied: %+v", items)
	}
	if s.Transcript().Len() != 0 {
		t.Errorf("conv-2 transcript polluted: %d items", s.Transcript().Len())
	}
}

func TestStaleHistoryDiscarded(t *testing.T) {
	s := testSession(&mockBackend{})
	captured := s.BeginSwitch("conv-1")
	s.BeginSwitch("conv-2")

	applied := s.ApplyHistory(captured, []RawTurn{userTurn("old")}, nil)

	if applied {
		t.Error("stale history applied")
	}
	if s.Transcript().Len() != 0 {
		t.Errorf("transcript len = %d, want 0", s.Transcript().Len())
	}
}

func TestAdoptServerConversationID(t *testing.T) {
	backend := &mockBackend{chatResp: &api.ChatResponse{
		BotMessage:     "welcome",
		ConversationID: "server-assigned",
	}}
	s := testSession(backend)
	// No conversation selected yet: anonymous first message.
	s.Send("hello")

	if s.ConversationID() != "server-assigned" {
		t.Errorf("conversation = %q", s.ConversationID())
	}
	if s.Transcript().ConversationID() != "server-assigned" {
		t.Errorf("transcript conversation = %q", s.Transcript().ConversationID())
	}
}
