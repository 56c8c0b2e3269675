package chat

import (
	"log/slog"
	"time"
)

// ─── Transcript store ───────────────────────────────────────────────────────

// TranscriptStore holds the ordered message items of the active
// conversation. Items are only ever appended or wholesale replaced;
// switching conversations is always a Hydrate or a Reset, never a merge.
//
// The store is owned by a single session and is not safe for concurrent
// writers; all mutation is serialized by the caller's event loop.
type TranscriptStore struct {
	conversationID string
	items          []MessageItem

	now     func() time.Time // stubbed in tests
	turnSeq int              // monotonic live-turn counter
}

func NewTranscriptStore() *TranscriptStore {
	return &TranscriptStore{now: time.Now}
}

// ConversationID returns the conversation the transcript belongs to.
func (t *TranscriptStore) ConversationID() string {
	return t.conversationID
}

// Items returns the transcript in order. The returned slice is a copy, so
// appending to, reordering, or replacing its elements does not disturb the
// store. The items' parts still share underlying data; treat them as
// read-only.
func (t *TranscriptStore) Items() []MessageItem {
	out := make([]MessageItem, len(t.items))
	copy(out, t.items)
	return out
}

// Len reports the number of items in the transcript.
func (t *TranscriptStore) Len() int {
	return len(t.items)
}

// Hydrate replaces the whole transcript with the formatted history of
// conversationID. Formatting is total, so hydration is all-or-nothing by
// construction: a malformed turn degrades to literal text without
// affecting its neighbours.
func (t *TranscriptStore) Hydrate(conversationID string, turns []RawTurn) {
	items := make([]MessageItem, 0, len(turns))
	for i, turn := range turns {
		items = append(items, FormatHistoryTurn(turn, i)...)
	}
	t.conversationID = conversationID
	t.items = items
	t.turnSeq = 0
	slog.Debug("transcript hydrated",
		"conversation", conversationID, "turns", len(turns), "items", len(items))
}

// AdoptConversationID renames the conversation the transcript belongs to
// without touching its items. Used when the server assigns the ID for a
// conversation that started anonymously.
func (t *TranscriptStore) AdoptConversationID(conversationID string) {
	t.conversationID = conversationID
}

// Reset clears the transcript for a brand-new conversation.
func (t *TranscriptStore) Reset(conversationID string) {
	t.conversationID = conversationID
	t.items = nil
	t.turnSeq = 0
}

// AppendUserTurn records the user's message immediately, before the
// backend call is issued, and returns the appended item.
func (t *TranscriptStore) AppendUserTurn(text string) MessageItem {
	t.turnSeq++
	item := formatLiveUserTurn(text, t.now().UnixMilli(), t.turnSeq)
	t.items = append(t.items, item)
	return item
}

// AppendAssistantTurn formats a live bot reply and appends the resulting
// items, returning them in transcript order.
func (t *TranscriptStore) AppendAssistantTurn(rawBotMessage string) []MessageItem {
	t.turnSeq++
	items := formatLiveBotTurn(rawBotMessage, t.now().UnixMilli(), t.turnSeq)
	t.items = append(t.items, items...)
	return items
}
