package chat

import "fmt"

// ─── Message model ──────────────────────────────────────────────────────────

// Role attributes a message item to one side of the conversation.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
)

func (r Role) String() string {
	if r == RoleUser {
		return "user"
	}
	return "assistant"
}

// PartType tags the variants of MessagePart.
type PartType int

const (
	PartText          PartType = iota // annotated narrative text
	PartCard                          // single expanded recommendation
	PartWatchlistCard                 // compact entry of a multi-card set
)

// MessagePart is one renderable fragment of a message item. Text parts
// carry units; card parts carry a recommendation. The card/watchlist split
// is fixed at formatting time and never re-derived from selection state.
type MessagePart struct {
	Type PartType
	Text []TextUnit
	Card *RecommendationCard
}

// MessageItem is one logical turn-fragment of the transcript.
// Parts keep the exact order the formatter produced.
type MessageItem struct {
	ID    string
	Role  Role
	Parts []MessagePart
}

func textItem(id string, role Role, units []TextUnit) MessageItem {
	return MessageItem{
		ID:    id,
		Role:  role,
		Parts: []MessagePart{{Type: PartText, Text: units}},
	}
}

func cardItem(id string, kind CardKind, card RecommendationCard) MessageItem {
	pt := PartCard
	if kind == KindWatchlist {
		pt = PartWatchlistCard
	}
	return MessageItem{
		ID:    id,
		Role:  RoleAssistant,
		Parts: []MessagePart{{Type: pt, Card: &card}},
	}
}

// ─── Item keys ──────────────────────────────────────────────────────────────
//
// Every item key combines the turn's origin, the turn position, the
// intra-turn sequence number, and a discriminator. History keys are stable
// across rehydration of the same history; live keys use the store's
// monotonic turn stamp so they never collide with history keys or each
// other within one transcript lifetime.

const (
	discUser = "user"
	discBot  = "bot"
	discCard = "card"
)

// historyKey builds the key for item seq of history turn turnIndex.
func historyKey(turnIndex, seq int, disc string) string {
	return fmt.Sprintf("h%d.%d.%s", turnIndex, seq, disc)
}

// liveKey builds the key for item seq of a live turn. stampMillis is the
// generation timestamp and turnSeq the store's monotonic turn counter,
// which breaks ties when two turns land in the same millisecond.
func liveKey(stampMillis int64, turnSeq, seq int, disc string) string {
	return fmt.Sprintf("t%d.%d.%d.%s", stampMillis, turnSeq, seq, disc)
}
