package chat

import (
	"encoding/json"
	"log/slog"
	"strings"

	"arbor-cli/internal/api"
)

// ─── Raw turns ──────────────────────────────────────────────────────────────

// RawTurn is one recorded exchange unit as the backend stores it.
type RawTurn = api.RawTurn

// botPayload is the structured shape a bot message may carry. A bot message
// that is not valid JSON of this shape renders as plain text instead.
type botPayload struct {
	ChatMessages []string             `json:"chat_messages"`
	Cards        []RecommendationCard `json:"cards"`
}

// parseBotPayload attempts the structured decode of a bot message. The
// result is a tagged pair, never an error: callers branch on ok, and the
// unparsed branch falls back to the raw string.
func parseBotPayload(message string) (botPayload, bool) {
	trimmed := strings.TrimSpace(message)
	if !strings.HasPrefix(trimmed, "{") {
		return botPayload{}, false
	}
	var p struct {
		ChatMessages *[]string            `json:"chat_messages"`
		Cards        []RecommendationCard `json:"cards"`
	}
	if err := json.Unmarshal([]byte(trimmed), &p); err != nil {
		return botPayload{}, false
	}
	if p.ChatMessages == nil {
		// JSON object, but not a chat payload.
		return botPayload{}, false
	}
	return botPayload{ChatMessages: *p.ChatMessages, Cards: p.Cards}, true
}

// ─── Turn formatting ────────────────────────────────────────────────────────
//
// A keyFunc maps (intra-turn seq, discriminator) to an item key, so the
// same formatting logic serves both history hydration and live appends.

type keyFunc func(seq int, disc string) string

// FormatHistoryTurn converts one history turn into message items using
// history-stable keys. Always returns at least one item.
func FormatHistoryTurn(turn RawTurn, turnIndex int) []MessageItem {
	key := func(seq int, disc string) string {
		return historyKey(turnIndex, seq, disc)
	}
	if turn.Sender == "bot" {
		return formatBotMessage(turn.Message, key)
	}
	// User text is recorded verbatim and never parsed as a payload.
	return []MessageItem{textItem(key(0, discUser), RoleUser, Literal(turn.Message))}
}

// formatBotMessage reduces one raw bot message to items: parsed payloads
// yield one text item per chat message followed by one item per card, with
// the card part type classified once for the whole turn. Unparsed messages
// degrade to a single literal text item; the turn is never dropped.
func formatBotMessage(message string, key keyFunc) []MessageItem {
	payload, ok := parseBotPayload(message)
	if !ok {
		slog.Debug("bot message is not a structured payload, rendering verbatim",
			"len", len(message))
		return []MessageItem{textItem(key(0, discBot), RoleAssistant, Literal(message))}
	}

	var items []MessageItem
	for i, msg := range payload.ChatMessages {
		items = append(items, textItem(key(i, discBot), RoleAssistant, Annotate(msg)))
	}

	cls := Classify(payload.Cards)
	for i, card := range cls.Items {
		items = append(items, cardItem(key(i, discCard), cls.Kind, card))
	}

	if len(items) == 0 {
		// Well-formed but empty payload: keep the turn visible as an
		// empty line rather than vanishing it.
		items = append(items, textItem(key(0, discBot), RoleAssistant, Literal("")))
	}
	return items
}

func formatLiveUserTurn(text string, stampMillis int64, turnSeq int) MessageItem {
	return textItem(liveKey(stampMillis, turnSeq, 0, discUser), RoleUser, Literal(text))
}

func formatLiveBotTurn(message string, stampMillis int64, turnSeq int) []MessageItem {
	key := func(seq int, disc string) string {
		return liveKey(stampMillis, turnSeq, seq, disc)
	}
	return formatBotMessage(message, key)
}
