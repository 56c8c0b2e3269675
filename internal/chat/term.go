package chat

import (
	"encoding/json"
	"strings"
)

// ─── Term annotation ────────────────────────────────────────────────────────

// TextUnit is one renderable fragment of assistant text: either a plain
// literal or a glossary term carrying its definition. Mirrors the backend
// wire shape {"text": ..., "isTerm": ..., "definition": ...}.
type TextUnit struct {
	Text       string `json:"text"`
	IsTerm     bool   `json:"isTerm,omitempty"`
	Definition string `json:"definition,omitempty"`
}

// Annotate expands a raw text fragment into renderable units. The backend
// encodes annotated fragments as a JSON array of units; anything that does
// not decode to that shape is treated as one literal unit. Malformed
// annotation data must never block rendering, so Annotate is total.
func Annotate(raw string) []TextUnit {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") {
		return Literal(raw)
	}

	var units []TextUnit
	if err := json.Unmarshal([]byte(trimmed), &units); err != nil {
		return Literal(raw)
	}
	if len(units) == 0 {
		return Literal(raw)
	}
	for i, u := range units {
		if u.Text == "" && u.Definition == "" {
			// Not unit-shaped JSON (e.g. an array of numbers decodes to
			// zero values). Fall back to the raw string.
			return Literal(raw)
		}
		if !u.IsTerm {
			units[i].Definition = ""
		}
	}
	return units
}

// Literal wraps text as a single non-term unit.
func Literal(text string) []TextUnit {
	return []TextUnit{{Text: text}}
}

// Plain reassembles the human-readable sentence from a unit sequence.
func Plain(units []TextUnit) string {
	var b strings.Builder
	for _, u := range units {
		b.WriteString(u.Text)
	}
	return b.String()
}
