package display

import (
	"strings"
	"testing"
	"time"

	"arbor-cli/internal/chat"
)

func TestActionLabel(t *testing.T) {
	tests := []struct {
		input string
		color string
	}{
		{"BUY", Green},
		{"buy", Green},
		{"STRONG BUY", Green},
		{"SELL", Red},
		{"sell", Red},
		{"HOLD", Yellow},
		{"hold", Yellow},
	}

	for _, tt := range tests {
		label := ActionLabel(tt.input)
		if !strings.Contains(label, tt.color) {
			t.Errorf("ActionLabel(%q) = %q, expected %q coloring", tt.input, label, tt.color)
		}
		if !strings.Contains(label, strings.ToUpper(tt.input)) {
			t.Errorf("ActionLabel(%q) = %q, expected uppercased action text", tt.input, label)
		}
	}

	// Unknown actions keep their text without color
	unknown := ActionLabel("watch")
	if !strings.Contains(unknown, "WATCH") {
		t.Errorf("ActionLabel(unknown) = %q, expected to contain WATCH", unknown)
	}
	if strings.Contains(unknown, Green) || strings.Contains(unknown, Red) || strings.Contains(unknown, Yellow) {
		t.Errorf("ActionLabel(unknown) = %q, expected no action coloring", unknown)
	}
}

func TestChangeLabel(t *testing.T) {
	tests := []struct {
		change   float64
		color    string
		contains string
	}{
		{1.25, Green, "+1.25%"},
		{-0.50, Red, "-0.50%"},
		{0, Gray, "0.00%"},
	}

	for _, tt := range tests {
		label := ChangeLabel(tt.change)
		if !strings.Contains(label, tt.color) {
			t.Errorf("ChangeLabel(%v) = %q, expected %q coloring", tt.change, label, tt.color)
		}
		if !strings.Contains(label, tt.contains) {
			t.Errorf("ChangeLabel(%v) = %q, expected to contain %q", tt.change, label, tt.contains)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(231.5); got != "$231.50" {
		t.Errorf("FormatPrice(231.5) = %q, want $231.50", got)
	}
}

func TestTermText(t *testing.T) {
	units := []chat.TextUnit{
		{Text: "Watch the "},
		{Text: "MACD", IsTerm: true, Definition: "Moving average convergence divergence"},
		{Text: " closely."},
	}
	got := TermText(units)
	if !strings.Contains(got, Cyan+"MACD"+Reset) {
		t.Errorf("TermText() = %q, term should be colored", got)
	}
	if !strings.Contains(got, "Watch the ") || !strings.Contains(got, " closely.") {
		t.Errorf("TermText() = %q, plain text should pass through", got)
	}
	if strings.Contains(got, "Moving average") {
		t.Errorf("TermText() = %q, definitions belong in the footnote", got)
	}
}

func TestDefinitions(t *testing.T) {
	a := []chat.TextUnit{
		{Text: "MACD", IsTerm: true, Definition: "Momentum indicator"},
		{Text: " and ", IsTerm: false},
		{Text: "RSI", IsTerm: true, Definition: "Relative strength index"},
	}
	b := []chat.TextUnit{
		{Text: "MACD", IsTerm: true, Definition: "Momentum indicator"}, // duplicate
		{Text: "beta", IsTerm: true},                                  // no definition
	}

	defs := Definitions(a, b)
	if len(defs) != 2 {
		t.Fatalf("len(defs) = %d, want 2: %v", len(defs), defs)
	}
	if !strings.Contains(defs[0], "MACD") || !strings.Contains(defs[0], "Momentum indicator") {
		t.Errorf("defs[0] = %q", defs[0])
	}
	if !strings.Contains(defs[1], "RSI") {
		t.Errorf("defs[1] = %q", defs[1])
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(string) bool
	}{
		{
			name:  "RFC3339",
			input: "2024-01-15T10:30:00Z",
			check: func(s string) bool {
				_, err := time.Parse("2006-01-02 15:04:05", s)
				return err == nil
			},
		},
		{
			name:  "RFC3339Nano",
			input: "2024-01-15T10:30:00.123456789Z",
			check: func(s string) bool {
				_, err := time.Parse("2006-01-02 15:04:05", s)
				return err == nil
			},
		},
		{
			name:  "invalid input",
			input: "not-a-date",
			check: func(s string) bool {
				return s == "not-a-date"
			},
		},
		{
			name:  "empty string",
			input: "",
			check: func(s string) bool {
				return s == ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatTime(tt.input)
			if !tt.check(result) {
				t.Errorf("FormatTime(%q) = %q, unexpected result", tt.input, result)
			}
		})
	}
}
