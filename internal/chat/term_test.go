package chat

import (
	"reflect"
	"testing"
)

func TestAnnotate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []TextUnit
	}{
		{
			name: "plain sentence stays literal",
			raw:  "The market closed higher today.",
			want: []TextUnit{{Text: "The market closed higher today."}},
		},
		{
			name: "annotated fragment",
			raw:  `[{"text":"The ","isTerm":false},{"text":"RSI","isTerm":true,"definition":"Relative Strength Index"},{"text":" is high."}]`,
			want: []TextUnit{
				{Text: "The "},
				{Text: "RSI", IsTerm: true, Definition: "Relative Strength Index"},
				{Text: " is high."},
			},
		},
		{
			name: "invalid JSON degrades to literal",
			raw:  `[{"text": "broken"`,
			want: []TextUnit{{Text: `[{"text": "broken"`}},
		},
		{
			name: "empty array degrades to literal",
			raw:  `[]`,
			want: []TextUnit{{Text: "[]"}},
		},
		{
			name: "array of wrong shape degrades to literal",
			raw:  `[{"foo": 1}]`,
			want: []TextUnit{{Text: `[{"foo": 1}]`}},
		},
		{
			name: "empty string",
			raw:  "",
			want: []TextUnit{{Text: ""}},
		},
		{
			name: "definition dropped on non-term units",
			raw:  `[{"text":"hi","isTerm":false,"definition":"stray"}]`,
			want: []TextUnit{{Text: "hi"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Annotate(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Annotate(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestPlainRoundTrip(t *testing.T) {
	raw := `[{"text":"Buy the ","isTerm":false},{"text":"dip","isTerm":true,"definition":"a short-lived price decline"},{"text":"."}]`
	if got := Plain(Annotate(raw)); got != "Buy the dip." {
		t.Errorf("Plain(Annotate()) = %q, want %q", got, "Buy the dip.")
	}

	// Unparseable input round-trips to itself.
	garbage := "not [json at all"
	if got := Plain(Annotate(garbage)); got != garbage {
		t.Errorf("Plain(Annotate(%q)) = %q", garbage, got)
	}
}
