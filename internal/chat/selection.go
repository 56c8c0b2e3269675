package chat

// SelectionController tracks the single focused ticker of the current
// conversation. A focused watchlist entry renders as an expanded detail
// card; everything else stays compact.
type SelectionController struct {
	focused string
}

// Toggle flips focus for ticker: focusing it if another (or no) ticker is
// focused, clearing focus if it already is. Returns the new focus, empty
// when cleared.
func (s *SelectionController) Toggle(ticker string) string {
	if s.focused == ticker {
		s.focused = ""
	} else {
		s.focused = ticker
	}
	return s.focused
}

// Focused returns the focused ticker, empty when none.
func (s *SelectionController) Focused() string {
	return s.focused
}

// Clear drops any focus. Called on conversation switches.
func (s *SelectionController) Clear() {
	s.focused = ""
}
