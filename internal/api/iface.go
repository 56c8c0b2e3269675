package api

// ArborAPI defines the interface for the Arbor backend client.
// *Client satisfies this interface. TUI and tests can use mock implementations.
type ArborAPI interface {
	Chat(req ChatRequest) (*ChatResponse, error)
	ChatHistory(userID, conversationID string) (*ChatHistoryResponse, error)
	Conversations(userID string) (*ConversationListResponse, error)
	DeleteConversation(userID, conversationID string) error
	RenameConversation(userID, conversationID, newTitle string) error
	Watchlist(userID string) (*WatchlistResponse, error)
	AddToWatchlist(userID, ticker string) error
	RemoveFromWatchlist(userID, ticker string) error
	Stocks(limit int) ([]StockQuote, error)
	Stock(ticker string) (*StockQuote, error)
}
