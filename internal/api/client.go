package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"arbor-cli/internal/config"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Server, "/"),
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

// ─── Chat ───────────────────────────────────────────────────────────────────

// RawTurn is one stored exchange unit of a conversation, exactly as the
// backend persists it. Bot messages may themselves be JSON-encoded
// structured payloads; the chat pipeline decides.
type RawTurn struct {
	Sender  string `json:"sender"` // "user" or "bot"
	Message string `json:"message"`
}

type ChatRequest struct {
	UserMessage    string `json:"user_message"`
	UserID         string `json:"user_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	IsNewChat      bool   `json:"is_new_chat"`
}

type ChatResponse struct {
	BotMessage     string `json:"bot_message"`
	ConversationID string `json:"conversation_id"`
	IsAdvice       bool   `json:"is_advice"`
}

func (c *Client) Chat(req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.doJSON("POST", "/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ─── Chat history ───────────────────────────────────────────────────────────

type ChatHistoryResponse struct {
	ChatHistory []RawTurn `json:"chat_history"`
}

func (c *Client) ChatHistory(userID, conversationID string) (*ChatHistoryResponse, error) {
	var resp ChatHistoryResponse
	path := "/chat_history/" + url.PathEscape(userID) + "/" + url.PathEscape(conversationID)
	if err := c.doJSON("GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ─── Conversations ──────────────────────────────────────────────────────────

type ConversationInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
}

type ConversationListResponse struct {
	Conversations []ConversationInfo `json:"conversations"`
}

func (c *Client) Conversations(userID string) (*ConversationListResponse, error) {
	var resp ConversationListResponse
	if err := c.doJSON("GET", "/conversations/"+url.PathEscape(userID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteConversation(userID, conversationID string) error {
	path := "/conversations/" + url.PathEscape(userID) + "/" + url.PathEscape(conversationID)
	return c.doJSON("DELETE", path, nil, nil)
}

type renameRequest struct {
	NewTitle string `json:"new_title"`
}

func (c *Client) RenameConversation(userID, conversationID, newTitle string) error {
	path := "/conversations/" + url.PathEscape(userID) + "/" + url.PathEscape(conversationID) + "/rename"
	return c.doJSON("PUT", path, renameRequest{NewTitle: newTitle}, nil)
}

// ─── Watchlist ──────────────────────────────────────────────────────────────

type WatchlistItem struct {
	Ticker string  `json:"ticker"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
	Error  string  `json:"error,omitempty"`
}

type WatchlistResponse struct {
	Watchlist []WatchlistItem `json:"watchlist"`
}

func (c *Client) Watchlist(userID string) (*WatchlistResponse, error) {
	var resp WatchlistResponse
	if err := c.doJSON("GET", "/watchlist/"+url.PathEscape(userID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AddToWatchlist(userID, ticker string) error {
	params := url.Values{}
	params.Set("ticker", ticker)
	return c.doJSON("POST", "/watchlist/"+url.PathEscape(userID)+"?"+params.Encode(), nil, nil)
}

func (c *Client) RemoveFromWatchlist(userID, ticker string) error {
	path := "/watchlist/" + url.PathEscape(userID) + "/" + url.PathEscape(ticker)
	return c.doJSON("DELETE", path, nil, nil)
}

// ─── Stocks ─────────────────────────────────────────────────────────────────

type StockQuote struct {
	Ticker string  `json:"ticker"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
	Error  string  `json:"error,omitempty"`
}

func (c *Client) Stocks(limit int) ([]StockQuote, error) {
	path := "/stocks"
	if limit > 0 {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(limit))
		path += "?" + params.Encode()
	}
	var quotes []StockQuote
	if err := c.doJSON("GET", path, nil, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

func (c *Client) Stock(ticker string) (*StockQuote, error) {
	var quote StockQuote
	if err := c.doJSON("GET", "/stock/"+url.PathEscape(ticker), nil, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// ─── Generic JSON helper ────────────────────────────────────────────────────

func (c *Client) doJSON(method, path string, reqBody interface{}, result interface{}) error {
	var bodyReader io.Reader
	if reqBody != nil && method != "GET" {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}
