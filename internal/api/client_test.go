package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"arbor-cli/internal/config"
)

func TestNewClient(t *testing.T) {
	cfg := &config.Config{Server: "http://localhost:8000/"}
	c := NewClient(cfg)
	if c.baseURL != "http://localhost:8000" {
		t.Errorf("baseURL = %q, want trailing slash stripped", c.baseURL)
	}
	if c.httpClient == nil {
		t.Fatal("httpClient is nil")
	}
}

func TestSetHeaders(t *testing.T) {
	c := &Client{}
	req, _ := http.NewRequest("POST", "http://example.com", nil)
	c.setHeaders(req)

	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want %q", got, "application/json")
	}
	if got := req.Header.Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q, want %q", got, "application/json")
	}
}

func TestDoJSON(t *testing.T) {
	t.Run("GET request", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != "GET" {
				t.Errorf("method = %s, want GET", r.Method)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = fmt.Fprint(w, `{"name":"test"}`)
		}))
		defer srv.Close()

		c := &Client{baseURL: srv.URL, httpClient: srv.Client()}
		var result struct{ Name string }
		err := c.doJSON("GET", "/test", nil, &result)
		if err != nil {
			t.Fatalf("doJSON() error = %v", err)
		}
		if result.Name != "test" {
			t.Errorf("result.Name = %q, want %q", result.Name, "test")
		}
	})

	t.Run("POST request with body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != "POST" {
				t.Errorf("method = %s, want POST", r.Method)
			}
			body, _ := io.ReadAll(r.Body)
			var req struct{ Value string }
			if err := json.Unmarshal(body, &req); err != nil {
				t.Fatalf("unmarshal request: %v", err)
			}
			if req.Value != "hello" {
				t.Errorf("request body Value = %q, want %q", req.Value, "hello")
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = fmt.Fprint(w, `{"ok":true}`)
		}))
		defer srv.Close()

		c := &Client{baseURL: srv.URL, httpClient: srv.Client()}
		reqBody := struct{ Value string }{Value: "hello"}
		var result struct{ Ok bool }
		err := c.doJSON("POST", "/test", reqBody, &result)
		if err != nil {
			t.Fatalf("doJSON() error = %v", err)
		}
		if !result.Ok {
			t.Error("result.Ok = false, want true")
		}
	})

	t.Run("error response includes status and body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = fmt.Fprint(w, "internal error")
		}))
		defer srv.Close()

		c := &Client{baseURL: srv.URL, httpClient: srv.Client()}
		err := c.doJSON("GET", "/test", nil, nil)
		if err == nil {
			t.Fatal("expected error for 500 response")
		}
		if !strings.Contains(err.Error(), "500") {
			t.Errorf("error %q should mention status code", err)
		}
		if !strings.Contains(err.Error(), "internal error") {
			t.Errorf("error %q should include response body", err)
		}
	})

	t.Run("nil result discards body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = fmt.Fprint(w, `{"ignored":true}`)
		}))
		defer srv.Close()

		c := &Client{baseURL: srv.URL, httpClient: srv.Client()}
		if err := c.doJSON("DELETE", "/test", nil, nil); err != nil {
			t.Fatalf("doJSON() error = %v", err)
		}
	})

	t.Run("malformed response body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = fmt.Fprint(w, `not json`)
		}))
		defer srv.Close()

		c := &Client{baseURL: srv.URL, httpClient: srv.Client()}
		var result struct{ Name string }
		err := c.doJSON("GET", "/test", nil, &result)
		if err == nil {
			t.Fatal("expected parse error")
		}
		if !strings.Contains(err.Error(), "parsing response") {
			t.Errorf("error = %q, want parsing response error", err)
		}
	})
}

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("path = %q, want /chat", r.URL.Path)
		}
		if r.Method != "POST" {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.UserMessage != "should I buy AAPL?" {
			t.Errorf("UserMessage = %q", req.UserMessage)
		}
		if req.UserID != "user-1" {
			t.Errorf("UserID = %q, want user-1", req.UserID)
		}
		if !req.IsNewChat {
			t.Error("IsNewChat = false, want true")
		}
		_, _ = fmt.Fprint(w, `{"bot_message":"{\"chat_messages\":[\"hello\"]}","conversation_id":"conv-9","is_advice":true}`)
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, httpClient: srv.Client()}
	resp, err := c.Chat(ChatRequest{
		UserMessage: "should I buy AAPL?",
		UserID:      "user-1",
		IsNewChat:   true,
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.ConversationID != "conv-9" {
		t.Errorf("ConversationID = %q, want conv-9", resp.ConversationID)
	}
	if !resp.IsAdvice {
		t.Error("IsAdvice = false, want true")
	}
	if !strings.Contains(resp.BotMessage, "chat_messages") {
		t.Errorf("BotMessage = %q, want raw JSON payload preserved", resp.BotMessage)
	}
}

func TestChatRequestOmitsEmptyConversation(t *testing.T) {
	data, err := json.Marshal(ChatRequest{UserMessage: "hi", IsNewChat: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "conversation_id") {
		t.Errorf("empty conversation_id should be omitted: %s", data)
	}
	if strings.Contains(string(data), "user_id") {
		t.Errorf("empty user_id should be omitted: %s", data)
	}
	if !strings.Contains(string(data), `"is_new_chat":true`) {
		t.Errorf("is_new_chat must always be present: %s", data)
	}
}

func TestChatHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := "/chat_history/user-1/conv-2"
		if r.URL.Path != want {
			t.Errorf("path = %q, want %q", r.URL.Path, want)
		}
		_, _ = fmt.Fprint(w, `{"chat_history":[{"sender":"user","message":"hi"},{"sender":"bot","message":"hello"}]}`)
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, httpClient: srv.Client()}
	resp, err := c.ChatHistory("user-1", "conv-2")
	if err != nil {
		t.Fatalf("ChatHistory() error = %v", err)
	}
	if len(resp.ChatHistory) != 2 {
		t.Fatalf("len(ChatHistory) = %d, want 2", len(resp.ChatHistory))
	}
	if resp.ChatHistory[0].Sender != "user" || resp.ChatHistory[0].Message != "hi" {
		t.Errorf("first turn = %+v", resp.ChatHistory[0])
	}
	if resp.ChatHistory[1].Sender != "bot" {
		t.Errorf("second turn sender = %q, want bot", resp.ChatHistory[1].Sender)
	}
}

func TestChatHistoryEscapesPathSegments(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = fmt.Fprint(w, `{"chat_history":[]}`)
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, httpClient: srv.Client()}
	if _, err := c.ChatHistory("user/one", "conv 2"); err != nil {
		t.Fatalf("ChatHistory() error = %v", err)
	}
	if strings.Count(gotPath, "/") != 3 {
		t.Errorf("path %q should keep exactly three separators", gotPath)
	}
}

func TestConversations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/conversations/user-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = fmt.Fprint(w, `{"conversations":[{"id":"c1","title":"Tech stocks","timestamp":"2025-01-02T15:04:05Z"}]}`)
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, httpClient: srv.Client()}
	resp, err := c.Conversations("user-1")
	if err != nil {
		t.Fatalf("Conversations() error = %v", err)
	}
	if len(resp.Conversations) != 1 {
		t.Fatalf("len = %d, want 1", len(resp.Conversations))
	}
	if resp.Conversations[0].Title != "Tech stocks" {
		t.Errorf("Title = %q", resp.Conversations[0].Title)
	}
}

func TestDeleteConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "DELETE" {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		if r.URL.Path != "/conversations/user-1/c1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = fmt.Fprint(w, `{"status":"deleted"}`)
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, httpClient: srv.Client()}
	if err := c.DeleteConversation("user-1", "c1"); err != nil {
		t.Fatalf("DeleteConversation() error = %v", err)
	}
}

func TestRenameConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if r.URL.Path != "/conversations/user-1/c1/rename" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req struct {
			NewTitle string `json:"new_title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.NewTitle != "Renamed" {
			t.Errorf("new_title = %q, want Renamed", req.NewTitle)
		}
		_, _ = fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, httpClient: srv.Client()}
	if err := c.RenameConversation("user-1", "c1", "Renamed"); err != nil {
		t.Fatalf("RenameConversation() error = %v", err)
	}
}

func TestWatchlist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/watchlist/user-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = fmt.Fprint(w, `{"watchlist":[{"ticker":"AAPL","name":"Apple Inc.","price":231.5,"change":1.2},{"ticker":"XXXX","name":"","price":0,"change":0,"error":"not found"}]}`)
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, httpClient: srv.Client()}
	resp, err := c.Watchlist("user-1")
	if err != nil {
		t.Fatalf("Watchlist() error = %v", err)
	}
	if len(resp.Watchlist) != 2 {
		t.Fatalf("len = %d, want 2", len(resp.Watchlist))
	}
	if resp.Watchlist[0].Price != 231.5 {
		t.Errorf("Price = %v", resp.Watchlist[0].Price)
	}
	if resp.Watchlist[1].Error != "not found" {
		t.Errorf("per-item error should survive decoding: %+v", resp.Watchlist[1])
	}
}

func TestAddToWatchlist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/watchlist/user-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("ticker"); got != "TSLA" {
			t.Errorf("ticker = %q, want TSLA", got)
		}
		_, _ = fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, httpClient: srv.Client()}
	if err := c.AddToWatchlist("user-1", "TSLA"); err != nil {
		t.Fatalf("AddToWatchlist() error = %v", err)
	}
}

func TestRemoveFromWatchlist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "DELETE" {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		if r.URL.Path != "/watchlist/user-1/TSLA" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, httpClient: srv.Client()}
	if err := c.RemoveFromWatchlist("user-1", "TSLA"); err != nil {
		t.Fatalf("RemoveFromWatchlist() error = %v", err)
	}
}

func TestStocks(t *testing.T) {
	t.Run("with limit", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/stocks" {
				t.Errorf("path = %q", r.URL.Path)
			}
			if got := r.URL.Query().Get("limit"); got != "5" {
				t.Errorf("limit = %q, want 5", got)
			}
			_, _ = fmt.Fprint(w, `[{"ticker":"AAPL","name":"Apple Inc.","price":231.5,"change":-0.3}]`)
		}))
		defer srv.Close()

		c := &Client{baseURL: srv.URL, httpClient: srv.Client()}
		quotes, err := c.Stocks(5)
		if err != nil {
			t.Fatalf("Stocks() error = %v", err)
		}
		if len(quotes) != 1 || quotes[0].Ticker != "AAPL" {
			t.Errorf("quotes = %+v", quotes)
		}
	})

	t.Run("no limit omits query", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "" {
				t.Errorf("query = %q, want empty", r.URL.RawQuery)
			}
			_, _ = fmt.Fprint(w, `[]`)
		}))
		defer srv.Close()

		c := &Client{baseURL: srv.URL, httpClient: srv.Client()}
		if _, err := c.Stocks(0); err != nil {
			t.Fatalf("Stocks() error = %v", err)
		}
	})
}

func TestStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock/NVDA" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = fmt.Fprint(w, `{"ticker":"NVDA","name":"NVIDIA Corp.","price":1020.1,"change":12.4}`)
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, httpClient: srv.Client()}
	quote, err := c.Stock("NVDA")
	if err != nil {
		t.Fatalf("Stock() error = %v", err)
	}
	if quote.Name != "NVIDIA Corp." {
		t.Errorf("Name = %q", quote.Name)
	}
}

func TestClientSatisfiesInterface(t *testing.T) {
	var _ ArborAPI = (*Client)(nil)
}
