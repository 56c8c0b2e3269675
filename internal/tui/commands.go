package tui

import (
	"fmt"
	"strconv"
	"strings"

	"arbor-cli/internal/api"
	"arbor-cli/internal/chat"
	"arbor-cli/internal/config"

	tea "github.com/charmbracelet/bubbletea"
)

// ─── Input dispatcher ───────────────────────────────────────────────────────

func (m model) dispatchInput(input string) (tea.Model, tea.Cmd) {
	if input == "?" {
		return m.cmdHelp()
	}
	if strings.HasPrefix(input, "/") {
		return m.dispatchCommand(input)
	}
	// Default: treat as a chat message
	return m.cmdAsk(input)
}

func (m model) dispatchCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "/help", "/h":
		return m.cmdHelp()
	case "/new":
		return m.cmdNew()
	case "/conversations":
		return m.cmdConversations()
	case "/switch":
		return m.cmdSwitch(args)
	case "/history":
		return m.cmdHistory()
	case "/delete":
		return m.cmdDelete(args)
	case "/rename":
		return m.cmdRename(args)
	case "/card":
		return m.cmdCard(args)
	case "/watchlist":
		return m.cmdWatchlist()
	case "/watch":
		return m.cmdWatch(args)
	case "/unwatch":
		return m.cmdUnwatch(args)
	case "/stocks":
		return m.cmdStocks(args)
	case "/stock":
		return m.cmdStock(args)
	case "/config":
		return m.cmdConfig()
	case "/clear":
		return m.cmdClear()
	case "/quit", "/exit", "/q":
		return m, tea.Quit
	default:
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Unknown command: %s — type /help", cmd)))
	}
}

// ─── Guards ─────────────────────────────────────────────────────────────────

func (m model) requireClient() tea.Cmd {
	if m.client == nil {
		return tea.Println(errorMsgStyle.Render("  ✗ Server not set. Run: arbor set server <url>"))
	}
	return nil
}

func (m model) requireUser() tea.Cmd {
	if cmd := m.requireClient(); cmd != nil {
		return cmd
	}
	if m.cfg == nil || m.cfg.UserID == "" {
		return tea.Println(errorMsgStyle.Render("  ✗ User not set. Run: arbor set user <id>"))
	}
	return nil
}

// printItems converts transcript items to a sequence of println commands.
func (m model) printItems(items []chat.MessageItem) []tea.Cmd {
	focused := ""
	if m.session != nil {
		focused = m.session.Selection().Focused()
	}
	var cmds []tea.Cmd
	for _, item := range items {
		for _, line := range renderItem(item, focused) {
			cmds = append(cmds, tea.Println(line))
		}
	}
	return cmds
}

// ─── /help ──────────────────────────────────────────────────────────────────

func (m model) cmdHelp() (tea.Model, tea.Cmd) {
	pad := func(s string, w int) string {
		for len(s) < w {
			s += " "
		}
		return s
	}

	lines := []tea.Cmd{
		tea.Println(""),
		tea.Println(dimStyle.Render("  Shortcuts:")),
		tea.Println(""),
		tea.Println("  " + pad(hintKeyStyle.Render("/new"), 30) + dimStyle.Render("Start a new conversation")),
		tea.Println("  " + pad(hintKeyStyle.Render("/conversations"), 30) + dimStyle.Render("List your conversations")),
		tea.Println("  " + pad(hintKeyStyle.Render("/switch <id>"), 30) + dimStyle.Render("Switch to a conversation")),
		tea.Println("  " + pad(hintKeyStyle.Render("/history"), 30) + dimStyle.Render("Replay the current conversation")),
		tea.Println("  " + pad(hintKeyStyle.Render("/card <ticker>"), 30) + dimStyle.Render("Focus or unfocus a card")),
		tea.Println("  " + pad(hintKeyStyle.Render("/watchlist"), 30) + dimStyle.Render("Show your watchlist")),
		tea.Println("  " + pad(hintKeyStyle.Render("/watch <ticker>"), 30) + dimStyle.Render("Add a ticker to your watchlist")),
		tea.Println("  " + pad(hintKeyStyle.Render("/unwatch <ticker>"), 30) + dimStyle.Render("Remove a ticker")),
		tea.Println("  " + pad(hintKeyStyle.Render("/stocks [limit]"), 30) + dimStyle.Render("List available stocks")),
		tea.Println("  " + pad(hintKeyStyle.Render("/stock <ticker>"), 30) + dimStyle.Render("Quote a single ticker")),
		tea.Println("  " + pad(hintKeyStyle.Render("/config"), 30) + dimStyle.Render("Show current configuration")),
		tea.Println("  " + pad(hintKeyStyle.Render("/clear"), 30) + dimStyle.Render("Clear the screen")),
		tea.Println("  " + pad(hintKeyStyle.Render("/quit"), 30) + dimStyle.Render("Exit Arbor")),
		tea.Println(""),
		tea.Println(dimStyle.Render("  Or just ask a question about a stock!")),
		tea.Println(""),
	}
	return m, tea.Sequence(lines...)
}

// ─── Ask ────────────────────────────────────────────────────────────────────

type replyMsg struct {
	seq            int
	conversationID string
	resp           *api.ChatResponse
	err            error
}

func (m model) cmdAsk(text string) (tea.Model, tea.Cmd) {
	if cmd := m.requireClient(); cmd != nil {
		return m, cmd
	}

	userItem, req := m.session.BeginTurn(text)
	captured := m.session.ConversationID()

	m.mode = modeWaiting
	m.waitStatus = "Thinking..."
	seq := m.reqSeq
	client := m.client

	var cmds []tea.Cmd
	cmds = append(cmds, m.printItems([]chat.MessageItem{userItem})...)
	cmds = append(cmds, func() tea.Msg {
		resp, err := client.Chat(req)
		return replyMsg{seq: seq, conversationID: captured, resp: resp, err: err}
	})
	return m, tea.Sequence(cmds...)
}

func (m model) handleReply(msg replyMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.reqSeq {
		// Cancelled or superseded request
		return m, nil
	}
	m.mode = modeIdle

	items := m.session.ApplyReply(msg.conversationID, msg.resp, msg.err)
	if items == nil {
		return m, nil
	}

	cmds := m.printItems(items)
	if msg.resp != nil && msg.resp.IsAdvice {
		cmds = append(cmds, tea.Println(adviceStyle.Render("  ⚠ This is model-generated analysis, not professional financial advice.")))
	}
	cmds = append(cmds, tea.Println(""))
	return m, tea.Sequence(cmds...)
}

// ─── /new ───────────────────────────────────────────────────────────────────

func (m model) cmdNew() (tea.Model, tea.Cmd) {
	if cmd := m.requireClient(); cmd != nil {
		return m, cmd
	}
	m.session.NewConversation()
	return m, tea.Sequence(
		tea.Println(successMsgStyle.Render("  ✓ New conversation started")),
		tea.Println(dimStyle.Render("    "+truncateID(m.session.ConversationID()))),
	)
}

// ─── /conversations ─────────────────────────────────────────────────────────

type conversationsLoadedMsg struct {
	conversations []api.ConversationInfo
	err           error
}

func (m model) cmdConversations() (tea.Model, tea.Cmd) {
	if cmd := m.requireUser(); cmd != nil {
		return m, cmd
	}

	client := m.client
	userID := m.cfg.UserID

	return m, tea.Sequence(
		tea.Println(statusStyle.Render("  ⟳ Loading conversations...")),
		func() tea.Msg {
			resp, err := client.Conversations(userID)
			if err != nil {
				return conversationsLoadedMsg{err: err}
			}
			return conversationsLoadedMsg{conversations: resp.Conversations}
		},
	)
}

func (m model) handleConversationsLoaded(msg conversationsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Failed to load conversations: %v", msg.err)))
	}

	if len(msg.conversations) == 0 {
		return m, tea.Println(warnMsgStyle.Render("  ! No conversations found."))
	}

	active := m.session.ConversationID()

	var cmds []tea.Cmd
	cmds = append(cmds,
		tea.Println(""),
		tea.Println(dimStyle.Render(fmt.Sprintf("  Conversations (%d):", len(msg.conversations)))),
		tea.Println(""),
	)

	for _, c := range msg.conversations {
		title := c.Title
		if title == "" {
			title = "(untitled)"
		}
		marker := "  "
		if c.ID == active {
			marker = promptSymbol.Render("❯ ")
		}
		cmds = append(cmds,
			tea.Println(fmt.Sprintf("  %s💬 %s", marker, title)),
			tea.Println(dimStyle.Render(fmt.Sprintf("      %s  %s", c.ID, c.Timestamp))),
		)
	}

	cmds = append(cmds,
		tea.Println(""),
		tea.Println(dimStyle.Render("  Tip: /switch <id> to continue · /delete <id> to remove")),
		tea.Println(""),
	)

	return m, tea.Sequence(cmds...)
}

// ─── /switch and /history ───────────────────────────────────────────────────

type historyLoadedMsg struct {
	seq            int
	conversationID string
	turns          []api.RawTurn
	err            error
}

func (m model) cmdSwitch(args []string) (tea.Model, tea.Cmd) {
	if cmd := m.requireUser(); cmd != nil {
		return m, cmd
	}
	if len(args) == 0 {
		return m, tea.Println(warnMsgStyle.Render("  ! Usage: /switch <conversation-id>"))
	}
	return m.fetchHistory(args[0])
}

func (m model) cmdHistory() (tea.Model, tea.Cmd) {
	if cmd := m.requireClient(); cmd != nil {
		return m, cmd
	}

	id := m.session.ConversationID()
	if id == "" || m.cfg.UserID == "" {
		// Nothing stored server-side yet, replay the local transcript
		items := m.session.Transcript().Items()
		if len(items) == 0 {
			return m, tea.Println(dimStyle.Render("  Nothing here yet. Ask a question to get started."))
		}
		cmds := m.printItems(items)
		cmds = append(cmds, tea.Println(""))
		return m, tea.Sequence(cmds...)
	}
	return m.fetchHistory(id)
}

func (m model) fetchHistory(conversationID string) (tea.Model, tea.Cmd) {
	captured := m.session.BeginSwitch(conversationID)

	m.mode = modeWaiting
	m.waitStatus = "Loading history..."
	seq := m.reqSeq
	client := m.client
	userID := m.cfg.UserID

	return m, func() tea.Msg {
		resp, err := client.ChatHistory(userID, captured)
		if err != nil {
			return historyLoadedMsg{seq: seq, conversationID: captured, err: err}
		}
		return historyLoadedMsg{seq: seq, conversationID: captured, turns: resp.ChatHistory}
	}
}

func (m model) handleHistoryLoaded(msg historyLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.reqSeq {
		return m, nil
	}
	m.mode = modeIdle

	if !m.session.ApplyHistory(msg.conversationID, msg.turns, msg.err) {
		if msg.err != nil {
			return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Failed to load history: %v", msg.err)))
		}
		return m, nil
	}

	var cmds []tea.Cmd
	cmds = append(cmds,
		tea.Println(""),
		tea.Println(dimStyle.Render("  ── Conversation "+truncateID(msg.conversationID)+" ──")),
	)
	cmds = append(cmds, m.printItems(m.session.Transcript().Items())...)
	cmds = append(cmds, tea.Println(""))
	return m, tea.Sequence(cmds...)
}

// ─── /delete and /rename ────────────────────────────────────────────────────

type conversationChangedMsg struct {
	action string
	id     string
	err    error
}

func (m model) cmdDelete(args []string) (tea.Model, tea.Cmd) {
	if cmd := m.requireUser(); cmd != nil {
		return m, cmd
	}
	if len(args) == 0 {
		return m, tea.Println(warnMsgStyle.Render("  ! Usage: /delete <conversation-id>"))
	}

	id := args[0]
	client := m.client
	userID := m.cfg.UserID

	return m, func() tea.Msg {
		err := client.DeleteConversation(userID, id)
		return conversationChangedMsg{action: "deleted", id: id, err: err}
	}
}

func (m model) cmdRename(args []string) (tea.Model, tea.Cmd) {
	if cmd := m.requireUser(); cmd != nil {
		return m, cmd
	}
	if len(args) < 2 {
		return m, tea.Println(warnMsgStyle.Render("  ! Usage: /rename <conversation-id> <new title>"))
	}

	id := args[0]
	title := strings.Join(args[1:], " ")
	client := m.client
	userID := m.cfg.UserID

	return m, func() tea.Msg {
		err := client.RenameConversation(userID, id, title)
		return conversationChangedMsg{action: "renamed", id: id, err: err}
	}
}

func (m model) handleConversationChanged(msg conversationChangedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Failed: %v", msg.err)))
	}
	cmds := []tea.Cmd{
		tea.Println(successMsgStyle.Render(fmt.Sprintf("  ✓ Conversation %s %s", truncateID(msg.id), msg.action))),
	}
	if msg.action == "deleted" && msg.id == m.session.ConversationID() {
		m.session.NewConversation()
		cmds = append(cmds, tea.Println(dimStyle.Render("    Started a fresh conversation.")))
	}
	return m, tea.Sequence(cmds...)
}

// ─── /card ──────────────────────────────────────────────────────────────────

func (m model) cmdCard(args []string) (tea.Model, tea.Cmd) {
	if m.session == nil {
		return m, tea.Println(errorMsgStyle.Render("  ✗ Server not set. Run: arbor set server <url>"))
	}
	if len(args) == 0 {
		focused := m.session.Selection().Focused()
		if focused == "" {
			return m, tea.Println(dimStyle.Render("  No card focused. Usage: /card <ticker>"))
		}
		return m, tea.Println(dimStyle.Render("  Focused card: " + focused))
	}

	ticker := strings.ToUpper(args[0])
	item, ok := m.findCardItem(ticker)
	if !ok {
		return m, tea.Println(dimStyle.Render("  No card for " + ticker + " in this conversation."))
	}

	m.session.ToggleCard(ticker)

	// Reprint the card in its new state: expanded when focused, compact
	// again when the toggle collapsed it.
	var cmds []tea.Cmd
	if m.session.Selection().Focused() == ticker {
		cmds = append(cmds, tea.Println(successMsgStyle.Render("  ✓ Focused "+ticker)))
	} else {
		cmds = append(cmds, tea.Println(dimStyle.Render("  Unfocused "+ticker)))
	}
	cmds = append(cmds, m.printItems([]chat.MessageItem{item})...)
	return m, tea.Sequence(cmds...)
}

// findCardItem returns the most recent transcript item carrying a card for
// ticker, in any part form.
func (m model) findCardItem(ticker string) (chat.MessageItem, bool) {
	items := m.session.Transcript().Items()
	for i := len(items) - 1; i >= 0; i-- {
		for _, part := range items[i].Parts {
			if part.Card != nil && part.Card.Ticker == ticker {
				return items[i], true
			}
		}
	}
	return chat.MessageItem{}, false
}

// ─── /watchlist ─────────────────────────────────────────────────────────────

type watchlistLoadedMsg struct {
	items []api.WatchlistItem
	err   error
}

func (m model) cmdWatchlist() (tea.Model, tea.Cmd) {
	if cmd := m.requireUser(); cmd != nil {
		return m, cmd
	}

	client := m.client
	userID := m.cfg.UserID

	return m, tea.Sequence(
		tea.Println(statusStyle.Render("  ⟳ Loading watchlist...")),
		func() tea.Msg {
			resp, err := client.Watchlist(userID)
			if err != nil {
				return watchlistLoadedMsg{err: err}
			}
			return watchlistLoadedMsg{items: resp.Watchlist}
		},
	)
}

func (m model) handleWatchlistLoaded(msg watchlistLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Failed to load watchlist: %v", msg.err)))
	}

	if len(msg.items) == 0 {
		return m, tea.Println(warnMsgStyle.Render("  ! Watchlist is empty. Use /watch <ticker> to add one."))
	}

	var cmds []tea.Cmd
	cmds = append(cmds,
		tea.Println(""),
		tea.Println(dimStyle.Render(fmt.Sprintf("  Watchlist (%d):", len(msg.items)))),
		tea.Println(""),
	)

	for _, item := range msg.items {
		cmds = append(cmds, tea.Println("  "+formatQuoteRow(item.Ticker, item.Name, item.Price, item.Change, item.Error)))
	}

	cmds = append(cmds, tea.Println(""))
	return m, tea.Sequence(cmds...)
}

// ─── /watch and /unwatch ────────────────────────────────────────────────────

type watchlistChangedMsg struct {
	action string
	ticker string
	err    error
}

func (m model) cmdWatch(args []string) (tea.Model, tea.Cmd) {
	if cmd := m.requireUser(); cmd != nil {
		return m, cmd
	}
	if len(args) == 0 {
		return m, tea.Println(warnMsgStyle.Render("  ! Usage: /watch <ticker>"))
	}

	ticker := strings.ToUpper(args[0])
	client := m.client
	userID := m.cfg.UserID

	return m, func() tea.Msg {
		err := client.AddToWatchlist(userID, ticker)
		return watchlistChangedMsg{action: "added", ticker: ticker, err: err}
	}
}

func (m model) cmdUnwatch(args []string) (tea.Model, tea.Cmd) {
	if cmd := m.requireUser(); cmd != nil {
		return m, cmd
	}
	if len(args) == 0 {
		return m, tea.Println(warnMsgStyle.Render("  ! Usage: /unwatch <ticker>"))
	}

	ticker := strings.ToUpper(args[0])
	client := m.client
	userID := m.cfg.UserID

	return m, func() tea.Msg {
		err := client.RemoveFromWatchlist(userID, ticker)
		return watchlistChangedMsg{action: "removed", ticker: ticker, err: err}
	}
}

func (m model) handleWatchlistChanged(msg watchlistChangedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Failed: %v", msg.err)))
	}
	return m, tea.Println(successMsgStyle.Render(fmt.Sprintf("  ✓ %s %s", msg.ticker, msg.action)))
}

// ─── /stocks and /stock ─────────────────────────────────────────────────────

type stocksLoadedMsg struct {
	quotes []api.StockQuote
	err    error
}

func (m model) cmdStocks(args []string) (tea.Model, tea.Cmd) {
	if cmd := m.requireClient(); cmd != nil {
		return m, cmd
	}

	limit := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return m, tea.Println(warnMsgStyle.Render("  ! Usage: /stocks [limit]"))
		}
		limit = n
	}

	client := m.client

	return m, tea.Sequence(
		tea.Println(statusStyle.Render("  ⟳ Loading stocks...")),
		func() tea.Msg {
			quotes, err := client.Stocks(limit)
			return stocksLoadedMsg{quotes: quotes, err: err}
		},
	)
}

func (m model) handleStocksLoaded(msg stocksLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Failed to load stocks: %v", msg.err)))
	}

	if len(msg.quotes) == 0 {
		return m, tea.Println(warnMsgStyle.Render("  ! No stocks available."))
	}

	var cmds []tea.Cmd
	cmds = append(cmds,
		tea.Println(""),
		tea.Println(dimStyle.Render(fmt.Sprintf("  Stocks (%d):", len(msg.quotes)))),
		tea.Println(""),
	)

	for _, q := range msg.quotes {
		cmds = append(cmds, tea.Println("  "+formatQuoteRow(q.Ticker, q.Name, q.Price, q.Change, q.Error)))
	}

	cmds = append(cmds, tea.Println(""))
	return m, tea.Sequence(cmds...)
}

type stockLoadedMsg struct {
	quote *api.StockQuote
	err   error
}

func (m model) cmdStock(args []string) (tea.Model, tea.Cmd) {
	if cmd := m.requireClient(); cmd != nil {
		return m, cmd
	}
	if len(args) == 0 {
		return m, tea.Println(warnMsgStyle.Render("  ! Usage: /stock <ticker>"))
	}

	ticker := strings.ToUpper(args[0])
	client := m.client

	return m, func() tea.Msg {
		quote, err := client.Stock(ticker)
		return stockLoadedMsg{quote: quote, err: err}
	}
}

func (m model) handleStockLoaded(msg stockLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Failed to load quote: %v", msg.err)))
	}
	q := msg.quote
	return m, tea.Println("  " + formatQuoteRow(q.Ticker, q.Name, q.Price, q.Change, q.Error))
}

func formatQuoteRow(ticker, name string, price, change float64, quoteErr string) string {
	if quoteErr != "" {
		return fmt.Sprintf("%s %s", cardTickerStyle.Render(fmt.Sprintf("%-6s", ticker)), errorMsgStyle.Render(quoteErr))
	}

	changeStr := fmt.Sprintf("%+.2f%%", change)
	styled := dimStyle.Render(changeStr)
	if change > 0 {
		styled = successMsgStyle.Render(changeStr)
	} else if change < 0 {
		styled = errorMsgStyle.Render(changeStr)
	}

	return fmt.Sprintf("%s %9.2f  %s  %s",
		cardTickerStyle.Render(fmt.Sprintf("%-6s", ticker)),
		price, styled, dimStyle.Render(name))
}

// ─── /config ────────────────────────────────────────────────────────────────

func (m model) cmdConfig() (tea.Model, tea.Cmd) {
	if m.cfg == nil {
		return m, tea.Println(warnMsgStyle.Render("  ! No configuration found. Run: arbor set server <url>"))
	}

	val := func(s string) string {
		if s == "" {
			return dimStyle.Render("(not set)")
		}
		return s
	}
	conversation := dimStyle.Render("(none)")
	if m.session != nil && m.session.ConversationID() != "" {
		conversation = m.session.ConversationID()
	}

	return m, tea.Sequence(
		tea.Println(""),
		tea.Println(dimStyle.Render("  Configuration:")),
		tea.Println(fmt.Sprintf("    Profile:      %s", config.ProfileName(m.profile))),
		tea.Println(fmt.Sprintf("    Server:       %s", val(serverStr(m.cfg)))),
		tea.Println(fmt.Sprintf("    User:         %s", val(userStr(m.cfg)))),
		tea.Println(fmt.Sprintf("    Conversation: %s", conversation)),
		tea.Println(""),
	)
}

// ─── /clear ─────────────────────────────────────────────────────────────────

func (m model) cmdClear() (tea.Model, tea.Cmd) {
	return m, tea.ClearScreen
}
