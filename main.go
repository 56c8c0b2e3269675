package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"arbor-cli/internal/api"
	"arbor-cli/internal/chat"
	"arbor-cli/internal/config"
	"arbor-cli/internal/display"
	"arbor-cli/internal/tui"
)

const version = "0.1.0"

var activeProfile string

// setupLogging wires the slog default handler. Diagnostics are discarded
// unless ARBOR_DEBUG is set, in which case debug-level records append to
// ~/.arbor/debug.log.
func setupLogging() {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	if os.Getenv("ARBOR_DEBUG") == "" {
		slog.SetDefault(discard)
		return
	}

	home, err := os.UserHomeDir()
	if err != nil {
		slog.SetDefault(discard)
		return
	}
	dir := filepath.Join(home, ".arbor")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		slog.SetDefault(discard)
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		slog.SetDefault(discard)
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
}

func main() {
	setupLogging()

	args := os.Args[1:]

	// Parse global flags first (--profile)
	args = parseGlobalFlags(args)

	// No args → launch interactive mode (default)
	if len(args) == 0 {
		if err := tui.Run(version, activeProfile); err != nil {
			display.Error(err.Error())
			os.Exit(1)
		}
		return
	}

	// Explicit -i flag also launches interactive mode
	if args[0] == "-i" || args[0] == "--interactive" || args[0] == "interactive" {
		if err := tui.Run(version, activeProfile); err != nil {
			display.Error(err.Error())
			os.Exit(1)
		}
		return
	}

	var err error

	switch args[0] {
	case "set":
		err = cmdSet(args[1:])
	case "config":
		err = cmdConfig()
	case "ask":
		err = cmdAsk(args[1:])
	case "history":
		err = cmdHistory(args[1:])
	case "conversations":
		err = cmdConversations(args[1:])
	case "watchlist":
		err = cmdWatchlist(args[1:])
	case "stocks":
		err = cmdStocks(args[1:])
	case "stock":
		err = cmdStock(args[1:])
	case "profiles":
		err = cmdProfiles()
	case "help", "--help", "-h":
		printUsage()
	case "version", "--version", "-v":
		fmt.Printf("arbor %s\n", version)
	default:
		display.Error(fmt.Sprintf("Unknown command: %s", args[0]))
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		display.Error(err.Error())
		os.Exit(1)
	}
}

// ─── set ────────────────────────────────────────────────────────────────────

func cmdSet(args []string) error {
	if len(args) < 2 {
		fmt.Println("Usage: arbor set <key> <value>")
		fmt.Println()
		fmt.Println("Keys:")
		fmt.Println("  server        Arbor backend URL  (e.g. http://localhost:8000)")
		fmt.Println("  user          User ID for conversations and watchlist")
		fmt.Println("  conversation  Conversation to continue by default")
		return nil
	}

	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}

	key, value := args[0], args[1]

	switch key {
	case "server":
		cfg.Server = value
	case "user":
		cfg.UserID = value
	case "conversation":
		cfg.ConversationID = value
	default:
		return fmt.Errorf("unknown config key: %s (valid: server, user, conversation)", key)
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	display.Success(fmt.Sprintf("%s set to %s", key, value))
	return nil
}

// ─── config ─────────────────────────────────────────────────────────────────

func cmdConfig() error {
	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}

	display.Header("Arbor CLI Configuration")

	display.Info("Profile:", config.ProfileName(activeProfile))

	server := cfg.Server
	if server == "" {
		server = display.Dim + "(not set)" + display.Reset
	}
	display.Info("Server:", server)

	user := cfg.UserID
	if user == "" {
		user = display.Dim + "(not set)" + display.Reset
	}
	display.Info("User:", user)

	conversation := cfg.ConversationID
	if conversation == "" {
		conversation = display.Dim + "(none)" + display.Reset
	}
	display.Info("Conversation:", conversation)
	fmt.Println()

	return nil
}

// ─── ask ────────────────────────────────────────────────────────────────────

func cmdAsk(args []string) error {
	var conversationID string
	var newChat bool
	var positional []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-c", "--conversation":
			if i+1 < len(args) {
				i++
				conversationID = args[i]
			} else {
				return fmt.Errorf("--conversation requires a value")
			}
		case "--new":
			newChat = true
		default:
			positional = append(positional, args[i])
		}
	}

	if len(positional) == 0 {
		fmt.Println("Usage: arbor ask <question> [--conversation <id>] [--new]")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println(`  arbor ask "Should I buy AAPL?"`)
		fmt.Println(`  arbor ask "What about the downside?" -c <conversation-id>`)
		return nil
	}
	question := strings.Join(positional, " ")

	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client := api.NewClient(cfg)
	session := chat.NewSession(client, cfg.UserID)

	joinConversation(session, conversationID, cfg.ConversationID, newChat)

	fmt.Println()
	fmt.Printf("  %s❯%s %s\n\n", display.Cyan, display.Reset, question)
	display.Spinner("Thinking...")

	_, req := session.BeginTurn(question)
	captured := session.ConversationID()
	resp, chatErr := client.Chat(req)
	display.ClearLine()

	items := session.ApplyReply(captured, resp, chatErr)
	printItems(items)

	if chatErr == nil && resp.IsAdvice {
		fmt.Printf("\n  %s⚠ This is model-generated analysis, not professional financial advice.%s\n",
			display.Blue, display.Reset)
	}

	if session.ConversationID() != "" {
		cfg.ConversationID = session.ConversationID()
		_ = cfg.Save()
		fmt.Printf("\n  %sConversation:%s %s\n\n", display.Dim, display.Reset, session.ConversationID())
	}

	return nil
}

// joinConversation decides which conversation an ask belongs to. --new
// starts a fresh one with is_new_chat set, an explicit ID wins over the
// saved one, and with neither the server assigns an ID on first contact.
func joinConversation(session *chat.Session, flagID, savedID string, newChat bool) {
	switch {
	case newChat:
		session.NewConversation()
	case flagID != "":
		session.BeginSwitch(flagID)
	case savedID != "":
		session.BeginSwitch(savedID)
	}
}

// ─── history ────────────────────────────────────────────────────────────────

func cmdHistory(args []string) error {
	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	if err := cfg.ValidateUser(); err != nil {
		return err
	}

	conversationID := ""
	if len(args) > 0 {
		conversationID = args[0]
	} else if cfg.ConversationID != "" {
		conversationID = cfg.ConversationID
	} else {
		fmt.Println("Usage: arbor history [conversation-id]")
		return nil
	}

	client := api.NewClient(cfg)
	session := chat.NewSession(client, cfg.UserID)

	if err := session.SwitchConversation(conversationID); err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	display.Header(fmt.Sprintf("Conversation %s", conversationID))

	items := session.Transcript().Items()
	if len(items) == 0 {
		display.Warn("No messages in this conversation.")
		return nil
	}

	printItems(items)
	fmt.Println()
	return nil
}

// ─── conversations ──────────────────────────────────────────────────────────

func cmdConversations(args []string) error {
	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	if err := cfg.ValidateUser(); err != nil {
		return err
	}

	client := api.NewClient(cfg)

	if len(args) > 0 {
		switch args[0] {
		case "delete":
			if len(args) < 2 {
				return fmt.Errorf("usage: arbor conversations delete <id>")
			}
			if err := client.DeleteConversation(cfg.UserID, args[1]); err != nil {
				return fmt.Errorf("deleting conversation: %w", err)
			}
			display.Success(fmt.Sprintf("Conversation %s deleted", args[1]))
			if cfg.ConversationID == args[1] {
				cfg.ConversationID = ""
				_ = cfg.Save()
			}
			return nil
		case "rename":
			if len(args) < 3 {
				return fmt.Errorf("usage: arbor conversations rename <id> <title>")
			}
			title := strings.Join(args[2:], " ")
			if err := client.RenameConversation(cfg.UserID, args[1], title); err != nil {
				return fmt.Errorf("renaming conversation: %w", err)
			}
			display.Success(fmt.Sprintf("Conversation %s renamed to %q", args[1], title))
			return nil
		default:
			return fmt.Errorf("unknown subcommand: %s (valid: delete, rename)", args[0])
		}
	}

	resp, err := client.Conversations(cfg.UserID)
	if err != nil {
		return fmt.Errorf("listing conversations: %w", err)
	}

	display.Header(fmt.Sprintf("Conversations (%d)", len(resp.Conversations)))

	if len(resp.Conversations) == 0 {
		display.Warn("No conversations found.")
		return nil
	}

	for _, c := range resp.Conversations {
		title := truncate(c.Title, 60)
		if title == "" {
			title = display.Dim + "(untitled)" + display.Reset
		}
		marker := " "
		if c.ID == cfg.ConversationID {
			marker = display.Green + "●" + display.Reset
		}
		fmt.Printf("\n  %s 💬 %s%s%s\n", marker, display.Bold, title, display.Reset)
		fmt.Printf("     %sID:%s      %s\n", display.Dim, display.Reset, c.ID)
		fmt.Printf("     %sUpdated:%s %s\n", display.Dim, display.Reset, display.FormatTime(c.Timestamp))
	}

	fmt.Println()
	fmt.Printf("  %sTip:%s Run %sarbor history <id>%s to replay a conversation.\n\n",
		display.Dim, display.Reset, display.Cyan, display.Reset)

	return nil
}

// ─── watchlist ──────────────────────────────────────────────────────────────

func cmdWatchlist(args []string) error {
	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	if err := cfg.ValidateUser(); err != nil {
		return err
	}

	client := api.NewClient(cfg)

	if len(args) > 0 {
		switch args[0] {
		case "add":
			if len(args) < 2 {
				return fmt.Errorf("usage: arbor watchlist add <ticker>")
			}
			ticker := strings.ToUpper(args[1])
			if err := client.AddToWatchlist(cfg.UserID, ticker); err != nil {
				return fmt.Errorf("adding to watchlist: %w", err)
			}
			display.Success(fmt.Sprintf("%s added to watchlist", ticker))
			return nil
		case "remove":
			if len(args) < 2 {
				return fmt.Errorf("usage: arbor watchlist remove <ticker>")
			}
			ticker := strings.ToUpper(args[1])
			if err := client.RemoveFromWatchlist(cfg.UserID, ticker); err != nil {
				return fmt.Errorf("removing from watchlist: %w", err)
			}
			display.Success(fmt.Sprintf("%s removed from watchlist", ticker))
			return nil
		default:
			return fmt.Errorf("unknown subcommand: %s (valid: add, remove)", args[0])
		}
	}

	resp, err := client.Watchlist(cfg.UserID)
	if err != nil {
		return fmt.Errorf("loading watchlist: %w", err)
	}

	display.Header(fmt.Sprintf("Watchlist (%d)", len(resp.Watchlist)))

	if len(resp.Watchlist) == 0 {
		display.Warn("Watchlist is empty. Run: arbor watchlist add <ticker>")
		return nil
	}

	for _, item := range resp.Watchlist {
		printQuoteRow(item.Ticker, item.Name, item.Price, item.Change, item.Error)
	}
	fmt.Println()

	return nil
}

// ─── stocks ─────────────────────────────────────────────────────────────────

func cmdStocks(args []string) error {
	limit := 0

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n", "--limit":
			if i+1 < len(args) {
				i++
				n, err := strconv.Atoi(args[i])
				if err != nil {
					return fmt.Errorf("invalid limit: %s", args[i])
				}
				limit = n
			}
		}
	}

	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client := api.NewClient(cfg)

	quotes, err := client.Stocks(limit)
	if err != nil {
		return fmt.Errorf("listing stocks: %w", err)
	}

	display.Header(fmt.Sprintf("Stocks (%d)", len(quotes)))

	if len(quotes) == 0 {
		display.Warn("No stocks available.")
		return nil
	}

	for _, q := range quotes {
		printQuoteRow(q.Ticker, q.Name, q.Price, q.Change, q.Error)
	}
	fmt.Println()

	return nil
}

func cmdStock(args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: arbor stock <ticker>")
		return nil
	}

	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client := api.NewClient(cfg)
	ticker := strings.ToUpper(args[0])

	quote, err := client.Stock(ticker)
	if err != nil {
		return fmt.Errorf("loading quote: %w", err)
	}

	fmt.Println()
	printQuoteRow(quote.Ticker, quote.Name, quote.Price, quote.Change, quote.Error)
	fmt.Println()
	return nil
}

// ─── profiles ───────────────────────────────────────────────────────────────

func cmdProfiles() error {
	profiles, err := config.ListProfiles()
	if err != nil {
		return err
	}

	display.Header(fmt.Sprintf("Profiles (%d)", len(profiles)))

	if len(profiles) == 0 {
		display.Warn("No profiles found.")
		return nil
	}

	for _, p := range profiles {
		marker := " "
		if p == config.ProfileName(activeProfile) {
			marker = display.Green + "●" + display.Reset
		}
		fmt.Printf("  %s %s\n", marker, p)
	}
	fmt.Println()

	return nil
}

// ─── output helpers ─────────────────────────────────────────────────────────

func printItems(items []chat.MessageItem) {
	for _, item := range items {
		if item.Role == chat.RoleUser {
			text := ""
			for _, part := range item.Parts {
				if part.Type == chat.PartText {
					text = chat.Plain(part.Text)
					break
				}
			}
			fmt.Printf("\n  %s❯%s %s\n", display.Cyan, display.Reset, text)
			continue
		}

		for _, part := range item.Parts {
			switch part.Type {
			case chat.PartText:
				printBotText(part.Text)
			case chat.PartCard:
				fmt.Println()
				for _, line := range strings.Split(strings.TrimRight(display.Card(part.Card), "\n"), "\n") {
					fmt.Println("  " + line)
				}
			case chat.PartWatchlistCard:
				fmt.Println("  " + display.WatchlistRow(part.Card))
			}
		}
	}
}

func printBotText(units []chat.TextUnit) {
	hasTerms := false
	for _, u := range units {
		if u.IsTerm {
			hasTerms = true
			break
		}
	}

	if hasTerms {
		for _, line := range strings.Split(display.TermText(units), "\n") {
			fmt.Println("  " + line)
		}
		for _, def := range display.Definitions(units) {
			fmt.Println("  " + def)
		}
		return
	}

	rendered := display.Markdown(chat.Plain(units))
	for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
		fmt.Println("  " + line)
	}
}

func printQuoteRow(ticker, name string, price, change float64, quoteErr string) {
	if quoteErr != "" {
		fmt.Printf("  %s%-6s%s %s%s%s\n", display.Bold, ticker, display.Reset, display.Red, quoteErr, display.Reset)
		return
	}
	fmt.Printf("  %s%-6s%s %9s  %s  %s%s%s\n",
		display.Bold, ticker, display.Reset,
		display.FormatPrice(price),
		display.ChangeLabel(change),
		display.Dim, name, display.Reset)
}

func parseGlobalFlags(args []string) []string {
	var remaining []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--profile" {
			if i+1 < len(args) {
				i++
				activeProfile = args[i]
			}
			continue
		}
		remaining = append(remaining, args[i])
	}
	return remaining
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// ─── usage ──────────────────────────────────────────────────────────────────

func printUsage() {
	fmt.Printf(`%sArbor CLI%s — Conversational stock analysis (v%s)

%sUsage:%s
  arbor                                              Launch interactive mode (default)
  arbor [--profile <name>] <command> [arguments]     Run a specific command

%sGetting Started:%s
  set server <url>          Point at an Arbor backend
  set user <id>             Set your user ID (enables history and watchlist)
  config                    Show current configuration

%sChat:%s
  ask "<question>"          Ask about a stock (continues the saved conversation)
    -c, --conversation <id> Continue a specific conversation
    --new                   Start a fresh conversation
  history [conversation-id] Replay a conversation (defaults to the saved one)
  conversations             List your conversations
  conversations delete <id>
  conversations rename <id> <title>

%sMarket:%s
  watchlist                 Show your watchlist
  watchlist add <ticker>
  watchlist remove <ticker>
  stocks [-n <limit>]       List available stocks
  stock <ticker>            Quote a single ticker

%sProfiles:%s
  profiles                  List all config profiles
  --profile <name>          Use a named config profile (default: unnamed)

%sExamples:%s
  arbor                                              # Start interactive mode
  arbor set server http://localhost:8000
  arbor set user alice
  arbor ask "Should I buy AAPL?"
  arbor ask "What about the downside?" --new
  arbor history
  arbor watchlist add NVDA
  arbor --profile staging ask "How is TSLA doing?"

`, display.Bold, display.Reset, version,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset)
}
