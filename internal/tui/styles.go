package tui

import "github.com/charmbracelet/lipgloss"

// ─── Colors ─────────────────────────────────────────────────────────────────

var (
	colorLeaf    = lipgloss.Color("#3BA55D") // arbor green — primary accent
	colorGreen   = lipgloss.Color("78")
	colorYellow  = lipgloss.Color("220")
	colorRed     = lipgloss.Color("196")
	colorCyan    = lipgloss.Color("87")
	colorBlue    = lipgloss.Color("111")
	colorGray    = lipgloss.Color("242")
	colorDimGray = lipgloss.Color("238")
	colorWhite   = lipgloss.Color("255")
)

// ─── Welcome ────────────────────────────────────────────────────────────────

var logoCrownStyle = lipgloss.NewStyle().
	Foreground(colorLeaf)

var logoTrunkStyle = lipgloss.NewStyle().
	Foreground(colorGray)

var logoTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorWhite)

var versionStyle = lipgloss.NewStyle().
	Foreground(colorGray)

var welcomeHintStyle = lipgloss.NewStyle().
	Foreground(colorGray).
	Italic(true)

var welcomeInfoLabel = lipgloss.NewStyle().
	Foreground(colorGray)

// ─── Input / Prompt ─────────────────────────────────────────────────────────

var promptSymbol = lipgloss.NewStyle().
	Foreground(colorLeaf).
	Bold(true)

// ─── Hint Bar ───────────────────────────────────────────────────────────────

var hintBarStyle = lipgloss.NewStyle().
	Foreground(colorGray)

var hintKeyStyle = lipgloss.NewStyle().
	Foreground(colorGray).
	Bold(true)

// Command menu styles
var cmdNameStyle = lipgloss.NewStyle().
	Foreground(colorLeaf)

var cmdDescStyle = lipgloss.NewStyle().
	Foreground(colorGray)

// Selected/highlighted command in the menu
var cmdSelectedNameStyle = lipgloss.NewStyle().
	Foreground(colorLeaf).
	Bold(true).
	Reverse(true)

var cmdSelectedDescStyle = lipgloss.NewStyle().
	Foreground(colorWhite).
	Bold(true)

// ─── Output Styles ──────────────────────────────────────────────────────────

var successMsgStyle = lipgloss.NewStyle().
	Foreground(colorGreen)

var errorMsgStyle = lipgloss.NewStyle().
	Foreground(colorRed)

var warnMsgStyle = lipgloss.NewStyle().
	Foreground(colorYellow)

var statusStyle = lipgloss.NewStyle().
	Foreground(colorYellow)

var userPromptStyle = lipgloss.NewStyle().
	Foreground(colorLeaf).
	Bold(true)

var adviceStyle = lipgloss.NewStyle().
	Foreground(colorBlue).
	Italic(true)

var dimStyle = lipgloss.NewStyle().
	Foreground(colorGray)

var separatorStyle = lipgloss.NewStyle().
	Foreground(colorDimGray)

// ─── Cards ──────────────────────────────────────────────────────────────────

var cardTickerStyle = lipgloss.NewStyle().
	Foreground(colorWhite).
	Bold(true)

var cardBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorDimGray).
	Padding(0, 1)

var cardFocusedBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorLeaf).
	Padding(0, 1)

var actionBuyStyle = lipgloss.NewStyle().
	Foreground(colorGreen).
	Bold(true)

var actionSellStyle = lipgloss.NewStyle().
	Foreground(colorRed).
	Bold(true)

var actionHoldStyle = lipgloss.NewStyle().
	Foreground(colorYellow).
	Bold(true)

var termStyle = lipgloss.NewStyle().
	Foreground(colorCyan).
	Underline(true)

var termDefStyle = lipgloss.NewStyle().
	Foreground(colorGray).
	Italic(true)

var tagStyle = lipgloss.NewStyle().
	Foreground(colorGray)
