package display

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m"
)

func Header(text string) {
	fmt.Printf("\n%s%s%s\n", Bold+Cyan, text, Reset)
	fmt.Println(strings.Repeat("─", min(len(text)+4, 80)))
}

func SubHeader(text string) {
	fmt.Printf("%s%s%s\n", Bold+White, text, Reset)
}

func Success(text string) {
	fmt.Printf("%s✓%s %s\n", Green, Reset, text)
}

func Error(text string) {
	fmt.Fprintf(os.Stderr, "%s✗%s %s\n", Red, Reset, text)
}

func Warn(text string) {
	fmt.Printf("%s!%s %s\n", Yellow, Reset, text)
}

func Info(label, value string) {
	fmt.Printf("  %s%-20s%s %s\n", Dim, label, Reset, value)
}

func Spinner(text string) {
	fmt.Printf("\r%s⟳%s %s", Yellow, Reset, text)
}

func ClearLine() {
	fmt.Print("\r\033[K")
}

// ActionLabel colors a recommendation action for terminal output.
func ActionLabel(action string) string {
	switch strings.ToUpper(action) {
	case "BUY", "STRONG BUY":
		return Bold + Green + strings.ToUpper(action) + Reset
	case "SELL", "STRONG SELL":
		return Bold + Red + strings.ToUpper(action) + Reset
	case "HOLD":
		return Bold + Yellow + "HOLD" + Reset
	default:
		return Bold + strings.ToUpper(action) + Reset
	}
}

// ChangeLabel formats a price change with sign and color.
func ChangeLabel(change float64) string {
	switch {
	case change > 0:
		return fmt.Sprintf("%s+%.2f%%%s", Green, change, Reset)
	case change < 0:
		return fmt.Sprintf("%s%.2f%%%s", Red, change, Reset)
	default:
		return Gray + "0.00%" + Reset
	}
}

func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

func FormatTime(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return ts
		}
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
