package tui

import (
	"fmt"
	"strings"

	"arbor-cli/internal/chat"
	"arbor-cli/internal/display"
)

// ─── Welcome Screen ─────────────────────────────────────────────────────────

func renderWelcome(version, server, userID string, width int) string {
	titleLine := logoTitleStyle.Render("Arbor") + " " + versionStyle.Render("v"+version)

	var infoLine string
	if server == "" {
		infoLine = welcomeHintStyle.Render("Run: arbor set server <url> to get started")
	} else {
		serverDisplay := server
		if len(serverDisplay) > 40 {
			serverDisplay = serverDisplay[:37] + "..."
		}
		userDisplay := dimStyle.Render("no user")
		if userID != "" {
			userDisplay = userID
			if len(userDisplay) > 30 {
				userDisplay = userDisplay[:27] + "..."
			}
		}
		infoLine = welcomeInfoLabel.Render(fmt.Sprintf("%s · %s", serverDisplay, userDisplay))
	}

	tree := renderTreeASCIIArt()
	return fmt.Sprintf("\n%s\n\n%s\n%s\n", tree, titleLine, infoLine)
}

const treeASCIIArt = `
        *********
     ***************
   *******************
  *********************
   *******************
     ***************
        *********
           |||
           |||
           |||
        ___|||___
`

func renderTreeASCIIArt() string {
	lines := strings.Split(treeASCIIArt, "\n")
	lines = trimEmptyEdgeLines(lines)

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := countLeadingSpaces(line)
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}

	for i, line := range lines {
		line = strings.TrimRight(line, " ")
		if minIndent > 0 && len(line) >= minIndent {
			line = line[minIndent:]
		}
		lines[i] = colorizeTreeLine(line)
	}

	return strings.Join(lines, "\n")
}

func trimEmptyEdgeLines(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}

	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

func countLeadingSpaces(s string) int {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return i
}

func colorizeTreeLine(line string) string {
	const (
		stylePlain = iota
		styleCrown
		styleTrunk
	)

	styleFor := func(r rune) int {
		switch r {
		case '*', '%', '@':
			return styleCrown
		case '|', '_':
			return styleTrunk
		default:
			return stylePlain
		}
	}

	render := func(style int, s string) string {
		switch style {
		case styleCrown:
			return logoCrownStyle.Render(s)
		case styleTrunk:
			return logoTrunkStyle.Render(s)
		default:
			return s
		}
	}

	var out strings.Builder
	var run strings.Builder
	currentStyle := stylePlain
	first := true

	flush := func() {
		if run.Len() == 0 {
			return
		}
		out.WriteString(render(currentStyle, run.String()))
		run.Reset()
	}

	for _, r := range line {
		nextStyle := styleFor(r)
		if first {
			currentStyle = nextStyle
			first = false
		} else if nextStyle != currentStyle {
			flush()
			currentStyle = nextStyle
		}
		run.WriteRune(r)
	}

	flush()
	return out.String()
}

// ─── Message items ──────────────────────────────────────────────────────────

// renderItem renders one transcript item as lines of terminal output.
func renderItem(item chat.MessageItem, focused string) []string {
	switch item.Role {
	case chat.RoleUser:
		text := chat.Plain(textOf(item))
		return []string{"", userPromptStyle.Render("  ❯ " + text)}
	default:
		var lines []string
		for _, part := range item.Parts {
			switch part.Type {
			case chat.PartText:
				lines = append(lines, renderTextPart(part.Text)...)
			case chat.PartCard:
				lines = append(lines, renderCardBlock(part.Card, part.Card != nil && part.Card.Ticker == focused)...)
			case chat.PartWatchlistCard:
				// A focused watchlist entry expands to the full card.
				if part.Card != nil && part.Card.Ticker == focused {
					lines = append(lines, renderCardBlock(part.Card, true)...)
				} else {
					lines = append(lines, renderWatchRow(part.Card))
				}
			}
		}
		return lines
	}
}

func textOf(item chat.MessageItem) []chat.TextUnit {
	for _, part := range item.Parts {
		if part.Type == chat.PartText {
			return part.Text
		}
	}
	return nil
}

// renderTextPart renders assistant text. Annotated terms get highlighted with
// a definitions footer; plain text goes through the markdown renderer.
func renderTextPart(units []chat.TextUnit) []string {
	hasTerms := false
	for _, u := range units {
		if u.IsTerm {
			hasTerms = true
			break
		}
	}

	var lines []string
	if !hasTerms {
		rendered := display.Markdown(chat.Plain(units))
		for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
			lines = append(lines, "  "+line)
		}
		return lines
	}

	var b strings.Builder
	for _, u := range units {
		if u.IsTerm {
			b.WriteString(termStyle.Render(u.Text))
		} else {
			b.WriteString(u.Text)
		}
	}
	for _, line := range strings.Split(b.String(), "\n") {
		lines = append(lines, "  "+line)
	}
	for _, u := range units {
		if u.IsTerm && u.Definition != "" {
			lines = append(lines, termDefStyle.Render("    "+u.Text+": "+u.Definition))
		}
	}
	return lines
}

func actionLabel(action string) string {
	upper := strings.ToUpper(action)
	switch upper {
	case "BUY", "STRONG BUY":
		return actionBuyStyle.Render(upper)
	case "SELL", "STRONG SELL":
		return actionSellStyle.Render(upper)
	case "HOLD":
		return actionHoldStyle.Render(upper)
	default:
		return cardTickerStyle.Render(upper)
	}
}

func renderSpan(span chat.TextSpan) string {
	var b strings.Builder
	for _, u := range span {
		if u.IsTerm {
			b.WriteString(termStyle.Render(u.Text))
		} else {
			b.WriteString(u.Text)
		}
	}
	return b.String()
}

// renderCardBlock renders an expanded recommendation card inside a border.
func renderCardBlock(card *chat.RecommendationCard, focused bool) []string {
	if card == nil {
		return nil
	}

	var b strings.Builder

	title := card.Ticker
	if card.Name != "" {
		title += " · " + card.Name
	}
	b.WriteString(cardTickerStyle.Render(title) + "  " + actionLabel(card.Recommendation.Action) + "\n")

	if summary := renderSpan(card.Recommendation.Summary); summary != "" {
		b.WriteString(summary + "\n")
	}
	if len(card.Recommendation.ActionTags) > 0 {
		b.WriteString(tagStyle.Render(strings.Join(card.Recommendation.ActionTags, " · ")) + "\n")
	}
	if card.PredictionDate != "" {
		b.WriteString(dimStyle.Render("Prediction date: "+card.PredictionDate) + "\n")
	}

	if len(card.Analysis.Pros) > 0 {
		b.WriteString(actionBuyStyle.Render("Pros") + "\n")
		for _, pro := range card.Analysis.Pros {
			b.WriteString("  • " + renderSpan(pro) + "\n")
		}
	}
	if len(card.Analysis.Cons) > 0 {
		b.WriteString(actionSellStyle.Render("Cons") + "\n")
		for _, con := range card.Analysis.Cons {
			b.WriteString("  • " + renderSpan(con) + "\n")
		}
	}

	b.WriteString(renderIndicators(card))

	style := cardBorderStyle
	if focused {
		style = cardFocusedBorderStyle
	}
	boxed := style.Render(strings.TrimRight(b.String(), "\n"))

	var lines []string
	for _, line := range strings.Split(boxed, "\n") {
		lines = append(lines, "  "+line)
	}

	if defs := cardDefinitions(card); len(defs) > 0 {
		lines = append(lines, defs...)
	}
	return lines
}

func renderIndicators(card *chat.RecommendationCard) string {
	d := card.Data
	ind := d.Indicators

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s  %s %.0f\n",
		dimStyle.Render("Close"), display.FormatPrice(d.ClosePrice),
		dimStyle.Render("Volume"), d.Volume))

	rows := []struct {
		label string
		value float64
	}{
		{"MACD", ind.MACD},
		{"RSI(30)", ind.RSI30},
		{"CCI(30)", ind.CCI30},
		{"DX(30)", ind.DX30},
		{"Boll UB", ind.BollUpper},
		{"Boll LB", ind.BollLower},
		{"SMA(30)", ind.Close30SMA},
		{"SMA(60)", ind.Close60SMA},
	}
	for i, r := range rows {
		b.WriteString(fmt.Sprintf("%s %10.2f", dimStyle.Render(fmt.Sprintf("%-8s", r.label)), r.value))
		if i%2 == 1 {
			b.WriteString("\n")
		} else {
			b.WriteString("  ")
		}
	}
	return b.String()
}

func cardDefinitions(card *chat.RecommendationCard) []string {
	spans := []chat.TextSpan{card.Recommendation.Summary}
	spans = append(spans, card.Analysis.Pros...)
	spans = append(spans, card.Analysis.Cons...)

	seen := make(map[string]bool)
	var lines []string
	for _, span := range spans {
		for _, u := range span {
			if !u.IsTerm || u.Definition == "" || seen[u.Text] {
				continue
			}
			seen[u.Text] = true
			lines = append(lines, termDefStyle.Render("    "+u.Text+": "+u.Definition))
		}
	}
	return lines
}

// renderWatchRow renders the compact one-line card used for multi-card replies.
func renderWatchRow(card *chat.RecommendationCard) string {
	if card == nil {
		return ""
	}
	name := card.Name
	if name == "" {
		name = card.Ticker
	}
	return fmt.Sprintf("    %s %s  %s  %s",
		cardTickerStyle.Render(fmt.Sprintf("%-6s", card.Ticker)),
		actionLabel(card.Recommendation.Action),
		display.FormatPrice(card.Data.ClosePrice),
		dimStyle.Render(name))
}

func truncateID(s string) string {
	if len(s) > 20 {
		return s[:8] + "..." + s[len(s)-4:]
	}
	return s
}
