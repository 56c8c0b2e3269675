package display

import (
	"fmt"
	"strings"

	"arbor-cli/internal/chat"
)

// TermText renders annotated text, highlighting glossary terms. Terms get a
// dagger so the definitions footnote can be matched by eye.
func TermText(units []chat.TextUnit) string {
	var b strings.Builder
	for _, u := range units {
		if u.IsTerm {
			b.WriteString(Cyan + u.Text + Reset + Dim + "†" + Reset)
		} else {
			b.WriteString(u.Text)
		}
	}
	return b.String()
}

// Definitions collects term definitions from a batch of unit slices,
// first occurrence wins. Returns nil when nothing is defined.
func Definitions(unitGroups ...[]chat.TextUnit) []string {
	seen := make(map[string]bool)
	var defs []string
	for _, units := range unitGroups {
		for _, u := range units {
			if !u.IsTerm || u.Definition == "" || seen[u.Text] {
				continue
			}
			seen[u.Text] = true
			defs = append(defs, fmt.Sprintf("%s†%s %s%s%s: %s", Dim, Reset, Bold, u.Text, Reset, u.Definition))
		}
	}
	return defs
}

// Card renders a full recommendation card for terminal output.
func Card(card *chat.RecommendationCard) string {
	var b strings.Builder

	title := card.Ticker
	if card.Name != "" {
		title += " · " + card.Name
	}
	b.WriteString(fmt.Sprintf("%s%s%s  %s\n", Bold+White, title, Reset, ActionLabel(card.Recommendation.Action)))

	if summary := TermText(card.Recommendation.Summary); summary != "" {
		b.WriteString(summary + "\n")
	}
	if len(card.Recommendation.ActionTags) > 0 {
		b.WriteString(Dim + strings.Join(card.Recommendation.ActionTags, " · ") + Reset + "\n")
	}
	if card.PredictionDate != "" {
		b.WriteString(fmt.Sprintf("%sPrediction date:%s %s\n", Dim, Reset, card.PredictionDate))
	}

	var groups [][]chat.TextUnit
	groups = append(groups, card.Recommendation.Summary)

	if len(card.Analysis.Pros) > 0 {
		b.WriteString(Green + "Pros" + Reset + "\n")
		for _, pro := range card.Analysis.Pros {
			b.WriteString("  • " + TermText(pro) + "\n")
			groups = append(groups, pro)
		}
	}
	if len(card.Analysis.Cons) > 0 {
		b.WriteString(Red + "Cons" + Reset + "\n")
		for _, con := range card.Analysis.Cons {
			b.WriteString("  • " + TermText(con) + "\n")
			groups = append(groups, con)
		}
	}

	b.WriteString(marketData(card))

	if defs := Definitions(groups...); len(defs) > 0 {
		b.WriteString(Dim + strings.Repeat("─", 40) + Reset + "\n")
		for _, d := range defs {
			b.WriteString(d + "\n")
		}
	}
	return b.String()
}

func marketData(card *chat.RecommendationCard) string {
	d := card.Data
	ind := d.Indicators

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%sClose%s %s   %sVolume%s %.0f\n",
		Dim, Reset, FormatPrice(d.ClosePrice), Dim, Reset, d.Volume))

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
		b.WriteString(fmt.Sprintf("  %s%-8s%s %10.2f", Dim, r.label, Reset, r.value))
		if i%2 == 1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// WatchlistRow renders a compact single-line view of a card. Used when a
// reply carries several cards at once.
func WatchlistRow(card *chat.RecommendationCard) string {
	name := card.Name
	if name == "" {
		name = card.Ticker
	}
	return fmt.Sprintf("%s%-6s%s %s  %s  %s",
		Bold+White, card.Ticker, Reset,
		ActionLabel(card.Recommendation.Action),
		FormatPrice(card.Data.ClosePrice),
		Dim+name+Reset)
}
