// Card rendering preview. Run with `go run ./cmd/cardpreview` to eyeball
// the recommendation card, watchlist rows, and term styling without a
// backend.
package main

import (
	"fmt"

	"arbor-cli/internal/chat"
	"arbor-cli/internal/display"
)

func main() {
	card := &chat.RecommendationCard{
		Ticker: "NVDA",
		Name:   "NVIDIA Corporation",
		Recommendation: chat.Recommendation{
			Action:     "Strong Buy",
			Summary:    chat.TextSpan(annotated("MACD", "Moving Average Convergence Divergence", " is trending up with data center revenue accelerating.")),
			ActionTags: []string{"semiconductors", "ai", "momentum"},
		},
		PredictionDate: "2026-08-28",
		Analysis: chat.Analysis{
			Pros: []chat.TextSpan{
				chat.Literal("Record data center revenue, up 94% year over year"),
				chat.TextSpan(annotated("RSI", "Relative Strength Index, a momentum oscillator", " cooling off from overbought levels")),
			},
			Cons: []chat.TextSpan{
				chat.Literal("Valuation leaves little room for execution missteps"),
			},
		},
		Data: chat.MarketData{
			ClosePrice: 181.72,
			Volume:     244_120_000,
			Indicators: chat.TechnicalIndicators{
				MACD:       2.31,
				RSI30:      61.4,
				CCI30:      88.2,
				DX30:       24.1,
				BollUpper:  190.55,
				BollLower:  162.03,
				Close30SMA: 172.18,
				Close60SMA: 165.90,
			},
		},
	}

	display.Header("Expanded card")
	fmt.Println(display.Card(card))

	display.Header("Watchlist rows")
	for _, c := range []*chat.RecommendationCard{
		{Ticker: "AAPL", Name: "Apple Inc.", Recommendation: chat.Recommendation{Action: "Hold"}, Data: chat.MarketData{ClosePrice: 228.11}},
		{Ticker: "TSLA", Name: "Tesla, Inc.", Recommendation: chat.Recommendation{Action: "Sell"}, Data: chat.MarketData{ClosePrice: 212.40}},
		{Ticker: "MSFT", Recommendation: chat.Recommendation{Action: "Buy"}, Data: chat.MarketData{ClosePrice: 415.02}},
	} {
		fmt.Println("  " + display.WatchlistRow(c))
	}
	fmt.Println()

	display.Header("Annotated narrative")
	units := annotated("bollinger bands", "Volatility bands plotted around a moving average",
		" tightened ahead of earnings.")
	fmt.Println("  " + display.TermText(units))
	for _, def := range display.Definitions(units) {
		fmt.Println("  " + def)
	}
	fmt.Println()
}

func annotated(term, definition, rest string) []chat.TextUnit {
	return []chat.TextUnit{
		{Text: term, IsTerm: true, Definition: definition},
		{Text: rest},
	}
}
