package chat

import "encoding/json"

// ─── Recommendation cards ───────────────────────────────────────────────────

// TextSpan is a card text field that the backend sends either as a plain
// string or as an annotated unit array. It always decodes to a unit
// sequence; decoding never fails.
type TextSpan []TextUnit

func (s *TextSpan) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Literal(str)
		return nil
	}
	var units []TextUnit
	if err := json.Unmarshal(data, &units); err == nil && len(units) > 0 {
		*s = units
		return nil
	}
	*s = Literal(string(data))
	return nil
}

func (s TextSpan) MarshalJSON() ([]byte, error) {
	return json.Marshal([]TextUnit(s))
}

// Plain returns the span's text with annotations stripped.
func (s TextSpan) Plain() string {
	return Plain(s)
}

// Recommendation is the advice block of a card.
type Recommendation struct {
	Action     string   `json:"action"`
	Summary    TextSpan `json:"summary"`
	ActionTags []string `json:"action_tags"`
}

// Analysis lists the pro/con bullets for a recommendation.
type Analysis struct {
	Pros []TextSpan `json:"pros"`
	Cons []TextSpan `json:"cons"`
}

// TechnicalIndicators is the fixed indicator set the backend computes.
// Display-only; the pipeline never interprets these.
type TechnicalIndicators struct {
	MACD       float64 `json:"macd"`
	RSI30      float64 `json:"rsi_30"`
	CCI30      float64 `json:"cci_30"`
	BollUpper  float64 `json:"boll_ub"`
	BollLower  float64 `json:"boll_lb"`
	DX30       float64 `json:"dx_30"`
	Close30SMA float64 `json:"close_30_sma"`
	Close60SMA float64 `json:"close_60_sma"`
}

// MarketData is the quote snapshot attached to a card.
type MarketData struct {
	ClosePrice float64             `json:"close_price"`
	Volume     float64             `json:"volume"`
	Indicators TechnicalIndicators `json:"technical_indicators"`
}

// RecommendationCard is one structured stock recommendation.
type RecommendationCard struct {
	Ticker         string         `json:"ticker"`
	Name           string         `json:"name"`
	Recommendation Recommendation `json:"recommendation"`
	PredictionDate string         `json:"prediction_date"`
	Analysis       Analysis       `json:"analysis"`
	Data           MarketData     `json:"data"`
}

// ─── Classification ─────────────────────────────────────────────────────────

// CardKind says how a turn's card set renders.
type CardKind int

const (
	KindNone      CardKind = iota // no cards
	KindSingle                    // one expanded detail card
	KindWatchlist                 // compact multi-card strip
)

// Classification is the sealed rendering decision for one turn's cards.
type Classification struct {
	Kind  CardKind
	Items []RecommendationCard
}

// Classify decides the rendering mode for a card set. The decision depends
// only on the count and is made once per turn; item order is preserved.
func Classify(cards []RecommendationCard) Classification {
	switch len(cards) {
	case 0:
		return Classification{Kind: KindNone}
	case 1:
		return Classification{Kind: KindSingle, Items: cards}
	default:
		return Classification{Kind: KindWatchlist, Items: cards}
	}
}
