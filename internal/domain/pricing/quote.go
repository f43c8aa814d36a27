package pricing

import "github.com/shopspring/decimal"

// RecommendedAction is a yield-management hint derived from a quote's
// per-night multipliers (spec §4.4).
type RecommendedAction string

const (
	ActionIncrease  RecommendedAction = "INCREASE"
	ActionPromotion RecommendedAction = "PROMOTION"
	ActionStabilize RecommendedAction = "STABILIZE"
	ActionMaintain  RecommendedAction = "MAINTAIN"
)

// NightBreakdown is the per-night multiplier detail spec §4.4 requires
// the engine to return, shaped after the pack's suprachakra
// PriceBreakdown (one field per multiplier rather than a flattened
// list).
type NightBreakdown struct {
	Date   string // RFC3339 date (YYYY-MM-DD)
	Season Season

	MRoom   float64
	MCat    float64
	MSeason float64

	MOcc    float64
	MWindow float64
	MDow    float64
	MLos    float64
	MEvent  float64
	MDemand float64

	YieldMultiplier float64
	Price           decimal.Decimal
}

// Quote is the full result of Engine.Quote (spec §4.4): "total,
// per-room, per-night average, per-night breakdown ..., seasons
// summary, and a RecommendedAction".
type Quote struct {
	TotalAmount       decimal.Decimal
	PerRoomAmount     decimal.Decimal
	PerNightAverage   decimal.Decimal
	Nights            []NightBreakdown
	SeasonsObserved   []Season
	RecommendedAction RecommendedAction
}
