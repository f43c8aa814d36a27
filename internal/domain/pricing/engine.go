package pricing

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"hotel-reservation-engine/internal/domain/hotel"
	"hotel-reservation-engine/internal/domain/room"
)

// Config holds the overridable band/rounding constants of spec §4.4/§6.
type Config struct {
	// YieldBandMin/Max clamp the per-night price to
	// [p0*YieldBandMin, p0*YieldBandMax] (spec §4.4 default 0.7/2.0).
	YieldBandMin float64
	YieldBandMax float64

	// RoundingDecimals is the currency rounding scale (spec §6,
	// default 2, half-up).
	RoundingDecimals int32
}

// DefaultConfig matches spec §4.4's literal defaults.
func DefaultConfig() Config {
	return Config{YieldBandMin: 0.7, YieldBandMax: 2.0, RoundingDecimals: 2}
}

// Engine is the dynamic pricing engine (spec §4.4).
type Engine struct {
	cfg       Config
	forecast  DemandForecaster
	occupancy OccupancySource
	events    EventSource
}

// NewEngine constructs an Engine. events may be NoEventSource{} when no
// calendar feed is configured.
func NewEngine(cfg Config, forecast DemandForecaster, occupancy OccupancySource, events EventSource) *Engine {
	return &Engine{cfg: cfg, forecast: forecast, occupancy: occupancy, events: events}
}

// Request is the input to Engine.Quote.
type Request struct {
	Hotel       hotel.Hotel
	RoomType    room.Type
	BasePrice   decimal.Decimal
	RoomCount   int
	CheckIn     time.Time
	CheckOut    time.Time
	// BookingDate is "now" for computing M_window's days-in-advance;
	// tests pass a fixed value instead of relying on the wall clock.
	BookingDate time.Time
	// YieldEnabled gates the Y(d) yield-management product (spec §6
	// QuotePrice input "yield-enabled"); disabled, price(d) is just
	// p0 · M_room(r) · M_cat(c) · M_season(season(d)), and no
	// RecommendedAction can be derived from a yield signal that was
	// never computed.
	YieldEnabled bool
}

// Quote computes the full price quote for req (spec §4.4).
func (e *Engine) Quote(ctx context.Context, req Request) (Quote, error) {
	p0 := req.BasePrice
	mRoom := e.lookupOverride(req.Hotel, "M_room:"+string(req.RoomType), MRoom[req.RoomType])
	mCat := e.lookupOverride(req.Hotel, "M_cat", MCategory[req.Hotel.Category])

	nights := int(req.CheckOut.Sub(req.CheckIn).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	daysInAdvance := int(req.CheckIn.Sub(req.BookingDate).Hours() / 24)
	if daysInAdvance < 0 {
		daysInAdvance = 0
	}
	mLos := MLos(nights)

	bandMin := p0.Mul(decimal.NewFromFloat(e.cfg.YieldBandMin))
	bandMax := p0.Mul(decimal.NewFromFloat(e.cfg.YieldBandMax))

	breakdown := make([]NightBreakdown, 0, nights)
	seasonsSeen := map[Season]bool{}
	yieldMultipliers := make([]float64, 0, nights)
	nightPrices := make([]decimal.Decimal, 0, nights)

	for i, d := 0, req.CheckIn; d.Before(req.CheckOut); i, d = i+1, d.AddDate(0, 0, 1) {
		season := SeasonFor(d, req.Hotel.SeasonOverrides)
		mSeason := e.lookupOverride(req.Hotel, "M_season:"+string(season), MSeason[season])
		seasonsSeen[season] = true

		mOcc, mWindow, mDow, mEvent, mDemand := 1.0, 1.0, 1.0, 1.0, 1.0
		losForNight := 1.0
		y := 1.0

		if req.YieldEnabled {
			occPct, err := e.occupancy.OccupancyPct(ctx, req.Hotel.ID, string(req.RoomType), d)
			if err != nil {
				return Quote{}, err
			}
			mOcc = MOcc(occPct)
			mWindow = MWindow(daysInAdvance)
			mDow = MDow(d.Weekday())

			eventKind, err := e.events.EventFor(ctx, req.Hotel.ID, d)
			if err != nil {
				return Quote{}, err
			}
			mEvent = MEvent[eventKind]

			predictedOcc, confidence, err := e.forecast.Forecast(ctx, req.Hotel.ID, string(req.RoomType), d)
			if err != nil {
				return Quote{}, err
			}
			mDemand = MDemand(predictedOcc, confidence)

			if i == 0 {
				losForNight = mLos
			}

			y = clampYieldComponent(mOcc) * clampYieldComponent(mWindow) * clampYieldComponent(mDow) *
				clampYieldComponent(losForNight) * clampYieldComponent(mEvent) * clampYieldComponent(mDemand)
		}

		price := p0.Mul(decimal.NewFromFloat(mRoom)).
			Mul(decimal.NewFromFloat(mCat)).
			Mul(decimal.NewFromFloat(mSeason)).
			Mul(decimal.NewFromFloat(y))

		if req.YieldEnabled {
			if price.LessThan(bandMin) {
				price = bandMin
			}
			if price.GreaterThan(bandMax) {
				price = bandMax
			}
		}
		price = price.Round(e.cfg.RoundingDecimals)

		breakdown = append(breakdown, NightBreakdown{
			Date: d.Format("2006-01-02"), Season: season,
			MRoom: mRoom, MCat: mCat, MSeason: mSeason,
			MOcc: mOcc, MWindow: mWindow, MDow: mDow, MLos: losForNight, MEvent: mEvent, MDemand: mDemand,
			YieldMultiplier: y, Price: price,
		})
		yieldMultipliers = append(yieldMultipliers, y)
		nightPrices = append(nightPrices, price)
	}

	perRoomTotal := decimal.Zero
	for _, p := range nightPrices {
		perRoomTotal = perRoomTotal.Add(p)
	}
	perRoomTotal = perRoomTotal.Round(e.cfg.RoundingDecimals)

	total := perRoomTotal.Mul(decimal.NewFromInt(int64(req.RoomCount))).Round(e.cfg.RoundingDecimals)

	perNightAverage := decimal.Zero
	if len(nightPrices) > 0 {
		perNightAverage = perRoomTotal.Div(decimal.NewFromInt(int64(len(nightPrices)))).Round(e.cfg.RoundingDecimals)
	}

	seasons := make([]Season, 0, len(seasonsSeen))
	for s := range seasonsSeen {
		seasons = append(seasons, s)
	}

	// RecommendedAction is itself a yield-management hint: with Y(d)
	// never computed, there is no signal to derive one from.
	action := ActionMaintain
	if req.YieldEnabled {
		action = recommendAction(yieldMultipliers, nightPrices)
	}

	return Quote{
		TotalAmount:       total,
		PerRoomAmount:     perRoomTotal,
		PerNightAverage:   perNightAverage,
		Nights:            breakdown,
		SeasonsObserved:   seasons,
		RecommendedAction: action,
	}, nil
}

func (e *Engine) lookupOverride(h hotel.Hotel, key string, fallback float64) float64 {
	if v, ok := override(h.PricingRuleOverrides, key); ok {
		return v
	}
	return fallback
}

// recommendAction derives a RecommendedAction from the quote's
// per-night yield multipliers and prices (spec §4.4; exact thresholds
// are an Open-Question resolution recorded in DESIGN.md).
func recommendAction(yieldMultipliers []float64, prices []decimal.Decimal) RecommendedAction {
	if len(yieldMultipliers) == 0 {
		return ActionMaintain
	}

	var sum float64
	for _, y := range yieldMultipliers {
		sum += y
	}
	avgYield := sum / float64(len(yieldMultipliers))

	if avgYield >= 1.15 {
		return ActionIncrease
	}
	if avgYield <= 0.9 {
		return ActionPromotion
	}

	mean := 0.0
	floats := make([]float64, len(prices))
	for i, p := range prices {
		f, _ := p.Float64()
		floats[i] = f
		mean += f
	}
	mean /= float64(len(floats))
	if mean == 0 {
		return ActionMaintain
	}

	var variance float64
	for _, f := range floats {
		d := f - mean
		variance += d * d
	}
	variance /= float64(len(floats))
	stdDev := math.Sqrt(variance)

	if stdDev/mean > 0.15 {
		return ActionStabilize
	}
	return ActionMaintain
}
