package pricing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-reservation-engine/internal/domain/hotel"
	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/room"
)

type fixedOccupancy struct{ pct float64 }

func (f fixedOccupancy) OccupancyPct(context.Context, string, string, time.Time) (float64, error) {
	return f.pct, nil
}

type fixedForecast struct {
	predicted  float64
	confidence float64
}

func (f fixedForecast) Forecast(context.Context, string, string, time.Time) (float64, float64, error) {
	return f.predicted, f.confidence, nil
}

func TestEngine_Quote_BaselineNoSurge(t *testing.T) {
	ctx := context.Background()
	engine := pricing.NewEngine(
		pricing.DefaultConfig(),
		fixedForecast{predicted: 50, confidence: 0.5},
		fixedOccupancy{pct: 60}, // MOcc band [50,70) -> 1.0
		pricing.NoEventSource{},
	)

	h := hotel.Hotel{ID: "h1", Category: hotel.ThreeStar}
	checkIn := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)  // Wednesday, medium season
	bookingDate := checkIn.AddDate(0, 0, -45)                // window band (30,60] -> 0.90

	quote, err := engine.Quote(ctx, pricing.Request{
		Hotel: h, RoomType: room.Double, BasePrice: decimal.NewFromInt(100),
		RoomCount: 1, CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 3), BookingDate: bookingDate,
		YieldEnabled: true,
	})
	require.NoError(t, err)
	assert.Len(t, quote.Nights, 3)
	assert.True(t, quote.TotalAmount.GreaterThan(decimal.Zero))
	for _, n := range quote.Nights {
		assert.Equal(t, int32(2), int32(n.Price.Exponent()*-1))
	}
}

func TestEngine_Quote_YieldBandClampsHighDemand(t *testing.T) {
	ctx := context.Background()
	engine := pricing.NewEngine(
		pricing.DefaultConfig(),
		fixedForecast{predicted: 95, confidence: 0.9},
		fixedOccupancy{pct: 99}, // MOcc [95,100] -> 1.5, max component
		pricing.NoEventSource{},
	)

	h := hotel.Hotel{ID: "h1", Category: hotel.FiveStar}
	checkIn := time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC) // peak season, Sunday->Saturday window
	bookingDate := checkIn.AddDate(0, 0, -1)                  // window <=3 -> 1.25

	quote, err := engine.Quote(ctx, pricing.Request{
		Hotel: h, RoomType: room.Suite, BasePrice: decimal.NewFromInt(500),
		RoomCount: 1, CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 1), BookingDate: bookingDate,
		YieldEnabled: true,
	})
	require.NoError(t, err)
	require.Len(t, quote.Nights, 1)

	bandMax := decimal.NewFromInt(500).Mul(decimal.NewFromFloat(2.0))
	assert.True(t, quote.Nights[0].Price.LessThanOrEqual(bandMax))
	assert.Equal(t, pricing.ActionIncrease, quote.RecommendedAction)
}

func TestEngine_Quote_LowDemandRecommendsPromotion(t *testing.T) {
	ctx := context.Background()
	engine := pricing.NewEngine(
		pricing.DefaultConfig(),
		fixedForecast{predicted: 20, confidence: 0.3},
		fixedOccupancy{pct: 10}, // MOcc [0,30) -> 0.85
		pricing.NoEventSource{},
	)

	h := hotel.Hotel{ID: "h1", Category: hotel.OneStar}
	checkIn := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC) // low season, Tuesday -> 0.85
	bookingDate := checkIn.AddDate(0, 0, -90)                 // window > 60 -> 0.85

	quote, err := engine.Quote(ctx, pricing.Request{
		Hotel: h, RoomType: room.Simple, BasePrice: decimal.NewFromInt(50),
		RoomCount: 1, CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 7), BookingDate: bookingDate,
		YieldEnabled: true,
	})
	require.NoError(t, err)
	assert.Equal(t, pricing.ActionPromotion, quote.RecommendedAction)
}

// TestEngine_Quote_YieldDisabledMatchesWorkedExample reproduces the
// spec's literal happy-path worked example: hotel H, category 4
// (M_cat=1.3), 1 DOUBLE (M_room=1.5), season HIGH (M_season=1.25),
// base 200, yield disabled, 2025-07-15 to 2025-07-18 (3 nights) ->
// per-night 487.50, total 1462.50.
func TestEngine_Quote_YieldDisabledMatchesWorkedExample(t *testing.T) {
	ctx := context.Background()
	engine := pricing.NewEngine(
		pricing.DefaultConfig(),
		fixedForecast{predicted: 95, confidence: 0.9}, // would surge if yield were enabled
		fixedOccupancy{pct: 99},                       // would clamp to max band if yield were enabled
		pricing.NoEventSource{},
	)

	h := hotel.Hotel{ID: "h1", Category: hotel.FourStar}
	checkIn := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, 7, 18, 0, 0, 0, 0, time.UTC)

	quote, err := engine.Quote(ctx, pricing.Request{
		Hotel: h, RoomType: room.Double, BasePrice: decimal.NewFromInt(200),
		RoomCount: 1, CheckIn: checkIn, CheckOut: checkOut, BookingDate: checkIn.AddDate(0, 0, -10),
		YieldEnabled: false,
	})
	require.NoError(t, err)
	require.Len(t, quote.Nights, 3)

	wantPerNight := decimal.RequireFromString("487.50")
	wantTotal := decimal.RequireFromString("1462.50")
	for _, n := range quote.Nights {
		assert.True(t, n.Price.Equal(wantPerNight), "got %s, want %s", n.Price, wantPerNight)
	}
	assert.True(t, quote.TotalAmount.Equal(wantTotal), "got %s, want %s", quote.TotalAmount, wantTotal)
	assert.True(t, quote.PerNightAverage.Equal(wantPerNight))
	assert.Equal(t, pricing.ActionMaintain, quote.RecommendedAction)
}

func TestMOcc_BoundaryBands(t *testing.T) {
	assert.Equal(t, 0.85, pricing.MOcc(0))
	assert.Equal(t, 0.95, pricing.MOcc(30))
	assert.Equal(t, 1.0, pricing.MOcc(50))
	assert.Equal(t, 1.15, pricing.MOcc(70))
	assert.Equal(t, 1.35, pricing.MOcc(85))
	assert.Equal(t, 1.5, pricing.MOcc(95))
	assert.Equal(t, 1.5, pricing.MOcc(100))
}

func TestSeasonFor_WrapsYearBoundary(t *testing.T) {
	dec25 := time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)
	jan5 := time.Date(2027, 1, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, pricing.Peak, pricing.SeasonFor(dec25, nil))
	assert.Equal(t, pricing.Peak, pricing.SeasonFor(jan5, nil))
}
