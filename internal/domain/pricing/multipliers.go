// Package pricing implements the dynamic pricing engine (spec §4.4):
// price(d) = p0 · M_room(r) · M_cat(c) · M_season(season(d)) · Y(d),
// where Y(d) is itself a product of six yield components. Grounded on
// the teacher's decimal rounding discipline in
// internal/payments/service/payment/refund_payment.go, and on the
// pack's suprachakra DynamicPricingEngine for the per-multiplier
// PriceBreakdown shape.
package pricing

import (
	"time"

	"hotel-reservation-engine/internal/domain/hotel"
	"hotel-reservation-engine/internal/domain/room"
)

// Season is one of the four seasonal labels of spec §4.4.
type Season string

const (
	Low    Season = "LOW"
	Medium Season = "MEDIUM"
	High   Season = "HIGH"
	Peak   Season = "PEAK"
)

// MRoom is the per-room-type base multiplier (spec §4.4).
var MRoom = map[room.Type]float64{
	room.Simple:        1.0,
	room.Double:        1.5,
	room.DoubleConfort: 1.8,
	room.Suite:         2.5,
}

// MCategory is the per-hotel-star-rating multiplier, monotone
// increasing (spec §4.4).
var MCategory = map[hotel.Category]float64{
	hotel.OneStar:   0.8,
	hotel.TwoStar:   0.975,
	hotel.ThreeStar: 1.15,
	hotel.FourStar:  1.3,
	hotel.FiveStar:  1.5,
}

// MSeason is the default seasonal multiplier table (spec §4.4).
var MSeason = map[Season]float64{
	Low:    0.8,
	Medium: 1.0,
	High:   1.25,
	Peak:   1.6,
}

// defaultSeasonPeriods is the wraparound-aware default periods table:
// northern-hemisphere-leisure-calendar shaped, overridable per hotel
// via hotel.Hotel.SeasonOverrides.
var defaultSeasonPeriods = []hotel.SeasonPeriod{
	{StartMonth: 12, StartDay: 15, EndMonth: 1, EndDay: 10, Season: string(Peak)},
	{StartMonth: 1, StartDay: 10, EndMonth: 3, EndDay: 1, Season: string(Low)},
	{StartMonth: 3, StartDay: 1, EndMonth: 6, EndDay: 1, Season: string(Medium)},
	{StartMonth: 6, StartDay: 1, EndMonth: 9, EndDay: 1, Season: string(High)},
	{StartMonth: 9, StartDay: 1, EndMonth: 12, EndDay: 15, Season: string(Medium)},
}

// SeasonFor resolves the season label for date d, consulting overrides
// first, then the default periods table, wrapping across year
// boundaries per spec §4.4.
func SeasonFor(d time.Time, overrides []hotel.SeasonPeriod) Season {
	periods := defaultSeasonPeriods
	if len(overrides) > 0 {
		periods = overrides
	}
	for _, p := range periods {
		if periodContains(p, d) {
			return Season(p.Season)
		}
	}
	return Medium
}

func periodContains(p hotel.SeasonPeriod, d time.Time) bool {
	start := p.StartMonth*100 + p.StartDay
	end := p.EndMonth*100 + p.EndDay
	cur := int(d.Month())*100 + d.Day()

	if start <= end {
		return cur >= start && cur < end
	}
	// Wraps across the year boundary (e.g. Dec 15 -> Jan 10).
	return cur >= start || cur < end
}

// EventKind is a calendar event looked up per date (spec §4.4).
type EventKind string

const (
	EventNone            EventKind = ""
	EventHoliday         EventKind = "HOLIDAY"
	EventConference      EventKind = "CONFERENCE"
	EventFestival        EventKind = "FESTIVAL"
	EventMajor           EventKind = "MAJOR_EVENT"
	EventLowSeasonEvent  EventKind = "LOW_SEASON_EVENT"
)

// MEvent is the per-event-kind multiplier table (spec §4.4).
var MEvent = map[EventKind]float64{
	EventNone:           1.0,
	EventHoliday:        1.35,
	EventConference:     1.30,
	EventFestival:       1.40,
	EventMajor:          1.50,
	EventLowSeasonEvent: 1.20,
}

// MOcc returns the occupancy-band multiplier for an occupancy
// percentage in [0,100] (spec §4.4, piecewise half-open bands).
func MOcc(occupancyPct float64) float64 {
	switch {
	case occupancyPct < 30:
		return 0.85
	case occupancyPct < 50:
		return 0.95
	case occupancyPct < 70:
		return 1.0
	case occupancyPct < 85:
		return 1.15
	case occupancyPct < 95:
		return 1.35
	default:
		return 1.5
	}
}

// MWindow returns the booking-window multiplier for daysInAdvance
// (spec §4.4).
func MWindow(daysInAdvance int) float64 {
	switch {
	case daysInAdvance <= 3:
		return 1.25
	case daysInAdvance <= 7:
		return 1.10
	case daysInAdvance <= 30:
		return 1.0
	case daysInAdvance <= 60:
		return 0.90
	default:
		return 0.85
	}
}

// MDow returns the day-of-week multiplier (spec §4.4).
func MDow(d time.Weekday) float64 {
	switch d {
	case time.Monday, time.Tuesday:
		return 0.85
	case time.Wednesday:
		return 0.90
	case time.Thursday:
		return 0.95
	case time.Friday:
		return 1.15
	case time.Saturday:
		return 1.20
	default: // Sunday
		return 0.90
	}
}

// MLos returns the length-of-stay multiplier, applied once to the
// first night only (spec §4.4 "not per night, for stability").
func MLos(nights int) float64 {
	switch {
	case nights <= 1:
		return 1.10
	case nights == 2:
		return 1.05
	case nights == 3:
		return 1.0
	case nights == 4:
		return 0.98
	case nights == 5:
		return 0.96
	case nights == 6:
		return 0.94
	default:
		return 0.92
	}
}

// clampYieldComponent bounds a single yield component to [0.7, 2.0]
// per spec §4.4.
func clampYieldComponent(v float64) float64 {
	if v < 0.7 {
		return 0.7
	}
	if v > 2.0 {
		return 2.0
	}
	return v
}

// override looks up key in a hotel's PricingRuleOverrides, returning
// (value, true) only when present.
func override(overrides map[string]float64, key string) (float64, bool) {
	if overrides == nil {
		return 0, false
	}
	v, ok := overrides[key]
	return v, ok
}
