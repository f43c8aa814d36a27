// Package hotel models the hotel aggregate: category, and the
// per-hotel overrides the Pricing Engine and Transition Validator
// consult (spec §3 "Hotel"). It owns no persistence; repository.go
// defines the port the rest of the module depends on.
package hotel

// Category is a 1..5 star rating; higher categories carry a higher
// pricing multiplier (pricing.MCategory).
type Category int

const (
	OneStar   Category = 1
	TwoStar   Category = 2
	ThreeStar Category = 3
	FourStar  Category = 4
	FiveStar  Category = 5
)

// Valid reports whether c is one of the five defined star ratings.
func (c Category) Valid() bool { return c >= OneStar && c <= FiveStar }

// SeasonPeriod is one overridden [start,end) date range (month-day,
// wrapping year boundaries) mapped to a season label consulted by the
// Pricing Engine in place of the default periods table.
type SeasonPeriod struct {
	StartMonth, StartDay int
	EndMonth, EndDay     int
	Season               string // LOW | MEDIUM | HIGH | PEAK
}

// Hotel is the aggregate root for a property: its category and the
// optional overrides of default pricing/seasonal behavior (spec §3).
// All overrides are optional; a nil/empty override falls back to the
// package-level defaults in the pricing package.
type Hotel struct {
	ID       string
	Name     string
	Category Category

	// SeasonOverrides replaces the default seasonal periods table for
	// this hotel only, when non-empty.
	SeasonOverrides []SeasonPeriod

	// PricingRuleOverrides replaces individual multiplier constants
	// for this hotel only. pricing.Engine reads the keys
	// "M_room:<ROOM_TYPE>", "M_cat" and "M_season:<SEASON>"; yield
	// components have no override key.
	PricingRuleOverrides map[string]float64
}
