package pricing

import (
	"context"
	"time"
)

// OccupancySource resolves the occupancy percentage driving M_occ
// (spec §4.4): occupied rooms of a type over total bookable rooms of
// that type, for a given date. Kept as a port rather than a direct
// dependency on room.Repository/availability.Projector so the Engine
// has no storage dependency of its own.
type OccupancySource interface {
	OccupancyPct(ctx context.Context, hotelID string, roomType string, date time.Time) (float64, error)
}
