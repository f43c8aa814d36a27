package pricing

import (
	"context"
	"time"
)

// EventSource resolves the calendar EventKind for a given hotel/date
// (spec §4.4 "looked up per date"). The calendar itself (holidays,
// conferences, festivals) is out of scope for this module; this seam
// lets an external calendar feed populate it without the Engine
// knowing that source's shape.
type EventSource interface {
	EventFor(ctx context.Context, hotelID string, date time.Time) (EventKind, error)
}

// NoEventSource is the zero-value EventSource: every date has no
// event. Used where no calendar feed is configured.
type NoEventSource struct{}

func (NoEventSource) EventFor(context.Context, string, time.Time) (EventKind, error) {
	return EventNone, nil
}
