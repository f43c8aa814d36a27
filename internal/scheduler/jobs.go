package scheduler

import (
	"context"
	"fmt"
	"time"

	"hotel-reservation-engine/internal/domain/booking"
	"hotel-reservation-engine/internal/domain/event"
	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/transition"
)

// farFuture bounds check_in range queries that must return every
// booking of a status regardless of when it checks in (Expire-PENDING
// and Archive-terminal scan by CreatedAt/UpdatedAt, not check_in).
var farFuture = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)

// Archiver persists terminal bookings older than a retention window
// into the durable archive store (spec §4.6 "Archive-terminal"), and
// tombstones them in the primary store without deleting the row
// (spec §3 "no deletion").
type Archiver interface {
	Archive(ctx context.Context, b booking.Booking) error
}

// PendingExpiryJob cancels PENDING bookings older than age via exec,
// matching spec §4.6 "Expire-PENDING" (hourly default) and spec §8
// scenario 4's literal reason string.
func PendingExpiryJob(bookings booking.Repository, exec *transition.Executor, age time.Duration, now func() time.Time) Job {
	return Job{
		Name: "expire_pending",
		Spec: "@hourly",
		Run: func(ctx context.Context) error {
			cutoff := now().Add(-age)
			// PENDING bookings can check in at any future date, so the
			// (status, check_in) index can't narrow this query; scan
			// every PENDING booking and filter by CreatedAt in-process.
			stale, err := bookings.ListByStatusAndCheckIn(ctx, []booking.Status{booking.Pending}, time.Time{}, farFuture)
			if err != nil {
				return err
			}
			var firstErr error
			for _, b := range stale {
				if b.CreatedAt.After(cutoff) {
					continue
				}
				_, err := exec.Apply(ctx, transition.Request{
					BookingID: b.ID, Target: booking.Cancelled,
					Actor:  booking.Actor{ID: "system", Role: booking.RoleSystem},
					Reason: "auto-cancelled: no validation within 7 days",
				})
				if err != nil && firstErr == nil {
					firstErr = err
				}
			}
			return firstErr
		},
	}
}

// NoShowJob marks CONFIRMED bookings as NO_SHOW once check_in + 1 day
// has elapsed without a check-in (spec §4.6 "No-show", daily 02:00
// hotel-local default; UTC here since per-hotel timezone is out of
// this module's scope).
func NoShowJob(bookings booking.Repository, exec *transition.Executor, now func() time.Time) Job {
	return Job{
		Name: "no_show",
		Spec: "0 2 * * *",
		Run: func(ctx context.Context) error {
			cutoff := now().Add(-24 * time.Hour)
			confirmed, err := bookings.ListByStatusAndCheckIn(ctx, []booking.Status{booking.Confirmed}, time.Time{}, cutoff)
			if err != nil {
				return err
			}
			var firstErr error
			for _, b := range confirmed {
				_, err := exec.Apply(ctx, transition.Request{
					BookingID: b.ID, Target: booking.NoShow,
					Actor: booking.Actor{ID: "system", Role: booking.RoleSystem},
				})
				if err != nil && firstErr == nil {
					firstErr = err
				}
			}
			return firstErr
		},
	}
}

// reminderKind mirrors spec §4.6's four reminder kinds, each de-duped
// by (booking-id, kind) within a rolling day.
type reminderKind string

const (
	reminderCheckInTomorrow reminderKind = "CHECK_IN_TOMORROW"
	reminderCheckInToday    reminderKind = "CHECK_IN_TODAY"
	reminderPaymentDue      reminderKind = "PAYMENT_DUE"
	reminderValidationPend  reminderKind = "VALIDATION_PENDING"
)

// RemindersJob emits BOOKING_REMINDER events on a 15-minute tick
// (spec §4.6 "Reminders"). dedup tracks (booking-id, kind) already
// sent within the current rolling day to avoid repeat emission on
// every tick.
func RemindersJob(bookings booking.Repository, bus event.Bus, now func() time.Time) Job {
	dedup := newDedupSet(24 * time.Hour)
	return Job{
		Name: "reminders",
		Spec: "*/15 * * * *",
		Run: func(ctx context.Context) error {
			n := now()
			tomorrow := n.Add(24 * time.Hour)

			pending, err := bookings.ListByStatusAndCheckIn(ctx, []booking.Status{booking.Pending}, n, tomorrow.Add(24*time.Hour))
			if err != nil {
				return err
			}
			for _, b := range pending {
				emitReminder(ctx, bus, dedup, b, reminderValidationPend, n)
			}

			confirmed, err := bookings.ListByStatusAndCheckIn(ctx, []booking.Status{booking.Confirmed}, n, tomorrow.Add(24*time.Hour))
			if err != nil {
				return err
			}
			for _, b := range confirmed {
				if sameDay(b.CheckIn, n) {
					emitReminder(ctx, bus, dedup, b, reminderCheckInToday, n)
				} else if sameDay(b.CheckIn, tomorrow) {
					emitReminder(ctx, bus, dedup, b, reminderCheckInTomorrow, n)
				}
				if !b.Pricing.PaymentReceived {
					emitReminder(ctx, bus, dedup, b, reminderPaymentDue, n)
				}
			}
			return nil
		},
	}
}

func emitReminder(ctx context.Context, bus event.Bus, dedup *dedupSet, b booking.Booking, kind reminderKind, now time.Time) {
	key := b.ID + ":" + string(kind)
	if !dedup.shouldSend(key, now) {
		return
	}
	_ = bus.Publish(ctx, event.Event{
		Topic: event.UserTopic(b.CustomerID), Kind: event.KindBookingReminder, At: now,
		Payload: map[string]any{"booking_id": b.ID, "kind": string(kind)},
	})
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// PriceRefreshJob recomputes a one-week price horizon per
// hotel/room-type pair and publishes pricing:{hotel} events when the
// new optimum diverges from the last published price by >= 2% (spec
// §4.6 "Price-refresh").
func PriceRefreshJob(engine *pricing.Engine, bus event.Bus, hotelRoomTypes func(ctx context.Context) ([]pricing.Request, error), now func() time.Time) Job {
	lastPublished := newPriceMemo()
	return Job{
		Name: "price_refresh",
		Spec: "*/30 * * * *",
		Run: func(ctx context.Context) error {
			pairs, err := hotelRoomTypes(ctx)
			if err != nil {
				return err
			}
			var firstErr error
			for _, req := range pairs {
				req.CheckIn = now()
				req.CheckOut = req.CheckIn.AddDate(0, 0, 7)
				quote, err := engine.Quote(ctx, req)
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				if len(quote.Nights) == 0 {
					continue
				}
				newOptimum := quote.Nights[0].Price
				key := req.Hotel.ID + ":" + string(req.RoomType)
				if !lastPublished.diverged(key, newOptimum) {
					continue
				}
				lastPublished.set(key, newOptimum)
				_ = bus.Publish(ctx, event.Event{
					Topic: event.PricingTopic(req.Hotel.ID), Kind: event.KindPriceUpdated, At: now(),
					Payload: map[string]any{"hotel_id": req.Hotel.ID, "room_type": string(req.RoomType), "price": newOptimum.String(), "recommended_action": string(quote.RecommendedAction)},
				})
				if quote.RecommendedAction == pricing.ActionIncrease {
					_ = bus.Publish(ctx, event.Event{
						Topic: event.PricingTopic(req.Hotel.ID), Kind: event.KindDemandSurge, At: now(),
						Payload: map[string]any{"hotel_id": req.Hotel.ID, "room_type": string(req.RoomType)},
					})
				}
			}
			return firstErr
		},
	}
}

// TransitionStats reports the rollup Metrics-broadcast needs; backed
// by internal/metrics in production and an in-memory stub in tests.
type TransitionStats interface {
	Last24h(ctx context.Context) (count int64, avgDurationMS float64, err error)
}

// RollupWriter appends the rollup to a durable analytics store so
// external dashboards can query beyond the bus's fire-and-forget
// delivery (SPEC_FULL §2 "Metrics" — the ClickHouse row). Optional: a
// nil RollupWriter only publishes to the bus.
type RollupWriter interface {
	AppendRollup(ctx context.Context, observedAt time.Time, window string, transitionCount int64, avgProcessingMS float64) error
}

// MetricsBroadcastJob publishes an hourly rollup of 24-hour transition
// counts and average processing time to the admin topic (spec §4.6
// "Metrics broadcast"), and appends the same rollup to ClickHouse when
// writer is non-nil.
func MetricsBroadcastJob(stats TransitionStats, writer RollupWriter, bus event.Bus, now func() time.Time) Job {
	return Job{
		Name: "metrics_broadcast",
		Spec: "@hourly",
		Run: func(ctx context.Context) error {
			count, avgMS, err := stats.Last24h(ctx)
			if err != nil {
				return err
			}
			observedAt := now()
			if writer != nil {
				if err := writer.AppendRollup(ctx, observedAt, "24h", count, avgMS); err != nil {
					return err
				}
			}
			return bus.Publish(ctx, event.Event{
				Topic: event.AdminTopic, Kind: event.KindMetricsRollup, At: observedAt,
				Payload: map[string]any{"window": "24h", "transition_count": count, "avg_processing_ms": avgMS},
			})
		},
	}
}

// ArchiveTerminalJob migrates terminal bookings older than
// retention into the archive store, a storage-tier migration outside
// the booking state machine (SPEC_FULL §4.6, supplementing the
// original five jobs).
func ArchiveTerminalJob(bookings booking.Repository, archiver Archiver, retention time.Duration, now func() time.Time) Job {
	terminal := []booking.Status{booking.Completed, booking.Rejected, booking.Cancelled, booking.NoShow}
	return Job{
		Name: "archive_terminal",
		Spec: "0 3 * * *",
		Run: func(ctx context.Context) error {
			cutoff := now().Add(-retention)
			var firstErr error
			for _, status := range terminal {
				candidates, err := bookings.ListByStatusAndCheckIn(ctx, []booking.Status{status}, time.Time{}, farFuture)
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				for _, b := range candidates {
					if b.UpdatedAt.After(cutoff) || b.Archived {
						continue
					}
					if err := archiver.Archive(ctx, b); err != nil {
						if firstErr == nil {
							firstErr = fmt.Errorf("archive booking %s: %w", b.ID, err)
						}
					}
				}
			}
			return firstErr
		},
	}
}
