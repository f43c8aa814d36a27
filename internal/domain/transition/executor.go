package transition

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"hotel-reservation-engine/internal/domain/availability"
	"hotel-reservation-engine/internal/domain/booking"
	"hotel-reservation-engine/internal/domain/event"
	"hotel-reservation-engine/internal/domain/room"
	"hotel-reservation-engine/pkg/errors"
	"hotel-reservation-engine/internal/tracing"
	"hotel-reservation-engine/pkg/idgen"
	"hotel-reservation-engine/pkg/log"
)

// invalidatingTargets are the targets whose commit can change a
// hotel's availability and must therefore invalidate its cache (spec
// §4.2 step 9).
var invalidatingTargets = map[booking.Status]bool{
	booking.Confirmed: true, booking.CheckedIn: true, booking.Completed: true,
	booking.Cancelled: true, booking.NoShow: true,
}

// Recorder observes transition outcomes for ambient instrumentation
// (SPEC_FULL §1). Kept as a narrow port here rather than importing
// Prometheus directly, so this package stays framework-free;
// internal/metrics provides the concrete implementation wired in by
// internal/app.
type Recorder interface {
	ObserveTransition(target booking.Status, outcome string, d time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) ObserveTransition(booking.Status, string, time.Duration) {}

// Executor applies transition.Request against the booking state
// machine, atomically (spec §4.2). It is the only writer of
// Booking.Status and Room.Status/CurrentBookingID.
type Executor struct {
	bookings     booking.Repository
	rooms        room.Repository
	availability *availability.Projector
	bus          event.Bus
	clock        idgen.Clock
	ids          *idgen.Generator
	cfg          Config
	recorder     Recorder

	locks       *bookingLocks
	idempotency *idempotencyStore
	sf          singleflight.Group
}

// NewExecutor constructs an Executor. Pass nil recorder to skip
// instrumentation (e.g. in unit tests).
func NewExecutor(bookings booking.Repository, rooms room.Repository, availability *availability.Projector, bus event.Bus, clock idgen.Clock, ids *idgen.Generator, cfg Config, recorder Recorder) *Executor {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Executor{
		bookings: bookings, rooms: rooms, availability: availability, bus: bus,
		clock: clock, ids: ids, cfg: cfg, recorder: recorder,
		locks: newBookingLocks(), idempotency: newIdempotencyStore(),
	}
}

// Apply runs the full 11-step algorithm of spec §4.2.
func (e *Executor) Apply(ctx context.Context, req Request) (Result, error) {
	if req.ActorNonce == "" {
		return e.apply(ctx, req)
	}
	key := idempotencyKey(req.BookingID, string(req.Target), req.ActorNonce)
	if req.ActorNonce != "" {
		if entry, ok := e.idempotency.get(key); ok {
			return entry.result, entry.err
		}
	}

	v, err, _ := e.sf.Do(key, func() (interface{}, error) {
		result, err := e.apply(ctx, req)
		if req.ActorNonce != "" {
			e.idempotency.put(key, result, err)
		}
		return result, err
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (e *Executor) apply(ctx context.Context, req Request) (result Result, err error) {
	ctx, span := tracing.StartStep(ctx, "transition.apply")
	defer span.End()
	logger := log.FromContext(ctx)

	start := e.clock.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		e.recorder.ObserveTransition(req.Target, outcome, e.clock.Now().Sub(start))
	}()

	// Step 1: acquire the per-booking lock, bounded by a timeout.
	release, ok := e.locks.tryLock(ctx, req.BookingID, e.cfg.BookingLockTimeout)
	if !ok {
		return Result{}, errors.ErrBusy
	}
	defer release()

	// Step 2: load current booking.
	b, err := e.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return Result{}, err
	}
	from := b.Status

	// Step 3: edge legality.
	ed, legal := Lookup(from, req.Target)
	if !legal {
		return Result{}, errors.ErrInvalidTransition.WithMessage(fmt.Sprintf("%s -> %s is not a legal edge", from, req.Target))
	}
	if err := checkPermission(ed, b, req.Actor); err != nil {
		return Result{}, err
	}

	now := e.clock.Now()
	if deadline, hasDeadline := ctx.Deadline(); hasDeadline && now.After(deadline) {
		return Result{}, errors.ErrExpired
	}

	// Step 4: target guard.
	if ed.guard != nil {
		gc := guardCtx{ctx: ctx, booking: b, req: req, now: now, rooms: e.rooms, availability: e.availability, cfg: e.cfg}
		if err := ed.guard(gc); err != nil {
			e.publishWorkflowError(ctx, b, req.Actor, err)
			return Result{}, err
		}
	}

	// Step 5: pre-transition events.
	e.publishPreTransition(ctx, b, req.Target, req.Actor, now)

	// Step 6: pre-actions.
	updated := b
	var preActions []string
	var cancellation *booking.CancellationOutcome
	switch req.Target {
	case booking.CheckedIn:
		updated, preActions = applyRoomAssignments(updated, req, now)
	case booking.Cancelled:
		customRefund, rerr := parseCustomRefund(req.Metadata)
		if rerr != nil {
			return Result{}, rerr
		}
		outcome, rerr := computeRefund(b, now, e.cfg.FreeCancellationWindow, customRefund, req.Actor)
		if rerr != nil {
			e.publishWorkflowError(ctx, b, req.Actor, rerr)
			return Result{}, rerr
		}
		cancellation = &outcome
		preActions = append(preActions, "refund_computed")
	}

	if ctx.Err() != nil {
		return Result{}, errors.ErrExpired
	}

	// Step 7: single atomic write.
	updated.Status = req.Target
	updated.UpdatedAt = now
	updated.AppendHistory(booking.HistoryEntry{From: from, To: req.Target, Reason: req.Reason, Actor: req.Actor, At: now, Metadata: req.Metadata})
	applyStatusStamps(&updated, req.Target, now)
	if cancellation != nil {
		updated.Cancellation = cancellation
		updated.CancelledAt = &now
	}
	if req.Target == booking.Rejected {
		updated.Rejection = &booking.RejectionOutcome{Reason: req.Reason}
	}
	applyPriceModification(&updated, req.Target, req.Metadata, e.cfg.CurrencyRoundingScale)

	saved, err := e.bookings.Update(ctx, updated)
	if err != nil {
		return Result{}, err
	}

	// Step 8: post-actions.
	postActions, perr := e.runPostActions(ctx, saved, req.Target, now)
	if perr != nil {
		logger.Error("transition post-action failed, status already committed")
		e.publishAdminSeverityHigh(ctx, saved, req.Actor, perr)
	}

	// Step 9: invalidate availability cache.
	if invalidatingTargets[req.Target] {
		if err := e.availability.Invalidate(ctx, saved.HotelID); err != nil {
			logger.Warn("availability invalidation failed")
		}
	}

	// Step 10: post-transition events.
	e.publishPostTransition(ctx, saved, from, req.Target, req.Actor, now, cancellation)

	// Step 11: release happens via defer; return the result.
	return Result{
		BookingID: saved.ID, From: from, To: req.Target, Actor: req.Actor, At: now,
		BookingAfter: saved, PreActions: preActions, PostActions: postActions,
	}, nil
}

func applyRoomAssignments(b booking.Booking, req Request, now time.Time) (booking.Booking, []string) {
	var actions []string
	for _, a := range req.RoomAssignments {
		if a.RoomRequestIndex < 0 || a.RoomRequestIndex >= len(b.Rooms) {
			continue
		}
		roomID := a.RoomID
		b.Rooms[a.RoomRequestIndex].AssignedRoomID = &roomID
		assignedAt := now
		b.Rooms[a.RoomRequestIndex].AssignedAt = &assignedAt
		b.Rooms[a.RoomRequestIndex].AssignedBy = req.Actor.ID
		actions = append(actions, "room_assigned:"+roomID)
	}
	return b, actions
}

func applyStatusStamps(b *booking.Booking, target booking.Status, now time.Time) {
	switch target {
	case booking.Confirmed:
		b.ConfirmedAt = &now
	case booking.Rejected:
		b.RejectedAt = &now
	case booking.CheckedIn:
		b.ActualCheckInAt = &now
	case booking.Completed:
		b.ActualCheckOutAt = &now
	}
}

func applyPriceModification(b *booking.Booking, target booking.Status, metadata map[string]any, scale int32) {
	if target != booking.Confirmed || metadata == nil {
		return
	}
	newPrice, ok := metadata["new_price"]
	if !ok {
		return
	}
	amount, ok := toDecimal(newPrice)
	if !ok {
		return
	}
	b.Pricing.TotalAmount = amount.Round(scale)
	b.Pricing.PriceModified = true
	if reason, ok := metadata["price_modification_reason"].(string); ok {
		b.Pricing.PriceModificationReason = reason
	}
}

// runPostActions mutates Room statuses per target (spec §4.2 "Post-actions by target").
func (e *Executor) runPostActions(ctx context.Context, b booking.Booking, target booking.Status, now time.Time) ([]string, error) {
	var actions []string
	switch target {
	case booking.CheckedIn:
		for _, rr := range b.Rooms {
			if rr.AssignedRoomID == nil {
				continue
			}
			if err := e.setRoomStatus(ctx, *rr.AssignedRoomID, room.Occupied, &b.ID); err != nil {
				return actions, err
			}
			actions = append(actions, "room_occupied:"+*rr.AssignedRoomID)
		}
	case booking.Completed, booking.Cancelled:
		for _, rr := range b.Rooms {
			if rr.AssignedRoomID == nil {
				continue
			}
			if err := e.setRoomStatus(ctx, *rr.AssignedRoomID, room.Available, nil); err != nil {
				return actions, err
			}
			actions = append(actions, "room_released:"+*rr.AssignedRoomID)
		}
		if target == booking.Completed {
			actions = append(actions, "invoice_requested")
		}
	}
	return actions, nil
}

func (e *Executor) setRoomStatus(ctx context.Context, roomID string, status room.Status, bookingID *string) error {
	r, err := e.rooms.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	_, err = e.rooms.SetStatus(ctx, roomID, r.Version, status, bookingID)
	return err
}

