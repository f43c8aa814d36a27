package transition

import (
	"time"

	"hotel-reservation-engine/internal/domain/booking"
)

// RoomAssignment is one index-based room_assignments entry supplied on
// a CONFIRMED→CHECKED_IN request (spec §4.2 "Pre-actions by target").
type RoomAssignment struct {
	RoomRequestIndex int
	RoomID           string
}

// Request is the input to Executor.Apply (spec §4.2 "apply(TransitionRequest)").
type Request struct {
	BookingID string
	Target    booking.Status
	Reason    string
	Actor     booking.Actor

	// ActorNonce is the caller-supplied idempotency token; replaying
	// the same (BookingID, Target, ActorNonce) within the retry window
	// returns the original Result instead of re-executing (spec §8).
	ActorNonce string

	// Metadata carries target-specific extras: new_price and
	// price_modification_reason (CONFIRMED), custom_refund_amount
	// (CANCELLED). CHECKED_IN room assignments travel in
	// RoomAssignments, not here.
	Metadata map[string]any

	RoomAssignments []RoomAssignment
}

// Result is the output of a successful Executor.Apply (spec §4.2
// "Release lock. Return {from, to, actor, at, ...}").
type Result struct {
	BookingID     string
	From          booking.Status
	To            booking.Status
	Actor         booking.Actor
	At            time.Time
	BookingAfter  booking.Booking
	PreActions    []string
	PostActions   []string
}
