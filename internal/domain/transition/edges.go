package transition

import (
	"context"
	"time"

	"hotel-reservation-engine/internal/domain/availability"
	"hotel-reservation-engine/internal/domain/booking"
	"hotel-reservation-engine/internal/domain/room"
	"hotel-reservation-engine/pkg/errors"
)

// guardCtx carries everything a guard func needs to evaluate a single
// (from,to) edge, beyond the Booking and Request themselves.
type guardCtx struct {
	ctx     context.Context
	booking booking.Booking
	req     Request
	now     time.Time

	rooms        room.Repository
	availability *availability.Projector
	cfg          Config
}

// guardFunc validates a target-specific condition beyond role/ownership
// (spec §4.1 "guard" column). Returning a non-nil error aborts the
// transition with that error (normally errors.ErrValidationFailed).
type guardFunc func(gc guardCtx) error

// edge is one legal (from,to) row of the state machine (spec §4.1).
type edge struct {
	who   []booking.Role
	guard guardFunc
}

// edges is the exhaustive legal-edge table (spec §4.1). Any (from,to)
// pair absent from this table is InvalidTransition; terminal statuses
// have no outgoing row at all.
var edges = map[booking.Status]map[booking.Status]edge{
	booking.Pending: {
		booking.Confirmed: {who: []booking.Role{booking.RoleAdmin}, guard: guardAvailabilityHolds},
		booking.Rejected:  {who: []booking.Role{booking.RoleAdmin}, guard: guardReasonLength},
		booking.Cancelled: {who: []booking.Role{booking.RoleAdmin, booking.RoleReceptionist, booking.RoleClient}, guard: nil},
	},
	booking.Confirmed: {
		booking.CheckedIn: {who: []booking.Role{booking.RoleAdmin, booking.RoleReceptionist}, guard: guardCheckInWindowAndRooms},
		booking.Cancelled: {who: []booking.Role{booking.RoleAdmin, booking.RoleReceptionist, booking.RoleClient}, guard: nil},
		booking.NoShow:    {who: []booking.Role{booking.RoleAdmin, booking.RoleSystem}, guard: guardNoShowWindow},
	},
	booking.CheckedIn: {
		booking.Completed: {who: []booking.Role{booking.RoleAdmin, booking.RoleReceptionist}, guard: guardAllRoomsAssigned},
	},
}

// Lookup returns the edge for (from,to), or ok=false when the pair is
// not in the table (InvalidTransition).
func Lookup(from, to booking.Status) (edge, bool) {
	row, ok := edges[from]
	if !ok {
		return edge{}, false
	}
	e, ok := row[to]
	return e, ok
}

// checkPermission enforces the "who" column, including the
// CLIENT-owner rule (spec §4.1 "Permission matrix").
func checkPermission(e edge, b booking.Booking, actor booking.Actor) error {
	for _, role := range e.who {
		if role != actor.Role {
			continue
		}
		if role == booking.RoleClient && !b.IsOwnedBy(actor) {
			continue
		}
		return nil
	}
	return errors.ErrUnauthorized
}

func guardAvailabilityHolds(gc guardCtx) error {
	for _, rr := range gc.booking.Rooms {
		result, err := gc.availability.Compute(gc.ctx, availability.Query{
			HotelID:     gc.booking.HotelID,
			RoomType:    rr.RoomType,
			CheckIn:     gc.booking.CheckIn,
			CheckOut:    gc.booking.CheckOut,
			RoomsNeeded: rr.Count,
			Exclude:     gc.booking.ID,
		}, true)
		if err != nil {
			return err
		}
		if !result.Available {
			return errors.ErrValidationFailed.WithMessage("Plus de chambres " + string(rr.RoomType) + " disponibles")
		}
	}
	return nil
}

func guardReasonLength(gc guardCtx) error {
	if len(gc.req.Reason) < 10 {
		return errors.ErrValidationFailed.WithMessage("rejection reason must be at least 10 characters")
	}
	return nil
}

func guardCheckInWindowAndRooms(gc guardCtx) error {
	deadline := gc.booking.CheckIn.Add(24 * time.Hour)
	if gc.now.After(deadline) {
		return errors.ErrValidationFailed.WithMessage("check-in window has elapsed")
	}
	for _, a := range gc.req.RoomAssignments {
		r, err := gc.rooms.GetByID(gc.ctx, a.RoomID)
		if err != nil {
			return err
		}
		if r.HotelID != gc.booking.HotelID {
			return errors.ErrValidationFailed.WithMessage("assigned room does not belong to this hotel")
		}
		if r.Status != room.Available {
			return errors.ErrValidationFailed.WithMessage("assigned room is not AVAILABLE")
		}
	}
	return nil
}

func guardNoShowWindow(gc guardCtx) error {
	deadline := gc.booking.CheckIn.Add(24 * time.Hour)
	if !gc.now.After(deadline) {
		return errors.ErrValidationFailed.WithMessage("no-show window has not elapsed")
	}
	if gc.booking.ActualCheckInAt != nil {
		return errors.ErrValidationFailed.WithMessage("booking already checked in")
	}
	return nil
}

func guardAllRoomsAssigned(gc guardCtx) error {
	if !gc.booking.AllRoomsAssigned() {
		return errors.ErrValidationFailed.WithMessage("every requested room must have an assigned room reference")
	}
	return nil
}
