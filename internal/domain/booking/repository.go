package booking

import (
	"context"
	"time"
)

// Repository is the Booking Store port (spec §2 leaf #3): persistent
// bookings with status, history, assignments, and pricing snapshot.
// This package exclusively owns Booking records (spec §3 "Ownership").
type Repository interface {
	Create(ctx context.Context, b Booking) (Booking, error)

	// GetByID loads a booking by ID, or errors.ErrNotFound.
	GetByID(ctx context.Context, id string) (Booking, error)

	// Update persists b if its Version still matches the stored
	// version, incrementing Version on success; otherwise it returns
	// errors.ErrConflict (optimistic concurrency backstop beneath the
	// booking lock of internal/domain/transition).
	Update(ctx context.Context, b Booking) (Booking, error)

	// ListByHotelAndCheckIn supports the (hotel, check_in) index of
	// spec §6.
	ListByHotelAndCheckIn(ctx context.Context, hotelID string, from, to time.Time) ([]Booking, error)

	// ListByCustomer supports the (customer) index of spec §6.
	ListByCustomer(ctx context.Context, customerID string) ([]Booking, error)

	// ListByStatusAndCheckIn supports the (status, check_in) index of
	// spec §6, used by the Scheduler's Expire-PENDING, No-show,
	// Reminders and Archive-terminal jobs.
	ListByStatusAndCheckIn(ctx context.Context, statuses []Status, from, to time.Time) ([]Booking, error)

	// ListOverlapping returns bookings in the given statuses whose
	// [CheckIn,CheckOut) interval overlaps [from,to) at hotelID,
	// optionally filtered to roomType. Used by the Availability
	// Projector (spec §4.3).
	ListOverlapping(ctx context.Context, hotelID string, roomType string, from, to time.Time, statuses []Status) ([]Booking, error)
}
