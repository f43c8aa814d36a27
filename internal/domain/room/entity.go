// Package room models the Room aggregate — a physical inventory unit
// (spec §3 "Room") — and the Repository port (Inventory Store) that owns it
// exclusively (spec §3 "Ownership"). The Availability Projector and
// Pricing Engine both read through this package but never write it;
// only the Transition Executor's post-actions mutate room status.
package room

import "github.com/shopspring/decimal"

// Type is one of the four requestable room types (spec §3, §4.4).
type Type string

const (
	Simple         Type = "SIMPLE"
	Double         Type = "DOUBLE"
	DoubleConfort  Type = "DOUBLE_CONFORT"
	Suite          Type = "SUITE"
)

// Valid reports whether t is one of the four defined room types.
func (t Type) Valid() bool {
	switch t {
	case Simple, Double, DoubleConfort, Suite:
		return true
	}
	return false
}

// Status is the physical/operational state of a room (spec §3).
type Status string

const (
	Available   Status = "AVAILABLE"
	Occupied    Status = "OCCUPIED"
	Maintenance Status = "MAINTENANCE"
	OutOfOrder  Status = "OUT_OF_ORDER"
)

// Room is a single physical inventory unit belonging to one hotel.
//
// Invariant (spec §3): Status == Occupied implies CurrentBookingID is
// non-nil and references a booking whose status is CHECKED_IN. The
// Transition Executor's post-actions keep it by setting Status and
// CurrentBookingID together; Repository.SetStatus stores the pair it
// is given without checking it, and this struct is a plain value.
type Room struct {
	ID             string
	HotelID        string
	Number         string
	Type           Type
	BasePrice      decimal.Decimal
	Status         Status
	CurrentBookingID *string

	// Version backs the optimistic compare-and-set in
	// Repository.SetStatus, preventing two concurrent bookings from
	// capturing the same room (spec §5).
	Version int64
}

// IsBookable reports whether the room can be counted as available
// inventory (i.e. anything other than permanently/temporarily removed
// from service). A room currently OCCUPIED is still "bookable" in the
// sense the Availability Projector cares about: it participates in the
// physical-count side of the free(d) formula (spec §4.3), the
// overlapping-booking side is what actually excludes it.
func (r Room) IsBookable() bool {
	return r.Status != OutOfOrder
}
