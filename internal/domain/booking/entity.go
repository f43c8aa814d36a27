package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"hotel-reservation-engine/internal/domain/room"
)

// Status is one of the seven lifecycle states of spec §3/§4.1.
type Status string

const (
	Pending    Status = "PENDING"
	Confirmed  Status = "CONFIRMED"
	CheckedIn  Status = "CHECKED_IN"
	Completed  Status = "COMPLETED"
	Rejected   Status = "REJECTED"
	Cancelled  Status = "CANCELLED"
	NoShow     Status = "NO_SHOW"
)

// Terminal reports whether s has no outgoing legal edge (spec §4.1).
// The transition edge table is the authority on legality; this helper
// only mirrors what that table structurally guarantees — a terminal
// status simply has no row in it.
func (s Status) Terminal() bool {
	switch s {
	case Completed, Rejected, Cancelled, NoShow:
		return true
	}
	return false
}

// Role is the closed set of actors who may request a transition
// (spec §4.1 permission matrix; SPEC_FULL §3 clarification that
// SYSTEM covers the Scheduler).
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleReceptionist Role = "RECEPTIONIST"
	RoleClient       Role = "CLIENT"
	RoleSystem       Role = "SYSTEM"
)

// Actor identifies who is requesting a transition.
type Actor struct {
	ID   string
	Role Role
}

// RoomRequest is one line item of a booking: a room type, how many
// rooms of that type, and — once assigned — which physical room.
type RoomRequest struct {
	RoomType                room.Type
	Count                   int
	AssignedRoomID          *string
	AssignedAt              *time.Time
	AssignedBy              string
	BasePriceSnapshot       decimal.Decimal
	CalculatedPriceSnapshot decimal.Decimal
}

// PricingSnapshot freezes the price quoted when the booking is created
// (internal/domain/intake) so later yield recomputation never silently
// changes what the customer was charged (spec §3 "pricing snapshot");
// a CONFIRMED transition replaces TotalAmount only when it carries
// metadata["new_price"].
type PricingSnapshot struct {
	BaseAmount   decimal.Decimal
	ExtrasTotal  decimal.Decimal
	TotalAmount  decimal.Decimal
	Currency     string

	// PaymentReceived tracks whether the guest has paid the
	// outstanding balance; the Reminders scheduler job uses it to
	// decide whether a PAYMENT_DUE reminder is still owed.
	PaymentReceived bool

	// PriceModified and PriceModificationReason are set when a
	// CONFIRMED transition carries metadata["new_price"] (spec §4.1
	// "Price modification on confirmation").
	PriceModified           bool
	PriceModificationReason string
}

// HistoryEntry is one append-only record of a state transition
// (spec §3 "history").
type HistoryEntry struct {
	From     Status
	To       Status
	Reason   string
	Actor    Actor
	At       time.Time
	Metadata map[string]any
}

// CancellationOutcome is persisted when a booking enters CANCELLED
// from CONFIRMED (spec §3, §4.1 refund policy).
type CancellationOutcome struct {
	RefundPercentage   int
	RefundAmount       decimal.Decimal
	CancellationFee    decimal.Decimal
	HoursUntilCheckIn  float64
}

// RejectionOutcome is persisted when a booking enters REJECTED
// (spec §3; reason must be >= 10 characters, enforced by the guard in
// internal/domain/transition, not here).
type RejectionOutcome struct {
	Reason string
}

// Booking is the reservation aggregate (spec §3).
type Booking struct {
	ID         string
	Number     string
	CustomerID string
	CompanyID  *string

	HotelID  string
	CheckIn  time.Time
	CheckOut time.Time

	Rooms   []RoomRequest
	Pricing PricingSnapshot

	Status  Status
	History []HistoryEntry

	CreatedAt         time.Time
	UpdatedAt         time.Time
	ConfirmedAt       *time.Time
	RejectedAt        *time.Time
	ActualCheckInAt   *time.Time
	ActualCheckOutAt  *time.Time
	CancelledAt       *time.Time

	Cancellation *CancellationOutcome
	Rejection    *RejectionOutcome

	// Archived marks a terminal booking already migrated to the
	// archive store by the Archive-terminal scheduler job; the row is
	// tombstoned, never deleted (spec §3 "no deletion").
	Archived bool

	// Version backs optimistic-concurrency on the booking record
	// itself in the repository (distinct from the in-process booking
	// lock, which serializes transitions rather than writes).
	Version int64
}

// Nights returns the number of nights of the stay (spec §3 "nights =
// days between", half-open interval).
func (b Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// RoomCount returns the total number of physical rooms requested
// across all RoomRequest line items.
func (b Booking) RoomCount() int {
	n := 0
	for _, r := range b.Rooms {
		n += r.Count
	}
	return n
}

// IsOwnedBy reports whether actor is the CLIENT who owns this booking
// (spec §4.1 "CLIENT-owner").
func (b Booking) IsOwnedBy(actor Actor) bool {
	return actor.Role == RoleClient && actor.ID == b.CustomerID
}

// AllRoomsAssigned reports whether every requested room line item has
// an AssignedRoomID — required before CHECKED_IN → COMPLETED (spec
// §4.1).
func (b Booking) AllRoomsAssigned() bool {
	for _, r := range b.Rooms {
		if r.AssignedRoomID == nil {
			return false
		}
	}
	return true
}

// AssignedRoomIDs returns the non-nil AssignedRoomID of every room
// line item, in order.
func (b Booking) AssignedRoomIDs() []string {
	ids := make([]string, 0, len(b.Rooms))
	for _, r := range b.Rooms {
		if r.AssignedRoomID != nil {
			ids = append(ids, *r.AssignedRoomID)
		}
	}
	return ids
}

// AppendHistory appends one monotonically-ordered history entry. It
// is the only mutator of History; intake.Creator calls it for the
// creation entry and transition.Executor for every transition.
func (b *Booking) AppendHistory(entry HistoryEntry) {
	b.History = append(b.History, entry)
}
