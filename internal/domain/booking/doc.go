// Package booking implements the reservation lifecycle entity and its
// append-only history, following the same domain-entity discipline as
// the teacher's reservation package this module was grown from.
//
// Key Concepts:
//   - Booking: a customer's request to occupy one or more rooms over
//     a half-open date interval, from request through validation,
//     occupancy, and completion.
//   - Status: tracks the lifecycle (PENDING, CONFIRMED, CHECKED_IN,
//     COMPLETED, REJECTED, CANCELLED, NO_SHOW). Legal (from,to) edges
//     and their guards live in internal/domain/transition, not here —
//     this package defines what a Booking IS, not how it may change.
//   - History: append-only; entries are added via AppendHistory by
//     intake.Creator (the creation entry) and transition.Executor
//     (every transition), never by a direct field assignment from
//     outside the package.
//
// Business rules (spec §3):
//   - history is monotonically ordered and every (from,to) pair is a
//     legal edge (enforced by transition, not by this package)
//   - check_in < check_out
//   - assigned-room-refs, if any, belong to the booking's hotel and
//     match the requested room type
//   - total_amount >= base_amount >= 0
//   - no deletion; terminal bookings are archived after a retention
//     window by an external storage-tier job (SPEC_FULL §4.6), never
//     by this package
package booking
