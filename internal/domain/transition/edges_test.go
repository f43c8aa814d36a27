package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel-reservation-engine/internal/domain/booking"
)

func TestLookup_AllLegalEdgesExist(t *testing.T) {
	cases := []struct {
		from, to booking.Status
	}{
		{booking.Pending, booking.Confirmed},
		{booking.Pending, booking.Rejected},
		{booking.Pending, booking.Cancelled},
		{booking.Confirmed, booking.CheckedIn},
		{booking.Confirmed, booking.Cancelled},
		{booking.Confirmed, booking.NoShow},
		{booking.CheckedIn, booking.Completed},
	}
	for _, c := range cases {
		_, ok := Lookup(c.from, c.to)
		assert.Truef(t, ok, "%s -> %s should be legal", c.from, c.to)
	}
}

func TestLookup_TerminalStatesHaveNoOutgoingEdge(t *testing.T) {
	for _, s := range []booking.Status{booking.Completed, booking.Rejected, booking.Cancelled, booking.NoShow} {
		_, ok := edges[s]
		assert.Falsef(t, ok, "%s must have no outgoing edges", s)
	}
}

func TestLookup_IllegalPairsRejected(t *testing.T) {
	cases := []struct{ from, to booking.Status }{
		{booking.Completed, booking.Pending},
		{booking.Pending, booking.CheckedIn},
		{booking.CheckedIn, booking.Cancelled},
		{booking.Rejected, booking.Confirmed},
	}
	for _, c := range cases {
		_, ok := Lookup(c.from, c.to)
		assert.Falsef(t, ok, "%s -> %s must be InvalidTransition", c.from, c.to)
	}
}

func TestCheckPermission_ClientMustOwnBooking(t *testing.T) {
	e, _ := Lookup(booking.Pending, booking.Cancelled)
	owner := booking.Actor{ID: "cust-1", Role: booking.RoleClient}
	stranger := booking.Actor{ID: "cust-2", Role: booking.RoleClient}
	b := booking.Booking{CustomerID: "cust-1"}

	assert.NoError(t, checkPermission(e, b, owner))
	assert.Error(t, checkPermission(e, b, stranger))
}

func TestCheckPermission_RoleNotInWhoList(t *testing.T) {
	e, _ := Lookup(booking.Confirmed, booking.NoShow)
	assert.Error(t, checkPermission(e, booking.Booking{}, booking.Actor{Role: booking.RoleReceptionist}))
	assert.NoError(t, checkPermission(e, booking.Booking{}, booking.Actor{Role: booking.RoleAdmin}))
}
