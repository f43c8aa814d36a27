package booking

import "time"

// CreateRequest is the input to CreateBooking (spec §6 "Booking
// commands"). The external HTTP/RPC layer that collects these values
// from a caller is out of scope for this module; intake.Creator is
// the seam it calls through.
type CreateRequest struct {
	HotelID    string
	CustomerID string
	CompanyID  *string
	CheckIn    time.Time
	CheckOut   time.Time
	Rooms      []RequestedRoom
}

// RequestedRoom is one line item of a CreateRequest.
type RequestedRoom struct {
	RoomType string
	Count    int
}
