package memory

import (
	"context"
	"sync"
	"time"

	"hotel-reservation-engine/internal/domain/booking"
	"hotel-reservation-engine/pkg/errors"
)

// BookingRepository is an in-process, mutex-guarded booking.Repository.
type BookingRepository struct {
	mu   sync.Mutex
	byID map[string]booking.Booking
}

// NewBookingRepository returns an empty BookingRepository.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{byID: make(map[string]booking.Booking)}
}

func (m *BookingRepository) Create(_ context.Context, b booking.Booking) (booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byID[b.ID]; exists {
		return booking.Booking{}, errors.ErrConflict.WithMessage("booking already exists: " + b.ID)
	}
	b.Version = 1
	m.byID[b.ID] = b
	return b, nil
}

func (m *BookingRepository) GetByID(_ context.Context, id string) (booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return booking.Booking{}, errors.ErrNotFound.WithMessage("booking not found: " + id)
	}
	return b, nil
}

func (m *BookingRepository) Update(_ context.Context, b booking.Booking) (booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.byID[b.ID]
	if !ok {
		return booking.Booking{}, errors.ErrNotFound.WithMessage("booking not found: " + b.ID)
	}
	if current.Version != b.Version {
		return booking.Booking{}, errors.ErrConflict.WithMessage("booking version mismatch")
	}
	b.Version++
	m.byID[b.ID] = b
	return b, nil
}

func (m *BookingRepository) ListByHotelAndCheckIn(_ context.Context, hotelID string, from, to time.Time) ([]booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []booking.Booking
	for _, b := range m.byID {
		if b.HotelID == hotelID && !b.CheckIn.Before(from) && b.CheckIn.Before(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *BookingRepository) ListByCustomer(_ context.Context, customerID string) ([]booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []booking.Booking
	for _, b := range m.byID {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *BookingRepository) ListByStatusAndCheckIn(_ context.Context, statuses []booking.Status, from, to time.Time) ([]booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := make(map[booking.Status]bool, len(statuses))
	for _, s := range statuses {
		set[s] = true
	}
	var out []booking.Booking
	for _, b := range m.byID {
		if set[b.Status] && !b.CheckIn.Before(from) && b.CheckIn.Before(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *BookingRepository) ListOverlapping(_ context.Context, hotelID string, roomType string, from, to time.Time, statuses []booking.Status) ([]booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := make(map[booking.Status]bool, len(statuses))
	for _, s := range statuses {
		set[s] = true
	}
	var out []booking.Booking
	for _, b := range m.byID {
		if b.HotelID != hotelID || !set[b.Status] {
			continue
		}
		if !b.CheckIn.Before(to) || !from.Before(b.CheckOut) {
			continue
		}
		if roomType != "" && !bookingHasRoomType(b, roomType) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func bookingHasRoomType(b booking.Booking, roomType string) bool {
	for _, r := range b.Rooms {
		if string(r.RoomType) == roomType {
			return true
		}
	}
	return false
}
