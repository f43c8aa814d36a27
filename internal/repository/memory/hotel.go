package memory

import (
	"context"
	"sync"

	"hotel-reservation-engine/internal/domain/hotel"
	"hotel-reservation-engine/pkg/errors"
)

// HotelRepository is an in-process, mutex-guarded hotel.Repository.
type HotelRepository struct {
	mu   sync.Mutex
	byID map[string]hotel.Hotel
}

// NewHotelRepository returns an empty HotelRepository.
func NewHotelRepository() *HotelRepository {
	return &HotelRepository{byID: make(map[string]hotel.Hotel)}
}

// Create inserts h, used by tests to seed the hotel catalog.
func (m *HotelRepository) Create(_ context.Context, h hotel.Hotel) (hotel.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[h.ID] = h
	return h, nil
}

func (m *HotelRepository) GetByID(_ context.Context, id string) (hotel.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.byID[id]
	if !ok {
		return hotel.Hotel{}, errors.ErrNotFound.WithMessage("hotel not found: " + id)
	}
	return h, nil
}
