// Package memory implements the Booking Store and Inventory Store
// ports entirely in-process, for unit tests and local development
// without a Postgres instance. Grounded on the teacher's in-memory
// test doubles (test/fixtures pattern of constructing repositories
// backed by plain maps rather than a mock framework).
package memory

import (
	"context"
	"sync"

	"hotel-reservation-engine/internal/domain/room"
	"hotel-reservation-engine/pkg/errors"
)

// RoomRepository is an in-process, mutex-guarded room.Repository.
type RoomRepository struct {
	mu    sync.Mutex
	byID  map[string]room.Room
}

// NewRoomRepository returns an empty RoomRepository.
func NewRoomRepository() *RoomRepository {
	return &RoomRepository{byID: make(map[string]room.Room)}
}

// Create inserts r, used by tests to seed inventory (not part of the
// room.Repository port — Postgres rooms are provisioned out of band).
func (m *RoomRepository) Create(_ context.Context, r room.Room) (room.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[r.ID] = r
	return r, nil
}

func (m *RoomRepository) GetByID(_ context.Context, id string) (room.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return room.Room{}, errors.ErrNotFound.WithMessage("room not found: " + id)
	}
	return r, nil
}

func (m *RoomRepository) ListByHotelAndType(_ context.Context, hotelID string, t room.Type) ([]room.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []room.Room
	for _, r := range m.byID {
		if r.HotelID == hotelID && r.Type == t {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *RoomRepository) CountBookable(_ context.Context, hotelID string, t room.Type) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.byID {
		if r.HotelID == hotelID && r.Type == t && r.IsBookable() {
			n++
		}
	}
	return n, nil
}

func (m *RoomRepository) ListDistinctHotelRoomTypes(_ context.Context) ([]room.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	var out []room.Room
	for _, r := range m.byID {
		key := r.HotelID + ":" + string(r.Type)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out, nil
}

func (m *RoomRepository) SetStatus(_ context.Context, roomID string, expectedVersion int64, newStatus room.Status, currentBookingID *string) (room.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.byID[roomID]
	if !ok {
		return room.Room{}, errors.ErrNotFound.WithMessage("room not found: " + roomID)
	}
	if r.Version != expectedVersion {
		return room.Room{}, errors.ErrConflict.WithMessage("room version mismatch")
	}
	r.Status = newStatus
	r.CurrentBookingID = currentBookingID
	r.Version++
	m.byID[roomID] = r
	return r, nil
}
