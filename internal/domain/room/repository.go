package room

import "context"

// Repository is the Inventory Store port (spec §2 leaf #2): per-hotel,
// per-room-type, per-date room counts and per-room status, the ground
// truth for availability.
type Repository interface {
	GetByID(ctx context.Context, id string) (Room, error)

	// ListByHotelAndType returns every room of the given type at the
	// given hotel, used by booking intake to read a room type's base
	// price from a representative room.
	ListByHotelAndType(ctx context.Context, hotelID string, t Type) ([]Room, error)

	// CountBookable returns the count of rooms of the given type at
	// the given hotel whose Status != OutOfOrder (spec §4.3).
	CountBookable(ctx context.Context, hotelID string, t Type) (int, error)

	// ListDistinctHotelRoomTypes returns one representative Room per
	// distinct (hotel, room type) combination present in inventory,
	// used by the Scheduler's Price-refresh job to enumerate what to
	// quote every run (spec §4.6 "Price-refresh") without the job
	// needing its own hotel/room-type catalog.
	ListDistinctHotelRoomTypes(ctx context.Context) ([]Room, error)

	// SetStatus performs a compare-and-set: it only applies when the
	// room's current Version matches expectedVersion, returning
	// errors.ErrConflict otherwise (spec §5 "per-room atomic status
	// update"). currentBookingID may be nil to clear occupancy.
	SetStatus(ctx context.Context, roomID string, expectedVersion int64, newStatus Status, currentBookingID *string) (Room, error)
}
