// Package postgres implements the Booking Store and Inventory Store
// ports (spec §2 leaves #2, #3) against PostgreSQL. Grounded on the
// teacher's internal/repository/postgres/user.go for the
// pgxpool.Pool-held-by-value-receiver shape and pgx.ErrNoRows
// translation into the domain's NotFound error, generalized from the
// teacher's sqlc-generated queries to hand-written SQL since this
// domain's JSONB-heavy Booking aggregate has no sqlc counterpart in
// the corpus to adapt.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotel-reservation-engine/internal/domain/room"
	pkgerrors "hotel-reservation-engine/pkg/errors"
)

// RoomRepository is a PostgreSQL-backed room.Repository.
type RoomRepository struct {
	db *pgxpool.Pool
}

// NewRoomRepository constructs a RoomRepository over an existing pool.
func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) GetByID(ctx context.Context, id string) (room.Room, error) {
	const query = `
		SELECT id, hotel_id, number, type, base_price, status, current_booking_id, version
		FROM rooms
		WHERE id = $1`

	var rm room.Room
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rm.ID, &rm.HotelID, &rm.Number, &rm.Type, &rm.BasePrice, &rm.Status, &rm.CurrentBookingID, &rm.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return room.Room{}, pkgerrors.ErrNotFound.WithMessage("room not found: " + id)
		}
		return room.Room{}, pkgerrors.ErrDatabase.Wrap(err)
	}
	return rm, nil
}

func (r *RoomRepository) ListByHotelAndType(ctx context.Context, hotelID string, t room.Type) ([]room.Room, error) {
	const query = `
		SELECT id, hotel_id, number, type, base_price, status, current_booking_id, version
		FROM rooms
		WHERE hotel_id = $1 AND type = $2
		ORDER BY number`

	rows, err := r.db.Query(ctx, query, hotelID, t)
	if err != nil {
		return nil, pkgerrors.ErrDatabase.Wrap(err)
	}
	defer rows.Close()

	var out []room.Room
	for rows.Next() {
		var rm room.Room
		if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.Number, &rm.Type, &rm.BasePrice, &rm.Status, &rm.CurrentBookingID, &rm.Version); err != nil {
			return nil, pkgerrors.ErrDatabase.Wrap(err)
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *RoomRepository) CountBookable(ctx context.Context, hotelID string, t room.Type) (int, error) {
	const query = `
		SELECT count(*) FROM rooms
		WHERE hotel_id = $1 AND type = $2 AND status != $3`

	var count int
	if err := r.db.QueryRow(ctx, query, hotelID, t, room.OutOfOrder).Scan(&count); err != nil {
		return 0, pkgerrors.ErrDatabase.Wrap(err)
	}
	return count, nil
}

func (r *RoomRepository) ListDistinctHotelRoomTypes(ctx context.Context) ([]room.Room, error) {
	const query = `
		SELECT DISTINCT ON (hotel_id, type)
			id, hotel_id, number, type, base_price, status, current_booking_id, version
		FROM rooms
		ORDER BY hotel_id, type, number`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, pkgerrors.ErrDatabase.Wrap(err)
	}
	defer rows.Close()

	var out []room.Room
	for rows.Next() {
		var rm room.Room
		if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.Number, &rm.Type, &rm.BasePrice, &rm.Status, &rm.CurrentBookingID, &rm.Version); err != nil {
			return nil, pkgerrors.ErrDatabase.Wrap(err)
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *RoomRepository) SetStatus(ctx context.Context, roomID string, expectedVersion int64, newStatus room.Status, currentBookingID *string) (room.Room, error) {
	const query = `
		UPDATE rooms
		SET status = $1, current_booking_id = $2, version = version + 1, updated_at = now()
		WHERE id = $3 AND version = $4
		RETURNING id, hotel_id, number, type, base_price, status, current_booking_id, version`

	var rm room.Room
	err := r.db.QueryRow(ctx, query, newStatus, currentBookingID, roomID, expectedVersion).Scan(
		&rm.ID, &rm.HotelID, &rm.Number, &rm.Type, &rm.BasePrice, &rm.Status, &rm.CurrentBookingID, &rm.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, roomID); getErr != nil {
				return room.Room{}, getErr
			}
			return room.Room{}, pkgerrors.ErrConflict.WithMessage("room version mismatch: " + roomID)
		}
		return room.Room{}, pkgerrors.ErrDatabase.Wrap(err)
	}
	return rm, nil
}
