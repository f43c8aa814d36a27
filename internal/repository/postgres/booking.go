package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotel-reservation-engine/internal/domain/booking"
	pkgerrors "hotel-reservation-engine/pkg/errors"
)

// BookingRepository is a PostgreSQL-backed booking.Repository. Rooms,
// Pricing, History, Cancellation, and Rejection are stored as JSONB —
// they are always read and written whole with the aggregate, never
// queried by their internal fields, so a normalized schema would only
// add joins with no query benefit (spec §3 "Ownership": this package
// is the only writer of the Booking aggregate).
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository constructs a BookingRepository over an existing pool.
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingRow struct {
	Rooms        []booking.RoomRequest
	Pricing      booking.PricingSnapshot
	History      []booking.HistoryEntry
	Cancellation *booking.CancellationOutcome
	Rejection    *booking.RejectionOutcome
}

func (r *BookingRepository) Create(ctx context.Context, b booking.Booking) (booking.Booking, error) {
	rooms, pricing, history, cancellation, rejection, err := marshalBooking(b)
	if err != nil {
		return booking.Booking{}, pkgerrors.ErrDatabase.Wrap(err)
	}

	const query = `
		INSERT INTO bookings (
			id, number, customer_id, company_id, hotel_id, check_in, check_out,
			status, rooms, pricing, history, cancellation, rejection, archived,
			confirmed_at, rejected_at, actual_check_in_at, actual_check_out_at, cancelled_at,
			version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9::jsonb, $10::jsonb, $11::jsonb, $12::jsonb, $13::jsonb, $14,
			$15, $16, $17, $18, $19,
			1, now(), now()
		)
		RETURNING version, created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		b.ID, b.Number, b.CustomerID, b.CompanyID, b.HotelID, b.CheckIn, b.CheckOut,
		b.Status, rooms, pricing, history, cancellation, rejection, b.Archived,
		b.ConfirmedAt, b.RejectedAt, b.ActualCheckInAt, b.ActualCheckOutAt, b.CancelledAt,
	).Scan(&b.Version, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return booking.Booking{}, pkgerrors.ErrConflict.WithMessage("booking already exists: " + b.ID)
		}
		return booking.Booking{}, pkgerrors.ErrDatabase.Wrap(err)
	}
	return b, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (booking.Booking, error) {
	const query = `
		SELECT id, number, customer_id, company_id, hotel_id, check_in, check_out,
			status, rooms, pricing, history, cancellation, rejection, archived,
			confirmed_at, rejected_at, actual_check_in_at, actual_check_out_at, cancelled_at,
			version, created_at, updated_at
		FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Booking{}, pkgerrors.ErrNotFound.WithMessage("booking not found: " + id)
		}
		return booking.Booking{}, pkgerrors.ErrDatabase.Wrap(err)
	}
	return b, nil
}

func (r *BookingRepository) Update(ctx context.Context, b booking.Booking) (booking.Booking, error) {
	rooms, pricing, history, cancellation, rejection, err := marshalBooking(b)
	if err != nil {
		return booking.Booking{}, pkgerrors.ErrDatabase.Wrap(err)
	}

	const query = `
		UPDATE bookings SET
			status = $1, rooms = $2::jsonb, pricing = $3::jsonb, history = $4::jsonb,
			cancellation = $5::jsonb, rejection = $6::jsonb, archived = $7,
			confirmed_at = $8, rejected_at = $9, actual_check_in_at = $10,
			actual_check_out_at = $11, cancelled_at = $12,
			version = version + 1, updated_at = now()
		WHERE id = $13 AND version = $14
		RETURNING version, updated_at`

	err = r.db.QueryRow(ctx, query,
		b.Status, rooms, pricing, history, cancellation, rejection, b.Archived,
		b.ConfirmedAt, b.RejectedAt, b.ActualCheckInAt, b.ActualCheckOutAt, b.CancelledAt,
		b.ID, b.Version,
	).Scan(&b.Version, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, b.ID); getErr != nil {
				return booking.Booking{}, getErr
			}
			return booking.Booking{}, pkgerrors.ErrConflict.WithMessage("booking version mismatch: " + b.ID)
		}
		return booking.Booking{}, pkgerrors.ErrDatabase.Wrap(err)
	}
	return b, nil
}

func (r *BookingRepository) ListByHotelAndCheckIn(ctx context.Context, hotelID string, from, to time.Time) ([]booking.Booking, error) {
	const query = `
		SELECT id, number, customer_id, company_id, hotel_id, check_in, check_out,
			status, rooms, pricing, history, cancellation, rejection, archived,
			confirmed_at, rejected_at, actual_check_in_at, actual_check_out_at, cancelled_at,
			version, created_at, updated_at
		FROM bookings
		WHERE hotel_id = $1 AND check_in >= $2 AND check_in < $3
		ORDER BY check_in`

	return r.queryBookings(ctx, query, hotelID, from, to)
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]booking.Booking, error) {
	const query = `
		SELECT id, number, customer_id, company_id, hotel_id, check_in, check_out,
			status, rooms, pricing, history, cancellation, rejection, archived,
			confirmed_at, rejected_at, actual_check_in_at, actual_check_out_at, cancelled_at,
			version, created_at, updated_at
		FROM bookings
		WHERE customer_id = $1
		ORDER BY check_in DESC`

	return r.queryBookings(ctx, query, customerID)
}

func (r *BookingRepository) ListByStatusAndCheckIn(ctx context.Context, statuses []booking.Status, from, to time.Time) ([]booking.Booking, error) {
	const query = `
		SELECT id, number, customer_id, company_id, hotel_id, check_in, check_out,
			status, rooms, pricing, history, cancellation, rejection, archived,
			confirmed_at, rejected_at, actual_check_in_at, actual_check_out_at, cancelled_at,
			version, created_at, updated_at
		FROM bookings
		WHERE status = ANY($1) AND check_in >= $2 AND check_in < $3
		ORDER BY check_in`

	return r.queryBookings(ctx, query, statusStrings(statuses), from, to)
}

func (r *BookingRepository) ListOverlapping(ctx context.Context, hotelID string, roomType string, from, to time.Time, statuses []booking.Status) ([]booking.Booking, error) {
	query := `
		SELECT id, number, customer_id, company_id, hotel_id, check_in, check_out,
			status, rooms, pricing, history, cancellation, rejection, archived,
			confirmed_at, rejected_at, actual_check_in_at, actual_check_out_at, cancelled_at,
			version, created_at, updated_at
		FROM bookings
		WHERE hotel_id = $1 AND status = ANY($2) AND check_in < $3 AND check_out > $4`
	args := []any{hotelID, statusStrings(statuses), to, from}
	if roomType != "" {
		query += ` AND rooms @> $5::jsonb`
		typeFilter, _ := json.Marshal([]map[string]string{{"RoomType": roomType}})
		args = append(args, string(typeFilter))
	}
	return r.queryBookings(ctx, query, args...)
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]booking.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.ErrDatabase.Wrap(err)
	}
	defer rows.Close()

	var out []booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, pkgerrors.ErrDatabase.Wrap(err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func statusStrings(statuses []booking.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...any) error
}

// marshalBooking serializes the JSONB-backed fields to strings rather
// than []byte: pgx binds a Go string parameter as text, which
// Postgres can assignment-cast to jsonb via the explicit `::jsonb`
// casts in the query; a []byte parameter binds as bytea, which has no
// cast to jsonb.
func marshalBooking(b booking.Booking) (rooms, pricing, history string, cancellation, rejection *string, err error) {
	var buf []byte
	if buf, err = json.Marshal(b.Rooms); err != nil {
		return
	}
	rooms = string(buf)
	if buf, err = json.Marshal(b.Pricing); err != nil {
		return
	}
	pricing = string(buf)
	if buf, err = json.Marshal(b.History); err != nil {
		return
	}
	history = string(buf)
	if b.Cancellation != nil {
		if buf, err = json.Marshal(b.Cancellation); err != nil {
			return
		}
		s := string(buf)
		cancellation = &s
	}
	if b.Rejection != nil {
		if buf, err = json.Marshal(b.Rejection); err != nil {
			return
		}
		s := string(buf)
		rejection = &s
	}
	return
}

func scanBooking(row rowScanner) (booking.Booking, error) {
	var b booking.Booking
	var rooms, pricing, history []byte
	var cancellation, rejection *[]byte

	err := row.Scan(
		&b.ID, &b.Number, &b.CustomerID, &b.CompanyID, &b.HotelID, &b.CheckIn, &b.CheckOut,
		&b.Status, &rooms, &pricing, &history, &cancellation, &rejection, &b.Archived,
		&b.ConfirmedAt, &b.RejectedAt, &b.ActualCheckInAt, &b.ActualCheckOutAt, &b.CancelledAt,
		&b.Version, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return booking.Booking{}, err
	}

	if err := json.Unmarshal(rooms, &b.Rooms); err != nil {
		return booking.Booking{}, err
	}
	if err := json.Unmarshal(pricing, &b.Pricing); err != nil {
		return booking.Booking{}, err
	}
	if err := json.Unmarshal(history, &b.History); err != nil {
		return booking.Booking{}, err
	}
	if cancellation != nil {
		var c booking.CancellationOutcome
		if err := json.Unmarshal(*cancellation, &c); err != nil {
			return booking.Booking{}, err
		}
		b.Cancellation = &c
	}
	if rejection != nil {
		var rj booking.RejectionOutcome
		if err := json.Unmarshal(*rejection, &rj); err != nil {
			return booking.Booking{}, err
		}
		b.Rejection = &rj
	}
	return b, nil
}
