package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotel-reservation-engine/internal/domain/hotel"
	pkgerrors "hotel-reservation-engine/pkg/errors"
)

// HotelRepository is a PostgreSQL-backed hotel.Repository. Overrides
// are stored as JSONB for the same reason booking.go stores Pricing
// and History that way: they are always read and written whole with
// the hotel, never queried by their internal fields.
type HotelRepository struct {
	db *pgxpool.Pool
}

// NewHotelRepository constructs a HotelRepository over an existing pool.
func NewHotelRepository(db *pgxpool.Pool) *HotelRepository {
	return &HotelRepository{db: db}
}

func (r *HotelRepository) GetByID(ctx context.Context, id string) (hotel.Hotel, error) {
	const query = `
		SELECT id, name, category, season_overrides, pricing_rule_overrides
		FROM hotels
		WHERE id = $1`

	var (
		h             hotel.Hotel
		seasonJSON    []byte
		overridesJSON []byte
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&h.ID, &h.Name, &h.Category, &seasonJSON, &overridesJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return hotel.Hotel{}, pkgerrors.ErrNotFound.WithMessage("hotel not found: " + id)
		}
		return hotel.Hotel{}, pkgerrors.ErrDatabase.Wrap(err)
	}

	if len(seasonJSON) > 0 {
		if err := json.Unmarshal(seasonJSON, &h.SeasonOverrides); err != nil {
			return hotel.Hotel{}, pkgerrors.ErrDatabase.Wrap(err)
		}
	}
	if len(overridesJSON) > 0 {
		if err := json.Unmarshal(overridesJSON, &h.PricingRuleOverrides); err != nil {
			return hotel.Hotel{}, pkgerrors.ErrDatabase.Wrap(err)
		}
	}
	return h, nil
}

// Create inserts h, used by provisioning tooling and tests; not part
// of the hotel.Repository port since a hotel's property record is
// managed out of band from the reservation control plane.
func (r *HotelRepository) Create(ctx context.Context, h hotel.Hotel) (hotel.Hotel, error) {
	seasonJSON, err := json.Marshal(h.SeasonOverrides)
	if err != nil {
		return hotel.Hotel{}, pkgerrors.ErrDatabase.Wrap(err)
	}
	overridesJSON, err := json.Marshal(h.PricingRuleOverrides)
	if err != nil {
		return hotel.Hotel{}, pkgerrors.ErrDatabase.Wrap(err)
	}

	const query = `
		INSERT INTO hotels (id, name, category, season_overrides, pricing_rule_overrides)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, category = EXCLUDED.category,
			season_overrides = EXCLUDED.season_overrides,
			pricing_rule_overrides = EXCLUDED.pricing_rule_overrides,
			updated_at = now()`

	if _, err := r.db.Exec(ctx, query, h.ID, h.Name, h.Category, seasonJSON, overridesJSON); err != nil {
		return hotel.Hotel{}, pkgerrors.ErrDatabase.Wrap(err)
	}
	return h, nil
}
