// Package archive is the long-term, denormalized store for terminal
// bookings (SPEC_FULL §2 "Archive"). It is grounded on the teacher's
// internal/repository/mongo/member.go for the
// *mongo.Collection-held-by-value-receiver shape and upsert-by-id
// pattern, generalized from string document IDs (the teacher's
// library uses Mongo ObjectIDs) to the Booking aggregate's own ID,
// since a booking's ID is already unique and stable across stores.
//
// Archive is the only writer of this collection, and it is itself
// only ever called by the Scheduler's Archive-terminal job — never by
// the transition.Executor (spec §3 "archived after retention window,
// no deletion").
package archive

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hotel-reservation-engine/internal/domain/booking"
	pkgerrors "hotel-reservation-engine/pkg/errors"
)

// document is the denormalized shape persisted to Mongo: flat enough
// for ad-hoc analytics queries against the archive, unlike the
// JSONB-nested Postgres row it is migrated from.
type document struct {
	ID         string               `bson:"_id"`
	Number     string               `bson:"number"`
	CustomerID string               `bson:"customer_id"`
	CompanyID  *string              `bson:"company_id,omitempty"`
	HotelID    string               `bson:"hotel_id"`
	CheckIn    time.Time            `bson:"check_in"`
	CheckOut   time.Time            `bson:"check_out"`
	Status     booking.Status       `bson:"status"`
	RoomCount  int                  `bson:"room_count"`
	Total      string               `bson:"total_amount"`
	Currency   string               `bson:"currency"`
	History    []booking.HistoryEntry `bson:"history"`
	ArchivedAt time.Time            `bson:"archived_at"`
}

// Repository is the Mongo-backed archive. It also tombstones the
// archived booking in the operational store it wraps, so a single
// Archive call is the Scheduler job's only hand-off point.
type Repository struct {
	collection *mongo.Collection
	bookings   booking.Repository
}

// New constructs a Repository over an existing database handle. bookings
// is the operational Postgres (or in-memory) store whose rows get
// tombstoned once archived.
func New(db *mongo.Database, bookings booking.Repository) *Repository {
	return &Repository{
		collection: db.Collection("archived_bookings"),
		bookings:   bookings,
	}
}

// Archive upserts a denormalized copy of b into the archive collection,
// then marks b.Archived in the operational store. The row is never
// deleted from the operational store (spec §3 "no deletion") — Archive
// only changes its storage tier.
func (r *Repository) Archive(ctx context.Context, b booking.Booking) error {
	doc := document{
		ID:         b.ID,
		Number:     b.Number,
		CustomerID: b.CustomerID,
		CompanyID:  b.CompanyID,
		HotelID:    b.HotelID,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		Status:     b.Status,
		RoomCount:  b.RoomCount(),
		Total:      b.Pricing.TotalAmount.String(),
		Currency:   b.Pricing.Currency,
		History:    b.History,
		ArchivedAt: time.Now().UTC(),
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return pkgerrors.ErrDatabase.Wrap(err)
	}

	if b.Archived {
		return nil
	}
	b.Archived = true
	if _, err := r.bookings.Update(ctx, b); err != nil {
		return pkgerrors.ErrDatabase.Wrap(err)
	}
	return nil
}
