// Package idgen is the Clock & Identifier Service (spec §2, leaf #1):
// monotonic now() and unique booking/transition/event IDs. Kept as a
// tiny seam so tests can freeze time and stub IDs without touching
// any domain package.
package idgen

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Clock returns the current time. Swappable in tests for deterministic
// boundary checks (e.g. "check-in at exactly check-in + 24h").
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock, backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Generator produces opaque unique identifiers and human-readable
// booking numbers. The zero value is ready to use.
type Generator struct {
	seq atomic.Uint64
}

// NewGenerator returns a ready-to-use Generator.
func NewGenerator() *Generator { return &Generator{} }

// NewBookingID returns a new opaque booking identifier.
func (g *Generator) NewBookingID() string { return uuid.NewString() }

// NewTransitionID returns a new opaque transition/history-entry identifier.
func (g *Generator) NewTransitionID() string { return uuid.NewString() }

// NewEventID returns a new opaque event identifier.
func (g *Generator) NewEventID() string { return uuid.NewString() }

// NewBookingNumber returns a human-readable booking number, e.g.
// "BK-20250715-000042". Monotonic per-process counter disambiguates
// bookings created on the same day.
func (g *Generator) NewBookingNumber(at time.Time) string {
	n := g.seq.Add(1)
	return fmt.Sprintf("BK-%s-%06d", at.UTC().Format("20060102"), n%1_000_000)
}
