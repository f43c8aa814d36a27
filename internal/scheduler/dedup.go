package scheduler

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// dedupSet remembers keys already acted on within window, used by
// RemindersJob to avoid re-emitting the same (booking-id, kind) on
// every 15-minute tick within the same rolling day (spec §4.6).
type dedupSet struct {
	mu     sync.Mutex
	window time.Duration
	seenAt map[string]time.Time
}

func newDedupSet(window time.Duration) *dedupSet {
	return &dedupSet{window: window, seenAt: make(map[string]time.Time)}
}

// shouldSend reports whether key has not been sent within window of
// now, recording it as sent if so.
func (d *dedupSet) shouldSend(key string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if last, ok := d.seenAt[key]; ok && now.Sub(last) < d.window {
		return false
	}
	d.seenAt[key] = now
	return true
}

// priceMemo tracks the last published price per (hotel, room-type) key
// so PriceRefreshJob only republishes when the new optimum diverges by
// at least 2% (spec §4.6 "Price-refresh").
type priceMemo struct {
	mu   sync.Mutex
	last map[string]decimal.Decimal
}

func newPriceMemo() *priceMemo {
	return &priceMemo{last: make(map[string]decimal.Decimal)}
}

func (p *priceMemo) diverged(key string, newPrice decimal.Decimal) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev, ok := p.last[key]
	if !ok || prev.IsZero() {
		return true
	}
	diff := newPrice.Sub(prev).Abs().Div(prev)
	return diff.GreaterThanOrEqual(decimal.NewFromFloat(0.02))
}

func (p *priceMemo) set(key string, price decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last[key] = price
}
