package metrics

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats turns the cumulative TransitionDuration histogram into the
// windowed count/average the Metrics-broadcast job needs, by diffing
// against the totals it saw at its previous call. In steady state the
// job runs hourly (spec §4.6), so each call reports the hour since the
// previous one; internal/repository/clickhouse holds the durable,
// genuinely-24h-queryable rollup this job also appends to.
type Stats struct {
	gatherer prometheus.Gatherer

	mu        sync.Mutex
	prevCount float64
	prevSum   float64
}

// NewStats wraps gatherer (the same *prometheus.Registry passed to
// metrics.New as a Registerer) for the Metrics-broadcast job.
func NewStats(gatherer prometheus.Gatherer) *Stats {
	return &Stats{gatherer: gatherer}
}

// Last24h implements scheduler.TransitionStats.
func (s *Stats) Last24h(ctx context.Context) (count int64, avgDurationMS float64, err error) {
	families, err := s.gatherer.Gather()
	if err != nil {
		return 0, 0, err
	}

	var total, sum float64
	for _, fam := range families {
		if fam.GetName() != "hotel_reservation_transition_duration_seconds" {
			continue
		}
		for _, m := range fam.GetMetric() {
			h := m.GetHistogram()
			total += float64(h.GetSampleCount())
			sum += h.GetSampleSum()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	deltaCount := total - s.prevCount
	deltaSum := sum - s.prevSum
	s.prevCount, s.prevSum = total, sum

	if deltaCount <= 0 {
		return 0, 0, nil
	}
	return int64(deltaCount), (deltaSum / deltaCount) * 1000, nil
}
