package metrics

import (
	"time"

	"hotel-reservation-engine/internal/domain/booking"
)

// TransitionRecorder adapts Registry to transition.Recorder, keeping
// the domain package free of a Prometheus import.
type TransitionRecorder struct {
	reg *Registry
}

// NewTransitionRecorder wraps reg for injection into transition.NewExecutor.
func NewTransitionRecorder(reg *Registry) TransitionRecorder {
	return TransitionRecorder{reg: reg}
}

func (r TransitionRecorder) ObserveTransition(target booking.Status, outcome string, d time.Duration) {
	r.reg.TransitionsTotal.WithLabelValues(string(target), outcome).Inc()
	r.reg.TransitionDuration.WithLabelValues(string(target)).Observe(d.Seconds())
}
