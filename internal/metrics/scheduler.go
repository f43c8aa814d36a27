package metrics

import "time"

// SchedulerRecorder adapts Registry to scheduler.Recorder, mirroring
// TransitionRecorder so the Scheduler package also stays free of a
// Prometheus import.
type SchedulerRecorder struct {
	reg *Registry
}

// NewSchedulerRecorder wraps reg for injection into scheduler.New.
func NewSchedulerRecorder(reg *Registry) SchedulerRecorder {
	return SchedulerRecorder{reg: reg}
}

func (r SchedulerRecorder) ObserveJob(name string, ok bool, d time.Duration) {
	r.reg.SchedulerJobRuns.WithLabelValues(name).Inc()
	r.reg.SchedulerJobDuration.WithLabelValues(name).Observe(d.Seconds())
	if !ok {
		r.reg.SchedulerJobFailures.WithLabelValues(name).Inc()
	}
}
