// Package scheduler runs the module's background jobs (SPEC_FULL
// §4.6): expiring stale PENDING bookings, marking no-shows, sending
// check-in reminders, refreshing cached price quotes, broadcasting
// transition metrics, and archiving terminal bookings. Grounded on
// github.com/robfig/cron/v3's idiomatic cron.New/AddFunc/Start/Stop
// API (present in the retrieved corpus's go.mod set, e.g.
// distribution_service/go.mod); this module has no existing scheduler
// package in the teacher to adapt, so the wiring here follows the
// teacher's constructor-injection and zap-logging conventions instead.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"hotel-reservation-engine/internal/tracing"
)

// Job is one scheduled unit of work. Name identifies it in logs,
// traces, and metrics; Spec is the cron expression (robfig/cron/v3
// standard 5-field syntax, no seconds field, or a descriptor such as
// @hourly); Run executes one tick.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// Recorder observes job executions for ambient instrumentation,
// mirroring transition.Recorder's narrow-port shape.
type Recorder interface {
	ObserveJob(name string, ok bool, d time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) ObserveJob(string, bool, time.Duration) {}

// Scheduler wraps a cron.Cron with tracing and logging around every
// job tick.
type Scheduler struct {
	cron     *cron.Cron
	logger   *zap.Logger
	recorder Recorder
	ctx      context.Context
}

// New constructs a Scheduler bound to ctx; every job run inherits ctx
// for cancellation on shutdown. Pass nil recorder to skip instrumentation.
func New(ctx context.Context, logger *zap.Logger, recorder Recorder) *Scheduler {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Scheduler{
		cron:     cron.New(),
		logger:   logger,
		recorder: recorder,
		ctx:      ctx,
	}
}

// Register adds job to the cron schedule. It must be called before
// Start.
func (s *Scheduler) Register(job Job) error {
	_, err := s.cron.AddFunc(job.Spec, func() { s.runOnce(job) })
	return err
}

func (s *Scheduler) runOnce(job Job) {
	ctx, span := tracing.StartStep(s.ctx, "scheduler."+job.Name)
	defer span.End()

	start := time.Now()
	err := job.Run(ctx)
	d := time.Since(start)
	s.recorder.ObserveJob(job.Name, err == nil, d)

	if err != nil {
		s.logger.Error("scheduler job failed", zap.String("job", job.Name), zap.Error(err), zap.Duration("took", d))
		return
	}
	s.logger.Info("scheduler job completed", zap.String("job", job.Name), zap.Duration("took", d))
}

// Start begins running registered jobs on their schedules. Non-blocking.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels the scheduler's cron ticking and waits for any
// in-flight jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
