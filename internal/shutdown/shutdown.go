// Package shutdown runs graceful-shutdown hooks in timed phases, so a
// slow external dependency (the Postgres pool, the NATS bridge, the
// RabbitMQ channel) cannot hang process exit indefinitely. Adapted
// from the teacher's internal/infrastructure/shutdown/shutdown.go
// phase/hook/timeout structure, with the HTTP-server-specific
// RegisterDefaultHooks/ShutdownableServer helpers dropped — this
// module has no HTTP layer of its own (SPEC_FULL §2, Non-goals) and
// every component internal/app wires registers its own Cleanup hook
// directly instead.
package shutdown

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Phase is a named stage of shutdown, run in a fixed order with its
// own timeout.
type Phase string

const (
	PhaseStopIntake Phase = "stop_intake"
	PhaseDrain      Phase = "drain"
	PhaseCleanup    Phase = "cleanup"
)

// Hook runs during one Phase.
type Hook func(ctx context.Context) error

// Manager collects hooks per phase and runs them in order.
type Manager struct {
	logger *zap.Logger
	phases map[Phase][]Hook
	mu     sync.RWMutex
}

// NewManager constructs a Manager.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger, phases: make(map[Phase][]Hook)}
}

// RegisterHook adds a named hook to phase.
func (m *Manager) RegisterHook(phase Phase, name string, hook Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.phases[phase] = append(m.phases[phase], func(ctx context.Context) error {
		start := time.Now()
		err := hook(ctx)
		if err != nil {
			m.logger.Error("shutdown hook failed",
				zap.String("phase", string(phase)), zap.String("hook", name),
				zap.Duration("duration", time.Since(start)), zap.Error(err))
			return fmt.Errorf("hook %s: %w", name, err)
		}
		m.logger.Info("shutdown hook completed",
			zap.String("phase", string(phase)), zap.String("hook", name),
			zap.Duration("duration", time.Since(start)))
		return nil
	})
}

var phaseTimeouts = []struct {
	phase   Phase
	timeout time.Duration
}{
	{PhaseStopIntake, 2 * time.Second},
	{PhaseDrain, 10 * time.Second},
	{PhaseCleanup, 5 * time.Second},
}

// Shutdown runs every registered phase in order, continuing past a
// failed phase so later cleanup still gets a chance to run.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("starting graceful shutdown")
	start := time.Now()

	var failed []error
	for _, pt := range phaseTimeouts {
		if err := m.executePhase(ctx, pt.phase, pt.timeout); err != nil {
			failed = append(failed, err)
		}
	}

	m.logger.Info("graceful shutdown completed",
		zap.Duration("total_duration", time.Since(start)), zap.Int("error_count", len(failed)))
	if len(failed) > 0 {
		return fmt.Errorf("shutdown completed with %d phase errors", len(failed))
	}
	return nil
}

func (m *Manager) executePhase(parentCtx context.Context, phase Phase, timeout time.Duration) error {
	m.mu.RLock()
	hooks := m.phases[phase]
	m.mu.RUnlock()
	if len(hooks) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(parentCtx, timeout)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, len(hooks))
	for _, hook := range hooks {
		wg.Add(1)
		go func(h Hook) {
			defer wg.Done()
			if err := h(ctx); err != nil {
				errs <- err
			}
		}(hook)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
		close(errs)
		var n int
		for range errs {
			n++
		}
		if n > 0 {
			return fmt.Errorf("phase %s: %d hooks failed", phase, n)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("phase %s timed out after %s", phase, timeout)
	}
}
