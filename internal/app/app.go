// Package app wires every component SPEC_FULL.md names into one
// dependency graph and runs it: config, logger, tracing, the
// Postgres/Mongo/Redis connection pools, the broker and cache
// adapters, the domain services, the Scheduler's six jobs, and the
// Subscription Gateway. Grounded on the teacher's internal/app
// App/New/Run/Shutdown split (app.go owns the lifecycle, init.go owns
// the construction steps), generalized from the teacher's
// Repositories/Caches/AuthServices/Container shape — a library
// checkout domain wired for an HTTP API — to this module's reservation
// control plane, which has no HTTP layer of its own (SPEC_FULL §2
// Non-goals).
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hotel-reservation-engine/config"
	"hotel-reservation-engine/internal/broker/nats"
	"hotel-reservation-engine/internal/broker/rabbitmq"
	"hotel-reservation-engine/internal/domain/availability"
	"hotel-reservation-engine/internal/domain/event"
	"hotel-reservation-engine/internal/domain/intake"
	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/transition"
	"hotel-reservation-engine/internal/gateway/subscription"
	"hotel-reservation-engine/internal/metrics"
	"hotel-reservation-engine/internal/repository/clickhouse"
	"hotel-reservation-engine/internal/scheduler"
	"hotel-reservation-engine/internal/shutdown"
	pkglog "hotel-reservation-engine/pkg/log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// App holds every long-lived component this process runs. Nothing
// here is a package-level singleton (spec §9); a *App is built once
// by New and threaded explicitly through Run/Shutdown.
type App struct {
	logger *zap.Logger
	cfg    *config.Configs

	pg    *pgxpool.Pool
	mongo *mongo.Client
	redis *goredis.Client
	ch    *clickhouse.Store

	bus         event.Bus
	natsBridge  *nats.Bridge
	rabbitQueue *rabbitmq.Queue

	projector *availability.Projector
	engine    *pricing.Engine
	executor  *transition.Executor
	creator   *intake.Creator
	scheduler *scheduler.Scheduler
	gateway   *subscription.Gateway

	metricsReg     *metrics.Registry
	promRegistry   *prometheus.Registry
	tracerShutdown func(context.Context) error

	shutdown *shutdown.Manager
}

// New loads configuration and wires every component in dependency
// order (see init.go). It returns as soon as every pool is connected
// and every job is registered; Run starts the background loops.
func New(ctx context.Context) (*App, error) {
	logger := pkglog.New()

	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("app: load config: %w", err)
	}

	a := &App{logger: logger, cfg: cfg, shutdown: shutdown.NewManager(logger)}

	if err := a.initTracing(ctx); err != nil {
		return nil, err
	}
	if err := a.initStores(ctx); err != nil {
		return nil, err
	}
	if err := a.initBrokers(ctx); err != nil {
		return nil, err
	}
	a.initMetrics()
	a.initDomain()
	a.initScheduler(ctx)

	return a, nil
}

// Run starts every background loop: the Scheduler's cron ticks, the
// NATS bridge's all-topics forwarder, and the RabbitMQ bridge's
// deferred-job publisher. Non-blocking; call Shutdown to stop.
func (a *App) Run(ctx context.Context) {
	a.logger.Info("app: starting")

	a.scheduler.Start()
	a.shutdown.RegisterHook(shutdown.PhaseStopIntake, "scheduler", func(context.Context) error {
		a.scheduler.Stop()
		return nil
	})

	if a.natsBridge != nil {
		a.natsBridge.Run(ctx, a.bus)
		a.shutdown.RegisterHook(shutdown.PhaseDrain, "nats_bridge", func(context.Context) error {
			a.natsBridge.Close()
			return nil
		})
	}

	if a.rabbitQueue != nil {
		a.rabbitQueue.Bridge(ctx, a.bus, event.AdminTopic, map[event.Kind]string{
			event.KindInvoiceGenerated: "job.invoice",
			event.KindExtrasAdded:      "job.extras",
		})
		a.shutdown.RegisterHook(shutdown.PhaseDrain, "rabbitmq_queue", func(context.Context) error {
			return a.rabbitQueue.Close()
		})
	}

	a.logger.Info("app: started")
}

// Shutdown runs every registered phase and releases the connection
// pools last, after every hook has had its chance to flush in-flight
// work (spec §9 "graceful shutdown").
func (a *App) Shutdown(ctx context.Context) error {
	err := a.shutdown.Shutdown(ctx)

	if a.pg != nil {
		a.pg.Close()
	}
	if a.mongo != nil {
		_ = a.mongo.Disconnect(ctx)
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.ch != nil {
		_ = a.ch.Close()
	}
	if a.tracerShutdown != nil {
		tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.tracerShutdown(tctx)
	}
	_ = pkglog.SyncLogger(a.logger)

	return err
}

// Executor, Creator, Gateway, Logger, RabbitMQQueue, and Config expose
// the components cmd/* needs a handle to beyond Run/Shutdown.
func (a *App) Executor() *transition.Executor { return a.executor }
func (a *App) Creator() *intake.Creator       { return a.creator }
func (a *App) Gateway() *subscription.Gateway { return a.gateway }
func (a *App) Logger() *zap.Logger            { return a.logger }
func (a *App) RabbitMQQueue() *rabbitmq.Queue { return a.rabbitQueue }
func (a *App) Config() *config.Configs        { return a.cfg }
