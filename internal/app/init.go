package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"hotel-reservation-engine/internal/broker/inmemory"
	"hotel-reservation-engine/internal/broker/nats"
	"hotel-reservation-engine/internal/broker/rabbitmq"
	cachetier "hotel-reservation-engine/internal/cache"
	cachemem "hotel-reservation-engine/internal/cache/memory"
	cacheredis "hotel-reservation-engine/internal/cache/redis"
	"hotel-reservation-engine/internal/domain/availability"
	"hotel-reservation-engine/internal/domain/intake"
	"hotel-reservation-engine/internal/domain/pricing"
	"hotel-reservation-engine/internal/domain/transition"
	"hotel-reservation-engine/internal/gateway/subscription"
	"hotel-reservation-engine/internal/metrics"
	pricingadapt "hotel-reservation-engine/internal/pricing"
	"hotel-reservation-engine/internal/repository/archive"
	"hotel-reservation-engine/internal/repository/clickhouse"
	"hotel-reservation-engine/internal/repository/postgres"
	"hotel-reservation-engine/internal/scheduler"
	"hotel-reservation-engine/internal/tracing"
	"hotel-reservation-engine/pkg/idgen"
	"hotel-reservation-engine/pkg/store"

	"github.com/prometheus/client_golang/prometheus"
)

func (a *App) initTracing(ctx context.Context) error {
	endpoint := a.cfg.APP.Host
	if endpoint == "" {
		return nil
	}
	shutdownFn, err := tracing.Init(ctx, endpoint)
	if err != nil {
		a.logger.Warn("app: tracing disabled, continuing without a tracer")
		return nil
	}
	a.tracerShutdown = shutdownFn
	return nil
}

func (a *App) initStores(ctx context.Context) error {
	pg, err := store.NewPostgres(ctx, a.cfg.Store.DSN, a.cfg.Store.MaxOpenConns, a.cfg.Store.MaxIdleConns)
	if err != nil {
		return fmt.Errorf("app: init postgres: %w", err)
	}
	a.pg = pg

	mongoClient, err := store.NewMongo(ctx, a.cfg.Archive.URI)
	if err != nil {
		return fmt.Errorf("app: init mongo: %w", err)
	}
	a.mongo = mongoClient

	a.redis = goredis.NewClient(&goredis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})

	if a.cfg.ClickHouse.DSN != "" {
		ch, err := clickhouse.Open(ctx, a.cfg.ClickHouse.DSN)
		if err != nil {
			return fmt.Errorf("app: init clickhouse: %w", err)
		}
		a.ch = ch
	}

	return nil
}

func (a *App) initBrokers(ctx context.Context) error {
	a.bus = inmemory.New()

	if a.cfg.NATS.URL != "" {
		bridge, err := nats.New(ctx, nats.Config{
			URL: a.cfg.NATS.URL, StreamName: a.cfg.NATS.StreamName, SubjectRoot: a.cfg.NATS.SubjectRoot,
		}, a.logger)
		if err != nil {
			a.logger.Warn("app: nats bridge disabled, continuing without durable external delivery")
		} else {
			a.natsBridge = bridge
		}
	}

	if a.cfg.RabbitMQ.URL != "" {
		queue, err := rabbitmq.New(rabbitmq.Config{
			URL:          a.cfg.RabbitMQ.URL,
			Exchange:     "reservation.exchange",
			InvoiceQueue: a.cfg.RabbitMQ.QueueName + ".invoice",
			ExtrasQueue:  a.cfg.RabbitMQ.QueueName + ".extras",
		}, a.logger)
		if err != nil {
			a.logger.Warn("app: rabbitmq queue disabled, invoice/extras post-actions will not be enqueued")
		} else {
			a.rabbitQueue = queue
		}
	}

	return nil
}

func (a *App) initMetrics() {
	a.promRegistry = prometheus.NewRegistry()
	a.metricsReg = metrics.New(a.promRegistry)
}

func (a *App) initDomain() {
	bookings := postgres.NewBookingRepository(a.pg)
	rooms := postgres.NewRoomRepository(a.pg)

	l1 := cachemem.New()
	l2 := cacheredis.New(a.redis)
	availCache := cachetier.NewTwoTier(l1, l2)

	a.projector = availability.NewProjector(bookings, rooms, availCache, a.cfg.Booking.AvailabilityCacheTTL)

	occupancy := pricingadapt.NewOccupancySource(bookings, rooms)
	history := pricingadapt.NewHistorySource(occupancy)
	forecaster := pricing.NewWeightedMovingAverageForecaster(history)

	pricingCfg := pricing.Config{
		YieldBandMin:     a.cfg.Pricing.YieldBandMin,
		YieldBandMax:     a.cfg.Pricing.YieldBandMax,
		RoundingDecimals: a.cfg.Booking.CurrencyRoundingDecimals,
	}
	a.engine = pricing.NewEngine(pricingCfg, forecaster, occupancy, pricing.NoEventSource{})

	transitionCfg := transition.Config{
		FreeCancellationWindow: time.Duration(a.cfg.Booking.FreeCancellationWindowHours) * time.Hour,
		BookingLockTimeout:     a.cfg.Booking.BookingLockTimeout,
		CurrencyRoundingScale:  a.cfg.Booking.CurrencyRoundingDecimals,
	}

	recorder := metrics.NewTransitionRecorder(a.metricsReg)
	a.executor = transition.NewExecutor(bookings, rooms, a.projector, a.bus, idgen.SystemClock{}, idgen.NewGenerator(), transitionCfg, recorder)

	hotels := postgres.NewHotelRepository(a.pg)
	a.creator = intake.NewCreator(bookings, rooms, hotels, a.engine, idgen.SystemClock{}, idgen.NewGenerator())

	a.gateway = subscription.New(a.bus)
}

func (a *App) initScheduler(ctx context.Context) {
	s := scheduler.New(ctx, a.logger, metrics.NewSchedulerRecorder(a.metricsReg))

	bookings := postgres.NewBookingRepository(a.pg)
	rooms := postgres.NewRoomRepository(a.pg)
	hotels := postgres.NewHotelRepository(a.pg)

	now := idgen.SystemClock{}.Now

	pendingExpiryAge := time.Duration(a.cfg.Booking.PendingExpiryDays) * 24 * time.Hour
	archiveRetention := time.Duration(a.cfg.Archive.RetentionDays) * 24 * time.Hour

	_ = s.Register(scheduler.PendingExpiryJob(bookings, a.executor, pendingExpiryAge, now))
	_ = s.Register(scheduler.NoShowJob(bookings, a.executor, now))
	_ = s.Register(scheduler.RemindersJob(bookings, a.bus, now))
	_ = s.Register(scheduler.PriceRefreshJob(a.engine, a.bus, hotelRoomTypesFn(hotels, rooms), now))

	var stats scheduler.TransitionStats = metrics.NewStats(a.promRegistry)
	var rollupWriter scheduler.RollupWriter
	if a.ch != nil {
		rollupWriter = a.ch
	}
	_ = s.Register(scheduler.MetricsBroadcastJob(stats, rollupWriter, a.bus, now))

	mongoDB := a.mongo.Database(a.cfg.Archive.Database)
	archiver := archive.New(mongoDB, bookings)
	_ = s.Register(scheduler.ArchiveTerminalJob(bookings, archiver, archiveRetention, now))

	a.scheduler = s
}

// hotelRoomTypesFn closes over the room and hotel repositories to give
// the Scheduler's Price-refresh job one request per distinct
// (hotel, room type) pair currently in inventory (spec §4.6).
func hotelRoomTypesFn(hotels *postgres.HotelRepository, rooms *postgres.RoomRepository) func(ctx context.Context) ([]pricing.Request, error) {
	return func(ctx context.Context) ([]pricing.Request, error) {
		distinct, err := rooms.ListDistinctHotelRoomTypes(ctx)
		if err != nil {
			return nil, err
		}

		reqs := make([]pricing.Request, 0, len(distinct))
		for _, rm := range distinct {
			h, err := hotels.GetByID(ctx, rm.HotelID)
			if err != nil {
				continue
			}
			reqs = append(reqs, pricing.Request{
				Hotel:        h,
				RoomType:     rm.Type,
				BasePrice:    rm.BasePrice,
				RoomCount:    1,
				YieldEnabled: true,
			})
		}
		return reqs, nil
	}
}
