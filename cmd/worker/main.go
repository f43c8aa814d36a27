// Command worker consumes the deferred invoice/extras job queues on
// RabbitMQ so step 8 of a transition never blocks on invoice
// generation or extras billing (SPEC_FULL §2, §9). Invoice jobs come
// from the Transition Executor's INVOICE_GENERATED events; nothing in
// this module publishes EXTRAS_ADDED, so the extras queue only carries
// jobs enqueued from outside it. Actual invoice-PDF rendering and extras-ledger fulfillment are
// out of this module's scope (spec.md Non-goals: "file upload, QR
// rendering, invoice PDF ... are explicitly out of scope"); this
// process only acks/logs receipt, standing in for the external
// fulfillment workers the spec assumes exist downstream of the queue.
// Adapted from the teacher's cmd/worker/main.go signal-driven
// goroutine shutdown shape, generalized from its four polling-ticker
// jobs (which this module runs inside the Scheduler instead, see
// cmd/server) down to the two queue consumers this module actually
// owns.
package main

import (
	"context"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"hotel-reservation-engine/config"
	"hotel-reservation-engine/internal/broker/rabbitmq"
	pkglog "hotel-reservation-engine/pkg/log"
)

func main() {
	logger := pkglog.New()
	defer pkglog.SyncLogger(logger)

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("worker: load config: %v", err)
	}
	if cfg.RabbitMQ.URL == "" {
		logger.Fatal("worker: RABBITMQ_URL is required")
	}

	queue, err := rabbitmq.New(rabbitmq.Config{
		URL:          cfg.RabbitMQ.URL,
		Exchange:     "reservation.exchange",
		InvoiceQueue: cfg.RabbitMQ.QueueName + ".invoice",
		ExtrasQueue:  cfg.RabbitMQ.QueueName + ".extras",
	}, logger)
	if err != nil {
		logger.Fatal("worker: connect rabbitmq", zap.Error(err))
	}
	defer queue.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	consume := func(queueName, label string) {
		defer wg.Done()
		logger.Info("worker: consuming", zap.String("queue", queueName))
		err := queue.Consume(ctx, queueName, func(_ context.Context, job rabbitmq.Job) error {
			logger.Info("worker: received deferred job",
				zap.String("label", label), zap.String("job_id", job.JobID),
				zap.String("kind", job.Kind), zap.String("booking_id", job.BookingID))
			return nil
		})
		if err != nil && ctx.Err() == nil {
			logger.Error("worker: consumer stopped unexpectedly", zap.String("queue", queueName), zap.Error(err))
		}
	}

	wg.Add(2)
	go consume(cfg.RabbitMQ.QueueName+".invoice", "invoice")
	go consume(cfg.RabbitMQ.QueueName+".extras", "extras")

	logger.Info("worker: started")
	<-ctx.Done()
	logger.Info("worker: shutdown signal received, draining consumers")
	wg.Wait()
	logger.Info("worker: stopped")
}
