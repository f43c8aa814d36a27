// Command server is the reservation control plane's single long-lived
// process: it wires every component (internal/app.New), starts the
// Scheduler and the bus bridges (internal/app.Run), and blocks until
// SIGINT/SIGTERM, at which point it runs the phased graceful shutdown.
// Adapted from the teacher's cmd/api/main.go boot sequence, with the
// HTTP server step dropped — this module has no HTTP layer of its own
// (SPEC_FULL §2, Non-goals); everything the teacher's router exposed
// as endpoints, this module exposes as the Subscription Gateway and
// the Scheduler's cron jobs instead.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"hotel-reservation-engine/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx)
	if err != nil {
		log.Fatalf("server: failed to build application: %v", err)
	}

	application.Run(ctx)
	application.Logger().Info("server: running, awaiting shutdown signal")

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server: shutdown error: %v", err)
	}
}
