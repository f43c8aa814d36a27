// Command migrate applies every pending schema migration under
// migrations/postgres to the store named by the loaded configuration.
// Adapted from the teacher's flag/log shape, with the direction/steps
// flags dropped in favor of a single golang-migrate Up call
// (pkg/migrate.Run): this module's migrations only ever move forward
// in normal operation, and a down-migration is an operator action
// taken with the migrate CLI directly against the same migrations
// directory, not through this binary.
package main

import (
	"fmt"
	"log"

	"hotel-reservation-engine/config"
	"hotel-reservation-engine/pkg/migrate"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("migrate: load config: %v", err)
	}

	if err := migrate.Run(cfg.Store.DSN); err != nil {
		log.Fatalf("migrate: up failed: %v", err)
	}

	fmt.Println("migrate: up completed successfully")
}
