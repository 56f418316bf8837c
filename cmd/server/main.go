// Package main implements the entry point for the TaskHive API server,
// which manages organization tasks and recurring duties: CRUD over HTTP,
// scheduled generation of recurring tasks, overdue sweeps, and reminder
// and digest emails.
package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	// A missing .env is fine; deployments configure through real env vars.
	_ = godotenv.Load()

	app, err := newApplication()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if *migrateCmd != "" {
		if err := app.runMigrations(*migrateCmd); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		return
	}

	if err := app.run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
