package main

import (
	"fmt"

	"github.com/pressly/goose/v3"
)

// migrationsDir is the path to the goose SQL migrations, relative to the
// working directory the server is launched from.
const migrationsDir = "migrations"

// runMigrations executes the given goose command against the configured
// database.
func (app *application) runMigrations(command string) error {
	goose.SetLogger(&slogGooseLogger{logger: app.logger})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	app.logger.Info("running migrations",
		"command", command,
		"dir", migrationsDir)

	switch command {
	case "up":
		return goose.Up(app.db, migrationsDir)
	case "down":
		return goose.Down(app.db, migrationsDir)
	case "status":
		return goose.Status(app.db, migrationsDir)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}

// slogGooseLogger adapts the structured logger to goose's logger interface.
type slogGooseLogger struct {
	logger interface {
		Info(msg string, args ...any)
		Error(msg string, args ...any)
	}
}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}
