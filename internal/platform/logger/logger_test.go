package logger_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/taskhive/taskhive-api/internal/config"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"mixed case", "DeBuG"},
		{"invalid level falls back to info", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{Port: 8080, LogLevel: tt.logLevel})
			if err != nil {
				t.Fatalf("Setup() returned error: %v", err)
			}
			if log == nil {
				t.Fatal("Setup() returned nil logger")
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Without a stored logger, the default is returned.
	if got := logger.FromContext(ctx); got == nil {
		t.Fatal("FromContext returned nil for empty context")
	}

	stored := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "test")
	ctx = logger.WithLogger(ctx, stored)

	if got := logger.FromContext(ctx); got != stored {
		t.Error("FromContext did not return the stored logger")
	}
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()
	fallback := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if got := logger.FromContextOrDefault(context.Background(), fallback); got != fallback {
		t.Error("Expected fallback logger for empty context")
	}

	stored := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := logger.WithLogger(context.Background(), stored)
	if got := logger.FromContextOrDefault(ctx, fallback); got != stored {
		t.Error("Expected stored logger to win over fallback")
	}

	if got := logger.FromContextOrDefault(context.Background(), nil); got == nil {
		t.Error("Expected default logger when both context and fallback are empty")
	}
}
