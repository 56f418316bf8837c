package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	SMTP      SMTPConfig      `mapstructure:"smtp"      validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains all HTTP server related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes is the access token validity window.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// RefreshTokenLifetimeMinutes is the refresh token validity window.
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// SMTPConfig contains the outgoing mail settings used for reminder and
// digest notifications.
type SMTPConfig struct {
	Host     string `mapstructure:"host"     validate:"required"`
	Port     int    `mapstructure:"port"     validate:"required,gt=0,lt=65536"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"     validate:"required,email"`
}

// SchedulerConfig contains the cadences for the periodic jobs. Times are
// local HH:MM strings fed to the cron scheduler; intervals are plain
// durations.
type SchedulerConfig struct {
	// GenerationTime is the time of day the recurring task generation
	// runs (all three recurrence kinds run in the same pass).
	GenerationTime string `mapstructure:"generation_time" validate:"required"`

	// OverdueInterval is how often the overdue sweep runs.
	OverdueInterval time.Duration `mapstructure:"overdue_interval" validate:"required"`

	// ReminderInterval is how often the reminder check runs.
	ReminderInterval time.Duration `mapstructure:"reminder_interval" validate:"required"`

	// DigestTime is the time of day the daily digest emails go out.
	DigestTime string `mapstructure:"digest_time" validate:"required"`

	// NotifyWorkers is the worker count for the async notification
	// dispatcher.
	NotifyWorkers int `mapstructure:"notify_workers" validate:"required,gt=0"`

	// NotifyQueueSize is the buffer size of the notification queue.
	NotifyQueueSize int `mapstructure:"notify_queue_size" validate:"required,gt=0"`
}
