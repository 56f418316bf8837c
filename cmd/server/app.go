package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/taskhive/taskhive-api/internal/config"
	"github.com/taskhive/taskhive-api/internal/digest"
	"github.com/taskhive/taskhive-api/internal/notify"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/platform/postgres"
	"github.com/taskhive/taskhive-api/internal/scheduler"
	"github.com/taskhive/taskhive-api/internal/service"
	"github.com/taskhive/taskhive-api/internal/service/auth"
	"github.com/taskhive/taskhive-api/internal/store"
)

// application holds the wired dependencies for the server process.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore     store.UserStore
	taskStore     store.TaskStore
	templateStore store.TemplateStore

	jwtService auth.JWTService

	userService     service.UserService
	taskService     service.TaskService
	templateService service.TemplateService

	dispatcher *notify.Dispatcher
	scheduler  *scheduler.Scheduler
}

// newApplication loads configuration and builds the full dependency graph.
// The notification dispatcher and scheduler are constructed but not
// started; run() starts them alongside the HTTP server.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := openDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	userStore := postgres.NewPostgresUserStore(db, appLogger)
	taskStore := postgres.NewPostgresTaskStore(db, appLogger)
	templateStore := postgres.NewPostgresTemplateStore(db, appLogger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	mailer := notify.NewSMTPMailer(cfg.SMTP)
	dispatcher := notify.NewDispatcher(mailer, notify.DispatcherConfig{
		WorkerCount: cfg.Scheduler.NotifyWorkers,
		QueueSize:   cfg.Scheduler.NotifyQueueSize,
	}, appLogger)

	userService := service.NewUserService(
		userStore, jwtService, auth.NewBcryptVerifier(), db, appLogger)
	taskService := service.NewTaskService(taskStore, userStore, dispatcher, appLogger)
	templateService := service.NewTemplateService(templateStore, appLogger)

	generator := scheduler.NewGenerator(templateStore, taskStore, userStore, dispatcher, appLogger)
	sweeper := scheduler.NewSweeper(taskStore, appLogger)
	reminders := scheduler.NewReminderJob(taskStore, userStore, dispatcher, appLogger)
	digests := scheduler.NewDigestJob(
		userStore, digest.NewAggregator(taskStore, appLogger), dispatcher, appLogger)

	sched := scheduler.New(cfg.Scheduler, generator, sweeper, reminders, digests, appLogger)

	return &application{
		config:          cfg,
		logger:          appLogger,
		db:              db,
		userStore:       userStore,
		taskStore:       taskStore,
		templateStore:   templateStore,
		jwtService:      jwtService,
		userService:     userService,
		taskService:     taskService,
		templateService: templateService,
		dispatcher:      dispatcher,
		scheduler:       sched,
	}, nil
}

// run starts the background workers and serves HTTP until shutdown.
func (app *application) run() error {
	app.dispatcher.Start()

	if err := app.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	return app.startHTTPServer(app.setupRouter())
}

// cleanup stops background workers and closes the database connection.
// Safe to call after a partial startup failure.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}
	if app.dispatcher != nil {
		app.dispatcher.Stop()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
