package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/taskhive/taskhive-api/internal/config"
)

// Scheduler owns the cron instance and registers the periodic jobs.
// Jobs read the clock once when fired and log their own outcomes; errors
// never reach cron.
type Scheduler struct {
	cron      *cron.Cron
	cfg       config.SchedulerConfig
	generator *Generator
	sweeper   *Sweeper
	reminders *ReminderJob
	digests   *DigestJob
	logger    *slog.Logger
}

// New creates a Scheduler running in UTC. Call Start to register and
// begin the jobs.
func New(
	cfg config.SchedulerConfig,
	generator *Generator,
	sweeper *Sweeper,
	reminders *ReminderJob,
	digests *DigestJob,
	logger *slog.Logger,
) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		cfg:       cfg,
		generator: generator,
		sweeper:   sweeper,
		reminders: reminders,
		digests:   digests,
		logger:    logger.With(slog.String("component", "scheduler")),
	}
}

// Start registers all jobs and starts the cron loop. Generation and the
// digest run once a day at their configured times; the overdue sweep and
// the reminder check run on their configured intervals.
//
// Generation holds no cross-process lock: two runs firing on the same day
// can in principle both pass the dedup check and generate twice. A single
// scheduler instance per deployment is assumed.
func (s *Scheduler) Start() error {
	generationSpec, err := dailySpec(s.cfg.GenerationTime)
	if err != nil {
		return fmt.Errorf("generation time: %w", err)
	}
	digestSpec, err := dailySpec(s.cfg.DigestTime)
	if err != nil {
		return fmt.Errorf("digest time: %w", err)
	}

	if _, err := s.cron.AddFunc(generationSpec, s.runGeneration); err != nil {
		return fmt.Errorf("registering generation job: %w", err)
	}
	if _, err := s.cron.AddFunc(intervalSpec(s.cfg.OverdueInterval), s.runSweep); err != nil {
		return fmt.Errorf("registering sweep job: %w", err)
	}
	if _, err := s.cron.AddFunc(intervalSpec(s.cfg.ReminderInterval), s.runReminders); err != nil {
		return fmt.Errorf("registering reminder job: %w", err)
	}
	if _, err := s.cron.AddFunc(digestSpec, s.runDigests); err != nil {
		return fmt.Errorf("registering digest job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		slog.String("generation_time", s.cfg.GenerationTime),
		slog.String("digest_time", s.cfg.DigestTime),
		slog.Duration("overdue_interval", s.cfg.OverdueInterval),
		slog.Duration("reminder_interval", s.cfg.ReminderInterval))
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runGeneration() {
	ctx := context.Background()
	today := time.Now().UTC()

	if _, err := s.generator.RunDaily(ctx, today); err != nil {
		s.logger.Error("daily generation finished with errors", slog.Any("error", err))
	}
	if _, err := s.generator.RunWeekly(ctx, today); err != nil {
		s.logger.Error("weekly generation finished with errors", slog.Any("error", err))
	}
	if _, err := s.generator.RunMonthly(ctx, today); err != nil {
		s.logger.Error("monthly generation finished with errors", slog.Any("error", err))
	}
}

func (s *Scheduler) runSweep() {
	if _, err := s.sweeper.Run(context.Background(), time.Now().UTC()); err != nil {
		s.logger.Error("overdue sweep finished with errors", slog.Any("error", err))
	}
}

func (s *Scheduler) runReminders() {
	if _, err := s.reminders.Run(context.Background(), time.Now().UTC()); err != nil {
		s.logger.Error("reminder job finished with errors", slog.Any("error", err))
	}
}

func (s *Scheduler) runDigests() {
	if _, err := s.digests.Run(context.Background(), time.Now().UTC()); err != nil {
		s.logger.Error("digest job finished with errors", slog.Any("error", err))
	}
}

// dailySpec converts an HH:MM time string to a cron spec.
func dailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	// cron format: minute hour dom month dow
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

func intervalSpec(interval time.Duration) string {
	if interval <= 0 {
		interval = time.Hour
	}
	return fmt.Sprintf("@every %s", interval)
}
