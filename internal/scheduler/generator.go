// Package scheduler contains the periodic jobs that drive the recurring
// task system: template expansion, the overdue sweep, deadline reminders,
// and daily digests, plus the cron wiring that triggers them.
//
// Every job takes its reference day as a parameter instead of reading the
// wall clock, so the temporal behavior is fully deterministic under test.
// Day-granular comparisons use the date component only (midnight UTC).
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/notify"
	"github.com/taskhive/taskhive-api/internal/store"
)

// RunReport summarizes one generation run.
type RunReport struct {
	// Generated is the number of tasks created this run.
	Generated int

	// Skipped is the number of firing templates that already generated
	// a task today and were deduplicated.
	Skipped int

	// Failed is the number of templates whose generation errored.
	Failed int
}

// Generator expands active recurring templates into concrete tasks.
type Generator struct {
	templates store.TemplateStore
	tasks     store.TaskStore
	users     store.UserStore
	sender    notify.Sender
	logger    *slog.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(
	templates store.TemplateStore,
	tasks store.TaskStore,
	users store.UserStore,
	sender notify.Sender,
	logger *slog.Logger,
) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		templates: templates,
		tasks:     tasks,
		users:     users,
		sender:    sender,
		logger:    logger.With(slog.String("component", "generator")),
	}
}

// RunDaily generates tasks from daily templates.
func (g *Generator) RunDaily(ctx context.Context, today time.Time) (RunReport, error) {
	return g.run(ctx, domain.RecurrenceDaily, today)
}

// RunWeekly generates tasks from weekly templates whose day of week
// matches today.
func (g *Generator) RunWeekly(ctx context.Context, today time.Time) (RunReport, error) {
	return g.run(ctx, domain.RecurrenceWeekly, today)
}

// RunMonthly generates tasks from monthly templates whose day of month
// matches today. Templates scheduled on day 29, 30 or 31 simply do not
// fire in months without that day.
func (g *Generator) RunMonthly(ctx context.Context, today time.Time) (RunReport, error) {
	return g.run(ctx, domain.RecurrenceMonthly, today)
}

// run is the shared generation loop. One failing template never stops
// the run; its error is collected and the loop moves on.
func (g *Generator) run(
	ctx context.Context,
	kind domain.RecurrenceType,
	today time.Time,
) (RunReport, error) {
	logger := g.logger.With(
		slog.String("recurrence", string(kind)),
		slog.String("day", domain.DateOf(today).Format("2006-01-02")),
	)
	logger.InfoContext(ctx, "running task generation")

	templates, err := g.templates.ListActiveByRecurrence(ctx, kind)
	if err != nil {
		return RunReport{}, fmt.Errorf("listing active %s templates: %w", kind, err)
	}

	var report RunReport
	var errs *multierror.Error

	for _, tmpl := range templates {
		if !tmpl.FiresOn(today) {
			continue
		}
		if tmpl.GeneratedOn(today) {
			logger.DebugContext(ctx, "template already generated today",
				slog.String("template_id", tmpl.ID.String()))
			report.Skipped++
			continue
		}

		if err := g.generateFrom(ctx, tmpl, today); err != nil {
			logger.ErrorContext(ctx, "template generation failed",
				slog.String("template_id", tmpl.ID.String()),
				slog.Any("error", err))
			report.Failed++
			errs = multierror.Append(errs, fmt.Errorf("template %s: %w", tmpl.ID, err))
			continue
		}
		report.Generated++
	}

	logger.InfoContext(ctx, "task generation completed",
		slog.Int("generated", report.Generated),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed))

	return report, errs.ErrorOrNil()
}

// generateFrom instantiates one task from a template and stamps the
// template's last generated marker. The task is persisted before the
// marker: a crash between the two writes means the next run dedups
// against the stale marker and may generate a duplicate, which is the
// accepted failure mode (tasks are cheap, lost tasks are not).
func (g *Generator) generateFrom(
	ctx context.Context,
	tmpl *domain.TaskTemplate,
	today time.Time,
) error {
	task := tmpl.Instantiate(today)

	if err := g.tasks.Create(ctx, task); err != nil {
		return fmt.Errorf("creating task: %w", err)
	}

	now := today
	tmpl.LastGenerated = &now
	if err := g.templates.Update(ctx, tmpl); err != nil {
		return fmt.Errorf("updating template last generated: %w", err)
	}

	g.logger.InfoContext(ctx, "task generated",
		slog.String("template_id", tmpl.ID.String()),
		slog.String("task_id", task.ID.String()),
		slog.String("title", task.Title))

	g.notifyCreated(ctx, task)
	return nil
}

// notifyCreated dispatches the task created notification. Notification
// problems never fail the generation itself.
func (g *Generator) notifyCreated(ctx context.Context, task *domain.Task) {
	user, err := g.users.GetByID(ctx, task.UserID)
	if err != nil {
		g.logger.WarnContext(ctx, "skipping task created notification, user lookup failed",
			slog.String("task_id", task.ID.String()),
			slog.Any("error", err))
		return
	}
	// Dispatch already logs when the queue is full.
	_ = g.sender.Dispatch(notify.NewTaskCreated(user, task))
}
