package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/taskhive/taskhive-api/internal/notify"
	"github.com/taskhive/taskhive-api/internal/store"
)

// ReminderJob sends deadline reminders for tasks approaching their due
// date. Critical tasks remind within two days of the deadline, everything
// else within one day.
type ReminderJob struct {
	tasks  store.TaskStore
	users  store.UserStore
	sender notify.Sender
	logger *slog.Logger
}

// NewReminderJob creates a ReminderJob.
func NewReminderJob(
	tasks store.TaskStore,
	users store.UserStore,
	sender notify.Sender,
	logger *slog.Logger,
) *ReminderJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReminderJob{
		tasks:  tasks,
		users:  users,
		sender: sender,
		logger: logger.With(slog.String("component", "reminder_job")),
	}
}

// Run evaluates reminder candidates and dispatches at most one reminder
// per task, ever. The reminder_sent flag is persisted before the
// notification goes out: if the send then fails the reminder is lost
// rather than repeated.
func (j *ReminderJob) Run(ctx context.Context, today time.Time) (int, error) {
	j.logger.InfoContext(ctx, "running reminder check")

	candidates, err := j.tasks.ListNeedingReminder(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing reminder candidates: %w", err)
	}

	sent := 0
	var errs *multierror.Error

	for _, task := range candidates {
		if !task.ShouldSendReminder(today) {
			continue
		}

		task.ReminderSent = true
		if err := j.tasks.Update(ctx, task); err != nil {
			j.logger.ErrorContext(ctx, "failed to persist reminder flag",
				slog.String("task_id", task.ID.String()),
				slog.Any("error", err))
			errs = multierror.Append(errs, fmt.Errorf("task %s: %w", task.ID, err))
			continue
		}

		user, err := j.users.GetByID(ctx, task.UserID)
		if err != nil {
			j.logger.ErrorContext(ctx, "skipping reminder, user lookup failed",
				slog.String("task_id", task.ID.String()),
				slog.Any("error", err))
			errs = multierror.Append(errs, fmt.Errorf("task %s: %w", task.ID, err))
			continue
		}

		_ = j.sender.Dispatch(notify.NewReminder(user, task, today))
		sent++
	}

	j.logger.InfoContext(ctx, "reminder check completed", slog.Int("sent", sent))
	return sent, errs.ErrorOrNil()
}
