package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/store"
)

// Sweeper transitions past-due tasks into the overdue status.
type Sweeper struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewSweeper creates a Sweeper.
func NewSweeper(tasks store.TaskStore, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "sweeper")),
	}
}

// Run marks tasks overdue whose due date is before today and whose
// status is neither completed nor already overdue. The transition is one
// way; completing the task later is the only way out. Returns how many
// tasks were marked.
func (s *Sweeper) Run(ctx context.Context, today time.Time) (int, error) {
	s.logger.InfoContext(ctx, "checking for overdue tasks")

	candidates, err := s.tasks.ListOverdue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("listing overdue tasks: %w", err)
	}

	marked := 0
	var errs *multierror.Error

	for _, task := range candidates {
		if task.Status == domain.TaskStatusOverdue || task.Status == domain.TaskStatusCompleted {
			continue
		}

		task.Status = domain.TaskStatusOverdue
		if err := s.tasks.Update(ctx, task); err != nil {
			s.logger.ErrorContext(ctx, "failed to mark task overdue",
				slog.String("task_id", task.ID.String()),
				slog.Any("error", err))
			errs = multierror.Append(errs, fmt.Errorf("task %s: %w", task.ID, err))
			continue
		}

		s.logger.WarnContext(ctx, "task marked as overdue",
			slog.String("task_id", task.ID.String()),
			slog.String("title", task.Title))
		marked++
	}

	s.logger.InfoContext(ctx, "overdue check completed", slog.Int("marked", marked))
	return marked, errs.ErrorOrNil()
}
