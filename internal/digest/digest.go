// Package digest builds per-user daily summaries of task state. It is a
// read-only aggregation layer: it queries the task store and computes
// statistics and deadline buckets, but never mutates anything.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/store"
)

// noDueDate is the placeholder shown for tasks without a deadline.
const noDueDate = "N/A"

// upcomingWindowDays bounds the "upcoming" bucket: tasks due within the next
// seven days, excluding today.
const upcomingWindowDays = 7

// TaskSummary is a single task line in a digest.
type TaskSummary struct {
	ID                uuid.UUID
	Title             string
	Priority          domain.TaskPriority
	DueDate           string
	DaysUntilDeadline int
}

// Digest is the full daily summary for one user.
type Digest struct {
	UserName       string
	UserEmail      string
	TotalTasks     int
	CompletedTasks int
	PendingTasks   int
	OverdueTasks   int
	DueToday       []TaskSummary
	Overdue        []TaskSummary
	Upcoming       []TaskSummary
}

// Aggregator computes digests from the task store.
type Aggregator struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewAggregator creates an Aggregator backed by the given task store.
func NewAggregator(tasks store.TaskStore, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "digest_aggregator")),
	}
}

// BuildForUser assembles the digest for a single user as of the given day.
// Counts cover all of the user's tasks; the three buckets classify the
// not-yet-completed ones by deadline relative to today.
func (a *Aggregator) BuildForUser(ctx context.Context, user *domain.User, today time.Time) (*Digest, error) {
	all, err := a.tasks.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks for digest: %w", err)
	}

	d := &Digest{
		UserName:  user.Name,
		UserEmail: user.Email,
	}

	day := domain.DateOf(today)
	upcomingEnd := day.AddDate(0, 0, upcomingWindowDays)

	for _, task := range all {
		d.TotalTasks++
		if task.Status == domain.TaskStatusCompleted {
			d.CompletedTasks++
			continue
		}
		if task.DueDate == nil {
			continue
		}

		due := domain.DateOf(*task.DueDate)
		switch {
		case due.Before(day):
			d.OverdueTasks++
			d.Overdue = append(d.Overdue, summarize(task, today))
		case due.Equal(day):
			d.DueToday = append(d.DueToday, summarize(task, today))
		case !due.After(upcomingEnd):
			d.Upcoming = append(d.Upcoming, summarize(task, today))
		}
	}

	d.PendingTasks = d.TotalTasks - d.CompletedTasks

	a.logger.DebugContext(ctx, "built digest",
		slog.String("user_id", user.ID.String()),
		slog.Int("total", d.TotalTasks),
		slog.Int("overdue", d.OverdueTasks))

	return d, nil
}

func summarize(task *domain.Task, today time.Time) TaskSummary {
	s := TaskSummary{
		ID:       task.ID,
		Title:    task.Title,
		Priority: task.Priority,
		DueDate:  noDueDate,
	}
	if task.DueDate != nil {
		s.DueDate = domain.DateOf(*task.DueDate).Format("2006-01-02")
	}
	if days, ok := task.DaysUntilDeadline(today); ok {
		s.DaysUntilDeadline = days
	}
	return s
}
