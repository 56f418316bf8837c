package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/mocks"
	"github.com/taskhive/taskhive-api/internal/scheduler"
)

func sweepTask(status domain.TaskStatus, due time.Time, seq int) *domain.Task {
	return &domain.Task{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Title:     "sweep target",
		Status:    status,
		Priority:  domain.PriorityMedium,
		DueDate:   datePtr(due),
		CreatedAt: time.Date(2024, time.January, 1, 0, 0, seq, 0, time.UTC),
	}
}

func TestSweeperMarksPastDueTasks(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMockTaskStore()
	pastDue := sweepTask(domain.TaskStatusTodo, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), 0)
	inProgress := sweepTask(domain.TaskStatusInProgress, time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC), 1)
	dueToday := sweepTask(domain.TaskStatusTodo, time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC), 2)
	tasks.Add(pastDue, inProgress, dueToday)

	s := scheduler.NewSweeper(tasks, discardLogger())
	marked, err := s.Run(context.Background(), wednesday)
	require.NoError(t, err)

	assert.Equal(t, 2, marked)
	assert.Equal(t, domain.TaskStatusOverdue, pastDue.Status)
	assert.Equal(t, domain.TaskStatusOverdue, inProgress.Status)
	// Due today is not yet overdue.
	assert.Equal(t, domain.TaskStatusTodo, dueToday.Status)
}

func TestSweeperLeavesCompletedAndOverdueAlone(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMockTaskStore()
	completed := sweepTask(domain.TaskStatusCompleted, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), 0)
	alreadyOverdue := sweepTask(domain.TaskStatusOverdue, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), 1)
	tasks.Add(completed, alreadyOverdue)

	s := scheduler.NewSweeper(tasks, discardLogger())
	marked, err := s.Run(context.Background(), wednesday)
	require.NoError(t, err)

	assert.Equal(t, 0, marked)
	assert.Equal(t, domain.TaskStatusCompleted, completed.Status)
	assert.Equal(t, 0, tasks.UpdateCalls, "no update should be issued for settled tasks")
}

func TestSweeperIsIdempotent(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMockTaskStore()
	tasks.Add(sweepTask(domain.TaskStatusTodo, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), 0))

	s := scheduler.NewSweeper(tasks, discardLogger())

	marked, err := s.Run(context.Background(), wednesday)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	marked, err = s.Run(context.Background(), wednesday)
	require.NoError(t, err)
	assert.Equal(t, 0, marked)
}

func TestSweeperCollectsUpdateFailures(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMockTaskStore()
	a := sweepTask(domain.TaskStatusTodo, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), 0)
	b := sweepTask(domain.TaskStatusTodo, time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC), 1)
	a.Title = "doomed"
	tasks.Add(a, b)

	tasks.UpdateFn = func(ctx context.Context, task *domain.Task) error {
		if task.Title == "doomed" {
			return errors.New("write failed")
		}
		tasks.Tasks[task.ID] = task
		return nil
	}

	s := scheduler.NewSweeper(tasks, discardLogger())
	marked, err := s.Run(context.Background(), wednesday)

	assert.Error(t, err)
	assert.Equal(t, 1, marked)
	assert.Equal(t, domain.TaskStatusOverdue, b.Status)
}
