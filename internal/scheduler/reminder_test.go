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
	"github.com/taskhive/taskhive-api/internal/notify"
	"github.com/taskhive/taskhive-api/internal/scheduler"
)

type reminderFixture struct {
	tasks  *mocks.MockTaskStore
	users  *mocks.MockUserStore
	sender *mocks.MockSender
	job    *scheduler.ReminderJob
	user   *domain.User
}

func newReminderFixture(t *testing.T) *reminderFixture {
	t.Helper()

	user := &domain.User{
		ID:    uuid.New(),
		Name:  "Dev Kapoor",
		Email: "dev@example.com",
	}

	f := &reminderFixture{
		tasks:  mocks.NewMockTaskStore(),
		users:  mocks.NewMockUserStore(),
		sender: &mocks.MockSender{},
		user:   user,
	}
	f.users.Users[user.Email] = user
	f.job = scheduler.NewReminderJob(f.tasks, f.users, f.sender, discardLogger())
	return f
}

func (f *reminderFixture) task(priority domain.TaskPriority, due time.Time, seq int) *domain.Task {
	task := &domain.Task{
		ID:        uuid.New(),
		UserID:    f.user.ID,
		Title:     "deliverable",
		Status:    domain.TaskStatusTodo,
		Priority:  priority,
		DueDate:   datePtr(due),
		CreatedAt: time.Date(2024, time.January, 1, 0, 0, seq, 0, time.UTC),
	}
	f.tasks.Add(task)
	return task
}

func TestReminderJob_Windows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		priority domain.TaskPriority
		due      time.Time
		want     bool
	}{
		{"critical two days out", domain.PriorityCritical, wednesday.AddDate(0, 0, 2), true},
		{"critical three days out", domain.PriorityCritical, wednesday.AddDate(0, 0, 3), false},
		{"high one day out", domain.PriorityHigh, wednesday.AddDate(0, 0, 1), true},
		{"high two days out", domain.PriorityHigh, wednesday.AddDate(0, 0, 2), false},
		{"medium due today", domain.PriorityMedium, wednesday, true},
		{"low already overdue", domain.PriorityLow, wednesday.AddDate(0, 0, -2), true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newReminderFixture(t)
			task := f.task(tt.priority, tt.due, 0)

			sent, err := f.job.Run(context.Background(), wednesday)
			require.NoError(t, err)

			if tt.want {
				assert.Equal(t, 1, sent)
				assert.True(t, task.ReminderSent)
				require.Len(t, f.sender.Dispatched(), 1)
				assert.Equal(t, notify.KindReminder, f.sender.Dispatched()[0].Kind)
			} else {
				assert.Equal(t, 0, sent)
				assert.False(t, task.ReminderSent)
				assert.Empty(t, f.sender.Dispatched())
			}
		})
	}
}

func TestReminderJob_SendsAtMostOncePerTask(t *testing.T) {
	t.Parallel()

	f := newReminderFixture(t)
	f.task(domain.PriorityHigh, wednesday, 0)

	sent, err := f.job.Run(context.Background(), wednesday)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	// Two hours later the flag keeps the task out of the candidate set.
	sent, err = f.job.Run(context.Background(), wednesday.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Len(t, f.sender.Dispatched(), 1)
}

func TestReminderJob_FlagPersistsBeforeDispatch(t *testing.T) {
	t.Parallel()

	f := newReminderFixture(t)
	task := f.task(domain.PriorityHigh, wednesday, 0)

	// Dispatch failure (queue full) must not undo the flag: losing a
	// reminder is acceptable, repeating one is not.
	f.sender.Err = notify.ErrQueueFull

	sent, err := f.job.Run(context.Background(), wednesday)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.True(t, task.ReminderSent)
}

func TestReminderJob_PersistFailureSkipsDispatch(t *testing.T) {
	t.Parallel()

	f := newReminderFixture(t)
	f.task(domain.PriorityHigh, wednesday, 0)
	f.tasks.UpdateError = errors.New("write failed")

	sent, err := f.job.Run(context.Background(), wednesday)
	assert.Error(t, err)
	assert.Equal(t, 0, sent)
	assert.Empty(t, f.sender.Dispatched())
}
