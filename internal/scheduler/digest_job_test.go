package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive-api/internal/digest"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/mocks"
	"github.com/taskhive/taskhive-api/internal/notify"
	"github.com/taskhive/taskhive-api/internal/scheduler"
)

func digestUser(email string, enabled bool) *domain.User {
	return &domain.User{
		ID:            uuid.New(),
		Name:          "Digest User",
		Email:         email,
		DigestEnabled: enabled,
	}
}

func TestDigestJob_SendsToEnabledUsersOnly(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore()
	sender := &mocks.MockSender{}

	enabled := digestUser("enabled@example.com", true)
	disabled := digestUser("disabled@example.com", false)
	users.Users[enabled.Email] = enabled
	users.Users[disabled.Email] = disabled

	agg := digest.NewAggregator(tasks, discardLogger())
	job := scheduler.NewDigestJob(users, agg, sender, discardLogger())

	sent, err := job.Run(context.Background(), wednesday)
	require.NoError(t, err)

	assert.Equal(t, 1, sent)
	dispatched := sender.DispatchedOf(notify.KindDigest)
	require.Len(t, dispatched, 1)
	assert.Equal(t, "enabled@example.com", dispatched[0].Recipient)
	require.NotNil(t, dispatched[0].Digest)
}

func TestDigestJob_OneFailingUserDoesNotStopTheJob(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore()
	sender := &mocks.MockSender{}

	broken := digestUser("broken@example.com", true)
	healthy := digestUser("healthy@example.com", true)
	users.Users[broken.Email] = broken
	users.Users[healthy.Email] = healthy

	tasks.ListByUserFn = func(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
		if userID == broken.ID {
			return nil, errors.New("query timeout")
		}
		return nil, nil
	}

	agg := digest.NewAggregator(tasks, discardLogger())
	job := scheduler.NewDigestJob(users, agg, sender, discardLogger())

	sent, err := job.Run(context.Background(), wednesday)
	assert.Error(t, err)
	assert.Equal(t, 1, sent)

	dispatched := sender.DispatchedOf(notify.KindDigest)
	require.Len(t, dispatched, 1)
	assert.Equal(t, "healthy@example.com", dispatched[0].Recipient)
}

func TestDigestJob_DigestCarriesTaskCounts(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore()
	sender := &mocks.MockSender{}

	user := digestUser("counts@example.com", true)
	users.Users[user.Email] = user

	due := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	tasks.Add(&domain.Task{
		ID:        uuid.New(),
		UserID:    user.ID,
		Title:     "open item",
		Status:    domain.TaskStatusTodo,
		Priority:  domain.PriorityMedium,
		DueDate:   &due,
		CreatedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})

	agg := digest.NewAggregator(tasks, discardLogger())
	job := scheduler.NewDigestJob(users, agg, sender, discardLogger())

	_, err := job.Run(context.Background(), wednesday)
	require.NoError(t, err)

	dispatched := sender.DispatchedOf(notify.KindDigest)
	require.Len(t, dispatched, 1)
	d := dispatched[0].Digest
	assert.Equal(t, 1, d.TotalTasks)
	assert.Equal(t, 1, d.PendingTasks)
	require.Len(t, d.Upcoming, 1)
}
