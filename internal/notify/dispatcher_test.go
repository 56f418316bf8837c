package notify_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/mocks"
	"github.com/taskhive/taskhive-api/internal/notify"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestDispatcherSendsQueuedNotifications(t *testing.T) {
	t.Parallel()

	mailer := &mocks.MockMailer{}
	sent := make(chan mocks.SentMail, 1)
	mailer.SendFn = func(ctx context.Context, to, subject, body string) error {
		sent <- mocks.SentMail{To: to, Subject: subject, Body: body}
		return nil
	}

	d := notify.NewDispatcher(mailer, notify.DispatcherConfig{WorkerCount: 1, QueueSize: 4}, discardLogger())
	d.Start()
	defer d.Stop()

	user := testUser()
	task := testTask(user, domain.PriorityHigh, nil)
	require.NoError(t, d.Dispatch(notify.NewTaskCreated(user, task)))

	select {
	case mail := <-sent:
		assert.Equal(t, "arun@example.com", mail.To)
		assert.Equal(t, "New Task Assigned: Quarterly report", mail.Subject)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never sent")
	}
}

func TestDispatchReturnsErrQueueFullWhenSaturated(t *testing.T) {
	t.Parallel()

	// Never started, so nothing drains the queue.
	d := notify.NewDispatcher(&mocks.MockMailer{}, notify.DispatcherConfig{WorkerCount: 1, QueueSize: 1}, discardLogger())

	user := testUser()
	task := testTask(user, domain.PriorityLow, nil)

	assert.NoError(t, d.Dispatch(notify.NewTaskCreated(user, task)))
	assert.ErrorIs(t, d.Dispatch(notify.NewTaskCreated(user, task)), notify.ErrQueueFull)
}

func TestSendFailureDoesNotPropagate(t *testing.T) {
	t.Parallel()

	attempted := make(chan struct{}, 1)
	mailer := &mocks.MockMailer{
		SendFn: func(ctx context.Context, to, subject, body string) error {
			attempted <- struct{}{}
			return errors.New("smtp: connection refused")
		},
	}

	d := notify.NewDispatcher(mailer, notify.DispatcherConfig{WorkerCount: 1, QueueSize: 4}, discardLogger())
	d.Start()
	defer d.Stop()

	user := testUser()
	task := testTask(user, domain.PriorityLow, nil)

	// Dispatch succeeds even though delivery will fail.
	assert.NoError(t, d.Dispatch(notify.NewTaskCreated(user, task)))

	select {
	case <-attempted:
	case <-time.After(2 * time.Second):
		t.Fatal("send was never attempted")
	}
}

func TestStopWaitsForInFlightSends(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	finished := false

	started := make(chan struct{})
	mailer := &mocks.MockMailer{
		SendFn: func(ctx context.Context, to, subject, body string) error {
			close(started)
			time.Sleep(50 * time.Millisecond)
			mu.Lock()
			finished = true
			mu.Unlock()
			return nil
		},
	}

	d := notify.NewDispatcher(mailer, notify.DispatcherConfig{WorkerCount: 1, QueueSize: 4}, discardLogger())
	d.Start()

	user := testUser()
	require.NoError(t, d.Dispatch(notify.NewTaskCreated(user, testTask(user, domain.PriorityLow, nil))))

	<-started
	d.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, finished, "Stop returned before the in-flight send completed")
}
