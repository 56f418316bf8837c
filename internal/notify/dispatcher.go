package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrQueueFull is returned by Dispatch when the notification queue has no
// free slot. The notification is dropped; senders treat this as a logged
// degradation, not a failure of the triggering operation.
var ErrQueueFull = errors.New("notification queue is full")

// Sender is the queueing side of the dispatcher, as seen by the services
// and scheduler jobs that produce notifications.
type Sender interface {
	Dispatch(n Notification) error
}

// DispatcherConfig holds configuration for the notification dispatcher.
type DispatcherConfig struct {
	// WorkerCount determines how many concurrent workers send mail.
	WorkerCount int

	// QueueSize determines the buffer size of the in-memory queue.
	QueueSize int
}

// DefaultDispatcherConfig returns a DispatcherConfig with reasonable defaults.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// Dispatcher fans queued notifications out to a pool of sender workers.
// Dispatch never blocks and send failures never propagate to callers.
type Dispatcher struct {
	mailer     Mailer
	queue      chan Notification
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     DispatcherConfig
	logger     *slog.Logger
}

// NewDispatcher creates a Dispatcher. Call Start before dispatching.
func NewDispatcher(mailer Mailer, config DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultDispatcherConfig().WorkerCount
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultDispatcherConfig().QueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		mailer:     mailer,
		queue:      make(chan Notification, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With(slog.String("component", "notify_dispatcher")),
	}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start() {
	for i := 0; i < d.config.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// Stop shuts the dispatcher down. Queued notifications that no worker has
// picked up yet are dropped; in-flight sends finish.
func (d *Dispatcher) Stop() {
	d.cancelFunc()
	d.wg.Wait()
	close(d.queue)
}

// Dispatch enqueues a notification without blocking. Returns ErrQueueFull
// when the queue has no free slot.
func (d *Dispatcher) Dispatch(n Notification) error {
	select {
	case d.queue <- n:
		return nil
	default:
		d.logger.Error("dropping notification, queue is full",
			slog.String("notification_id", n.ID.String()),
			slog.String("kind", string(n.Kind)),
			slog.String("recipient", n.Recipient))
		return ErrQueueFull
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	d.logger.Debug("starting worker", slog.Int("worker_id", id))

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Debug("stopping worker", slog.Int("worker_id", id))
			return

		case n, ok := <-d.queue:
			if !ok {
				return
			}
			d.send(n, id)
		}
	}
}

// send renders and delivers one notification. Failures are logged and
// swallowed: notification delivery must never fail the operation that
// triggered it.
func (d *Dispatcher) send(n Notification, workerID int) {
	logger := d.logger.With(
		slog.String("notification_id", n.ID.String()),
		slog.String("kind", string(n.Kind)),
		slog.String("recipient", n.Recipient),
		slog.Int("worker_id", workerID),
	)

	subject, body, err := Render(n)
	if err != nil {
		logger.Error("failed to render notification", slog.Any("error", err))
		return
	}

	if err := d.mailer.Send(d.ctx, n.Recipient, subject, body); err != nil {
		logger.Error("failed to send notification", slog.Any("error", err))
		return
	}

	logger.Info("notification sent", slog.String("subject", subject))
}
