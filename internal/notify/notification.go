// Package notify implements asynchronous email notifications. Callers
// build a Notification and hand it to the Dispatcher, which renders and
// sends it on a background worker pool. Delivery is fire-and-forget:
// send failures are logged, never returned to the caller.
package notify

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/digest"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// Kind identifies the type of notification, which determines how the
// email is rendered.
type Kind string

const (
	KindTaskCreated   Kind = "task_created"
	KindStatusChanged Kind = "status_changed"
	KindReminder      Kind = "reminder"
	KindDigest        Kind = "digest"
)

// Notification is a single queued email. Which payload fields are set
// depends on Kind: task notifications carry Task, digest notifications
// carry Digest.
type Notification struct {
	ID        uuid.UUID
	Kind      Kind
	Recipient string
	UserName  string

	Task   *domain.Task
	Digest *digest.Digest

	// Today anchors date-relative wording (reminder urgency, digest
	// subject line) to the day the notification was produced.
	Today time.Time
}

// NewTaskCreated builds a notification announcing a newly assigned task.
func NewTaskCreated(user *domain.User, task *domain.Task) Notification {
	return Notification{
		ID:        uuid.New(),
		Kind:      KindTaskCreated,
		Recipient: user.Email,
		UserName:  user.Name,
		Task:      task,
	}
}

// NewStatusChanged builds a notification for a task status transition.
// The task carries its new status.
func NewStatusChanged(user *domain.User, task *domain.Task) Notification {
	return Notification{
		ID:        uuid.New(),
		Kind:      KindStatusChanged,
		Recipient: user.Email,
		UserName:  user.Name,
		Task:      task,
	}
}

// NewReminder builds a deadline reminder for a task due soon.
func NewReminder(user *domain.User, task *domain.Task, today time.Time) Notification {
	return Notification{
		ID:        uuid.New(),
		Kind:      KindReminder,
		Recipient: user.Email,
		UserName:  user.Name,
		Task:      task,
		Today:     today,
	}
}

// NewDigest builds a daily summary notification from a prepared digest.
func NewDigest(d *digest.Digest, today time.Time) Notification {
	return Notification{
		ID:        uuid.New(),
		Kind:      KindDigest,
		Recipient: d.UserEmail,
		UserName:  d.UserName,
		Digest:    d,
		Today:     today,
	}
}
