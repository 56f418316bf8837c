package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusOverdue    TaskStatus = "overdue"
)

// TaskPriority represents the urgency level of a task.
type TaskPriority string

// Possible task priority values
const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

// RecurrenceType determines how often a template fires.
type RecurrenceType string

// Possible recurrence type values
const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID     = errors.New("task ID cannot be empty")
	ErrEmptyTaskUserID = errors.New("task user ID cannot be empty")
	ErrEmptyTaskTitle  = errors.New("task title cannot be empty")
)

// Task represents a concrete work item assigned to a user.
// Tasks are created directly by users or generated from recurring
// templates by the scheduler.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`

	// DueDate is a calendar date (midnight UTC); nil means no deadline.
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Category    string     `json:"category,omitempty"`

	IsRecurring    bool           `json:"is_recurring"`
	RecurrenceType RecurrenceType `json:"recurrence_type"`

	// TemplateID records which template generated this task, if any.
	// It is informational lineage only: deleting the template does not
	// delete its tasks.
	TemplateID *uuid.UUID `json:"template_id,omitempty"`

	// ReminderSent is a one-shot flag: once a reminder has gone out for
	// this task it is never reset.
	ReminderSent bool `json:"reminder_sent"`
}

// NewTask creates a new manually-authored Task in the todo state.
// Returns an error if validation fails.
func NewTask(
	userID uuid.UUID,
	title, description string,
	priority TaskPriority,
	dueDate *time.Time,
	category string,
) (*Task, error) {
	if priority == "" {
		priority = PriorityMedium
	}

	task := &Task{
		ID:             uuid.New(),
		UserID:         userID,
		Title:          title,
		Description:    description,
		Status:         TaskStatusTodo,
		Priority:       priority,
		DueDate:        dueDate,
		CreatedAt:      time.Now().UTC(),
		Category:       category,
		IsRecurring:    false,
		RecurrenceType: RecurrenceNone,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidStatus
	}

	if !IsValidTaskPriority(t.Priority) {
		return ErrInvalidPriority
	}

	if !IsValidRecurrenceType(t.RecurrenceType) {
		return ErrInvalidRecurrence
	}

	return nil
}

// IsOverdue reports whether the task's due date has passed as of the
// given reference date. Tasks without a due date and completed tasks
// are never overdue.
func (t *Task) IsOverdue(asOf time.Time) bool {
	if t.DueDate == nil || t.Status == TaskStatusCompleted {
		return false
	}
	return DateOf(*t.DueDate).Before(DateOf(asOf))
}

// DaysUntilDeadline returns the number of calendar days between the
// reference date and the due date. The count is negative for overdue
// tasks. The second return value is false when the task has no due date.
func (t *Task) DaysUntilDeadline(asOf time.Time) (int, bool) {
	if t.DueDate == nil {
		return 0, false
	}
	days := int(DateOf(*t.DueDate).Sub(DateOf(asOf)).Hours() / 24)
	return days, true
}

// ShouldSendReminder decides whether a reminder should fire for this
// task as of the given reference date. Critical tasks remind within two
// days of the deadline, everything else within one day. Overdue tasks
// keep qualifying (negative day counts satisfy the threshold), but the
// sticky ReminderSent flag limits delivery to once per task.
func (t *Task) ShouldSendReminder(asOf time.Time) bool {
	if t.ReminderSent || t.Status == TaskStatusCompleted || t.DueDate == nil {
		return false
	}

	daysUntil, _ := t.DaysUntilDeadline(asOf)

	return (t.Priority == PriorityCritical && daysUntil <= 2) ||
		(t.Priority != PriorityCritical && daysUntil <= 1)
}

// MarkCompleted transitions the task to the completed state and records
// the completion timestamp. Completing an overdue task is allowed.
func (t *Task) MarkCompleted(now time.Time) {
	completedAt := now.UTC()
	t.Status = TaskStatusCompleted
	t.CompletedAt = &completedAt
}

// Rank returns the priority's sort weight; higher values sort first in
// pending-task listings.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// IsValidTaskStatus checks if the given status is a valid TaskStatus.
func IsValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusOverdue:
		return true
	default:
		return false
	}
}

// IsValidTaskPriority checks if the given priority is a valid TaskPriority.
func IsValidTaskPriority(priority TaskPriority) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// IsValidRecurrenceType checks if the given type is a valid RecurrenceType.
func IsValidRecurrenceType(rt RecurrenceType) bool {
	switch rt {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	default:
		return false
	}
}

// DateOf truncates a timestamp to its calendar date at midnight UTC.
// All day-granular comparisons in the domain go through this so that
// time-of-day never influences firing, dedup, or overdue decisions.
func DateOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same calendar day (UTC).
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}
