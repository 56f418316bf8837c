package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for TaskTemplate
var (
	ErrEmptyTemplateID       = errors.New("template ID cannot be empty")
	ErrEmptyTemplateUserID   = errors.New("template user ID cannot be empty")
	ErrEmptyTemplateTitle    = errors.New("template title cannot be empty")
	ErrTemplateRecurrence    = errors.New("template recurrence must be daily, weekly or monthly")
	ErrInvalidDayOfWeek      = errors.New("day of week must be between 1 (Monday) and 7 (Sunday)")
	ErrInvalidDayOfMonth     = errors.New("day of month must be between 1 and 31")
	ErrInvalidDaysToComplete = errors.New("days to complete must be at least 1")
)

// TaskTemplate is a persisted recurrence rule that the generation engine
// expands into Task instances. Templates are soft-disabled through the
// IsActive flag and never deleted on disable.
type TaskTemplate struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Priority    TaskPriority `json:"priority"`

	// Recurrence must be daily, weekly or monthly; one-off tasks are
	// created directly, not through templates.
	Recurrence RecurrenceType `json:"recurrence_type"`

	// DayOfWeek selects the firing weekday for weekly templates,
	// ISO numbering: 1=Monday .. 7=Sunday. A weekly template without a
	// day of week never fires; that is tolerated, not an error.
	DayOfWeek *int `json:"day_of_week,omitempty"`

	// DayOfMonth selects the firing day for monthly templates (1-31).
	// Days 29-31 are silently skipped in months lacking them; there is
	// no end-of-month rollover or catch-up.
	DayOfMonth *int `json:"day_of_month,omitempty"`

	// DaysToComplete is the number of calendar days a generated task
	// gets before its due date. Minimum and default is 1.
	DaysToComplete int `json:"days_to_complete"`

	Category string `json:"category,omitempty"`
	IsActive bool   `json:"is_active"`

	// LastGenerated is the timestamp of the most recent task
	// instantiation from this template. Its date component is the
	// dedup key that limits generation to once per calendar day.
	LastGenerated *time.Time `json:"last_generated,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTaskTemplate creates a new active TaskTemplate.
// Returns an error if validation fails.
func NewTaskTemplate(
	userID uuid.UUID,
	title, description string,
	priority TaskPriority,
	recurrence RecurrenceType,
	dayOfWeek, dayOfMonth *int,
	daysToComplete int,
	category string,
) (*TaskTemplate, error) {
	if priority == "" {
		priority = PriorityMedium
	}
	if daysToComplete == 0 {
		daysToComplete = 1
	}

	tmpl := &TaskTemplate{
		ID:             uuid.New(),
		UserID:         userID,
		Title:          title,
		Description:    description,
		Priority:       priority,
		Recurrence:     recurrence,
		DayOfWeek:      dayOfWeek,
		DayOfMonth:     dayOfMonth,
		DaysToComplete: daysToComplete,
		Category:       category,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	if err := tmpl.Validate(); err != nil {
		return nil, err
	}

	return tmpl, nil
}

// Validate checks if the TaskTemplate has valid data.
// Returns an error if any field fails validation.
func (t *TaskTemplate) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTemplateID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTemplateUserID
	}

	if t.Title == "" {
		return ErrEmptyTemplateTitle
	}

	if !IsValidTaskPriority(t.Priority) {
		return ErrInvalidPriority
	}

	switch t.Recurrence {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
	default:
		return ErrTemplateRecurrence
	}

	if t.DayOfWeek != nil && (*t.DayOfWeek < 1 || *t.DayOfWeek > 7) {
		return ErrInvalidDayOfWeek
	}

	if t.DayOfMonth != nil && (*t.DayOfMonth < 1 || *t.DayOfMonth > 31) {
		return ErrInvalidDayOfMonth
	}

	if t.DaysToComplete < 1 {
		return ErrInvalidDaysToComplete
	}

	return nil
}

// FiresOn reports whether the given calendar day is a firing day for
// this template. The decision is purely about the recurrence rule; the
// dedup guard (GeneratedOn) and the active flag are checked separately
// by the generation engine.
func (t *TaskTemplate) FiresOn(today time.Time) bool {
	switch t.Recurrence {
	case RecurrenceDaily:
		return true

	case RecurrenceWeekly:
		if t.DayOfWeek == nil {
			return false
		}
		return *t.DayOfWeek == isoWeekday(today)

	case RecurrenceMonthly:
		if t.DayOfMonth == nil {
			return false
		}
		return *t.DayOfMonth == today.UTC().Day()

	default:
		return false
	}
}

// GeneratedOn reports whether this template already produced a task on
// the given calendar day.
func (t *TaskTemplate) GeneratedOn(today time.Time) bool {
	if t.LastGenerated == nil {
		return false
	}
	return SameDay(*t.LastGenerated, today)
}

// Instantiate creates a concrete Task from this template. The task is
// due DaysToComplete calendar days after now's date. The caller is
// responsible for persisting the task and updating LastGenerated.
func (t *TaskTemplate) Instantiate(now time.Time) *Task {
	dueDate := DateOf(now).AddDate(0, 0, t.DaysToComplete)
	templateID := t.ID

	return &Task{
		ID:             uuid.New(),
		UserID:         t.UserID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         TaskStatusTodo,
		Priority:       t.Priority,
		DueDate:        &dueDate,
		CreatedAt:      now.UTC(),
		Category:       t.Category,
		IsRecurring:    true,
		RecurrenceType: t.Recurrence,
		TemplateID:     &templateID,
	}
}

// isoWeekday converts Go's Sunday-based weekday to ISO numbering,
// 1=Monday .. 7=Sunday.
func isoWeekday(t time.Time) int {
	wd := int(t.UTC().Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
