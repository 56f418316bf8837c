package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// Queries that depend on "today" take the reference time as an explicit
// parameter so that the scheduler jobs stay deterministic under test;
// implementations compare against the date component only.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update saves changes to an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByUser retrieves all tasks owned by the given user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// ListPendingByUser retrieves the user's non-completed tasks ordered
	// by priority (critical first) and then due date (soonest first,
	// tasks without a due date last).
	ListPendingByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// ListByUserAndCategory retrieves the user's tasks in the given category.
	ListByUserAndCategory(ctx context.Context, userID uuid.UUID, category string) ([]*domain.Task, error)

	// ListOverdue retrieves all tasks whose due date is strictly before
	// asOf's date and whose status is not completed.
	ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.Task, error)

	// ListDueToday retrieves all non-completed tasks due on asOf's date.
	ListDueToday(ctx context.Context, asOf time.Time) ([]*domain.Task, error)

	// ListNeedingReminder retrieves tasks that are candidates for a
	// reminder: reminder not yet sent, not completed, and a due date set.
	// The eligibility window itself is decided by the domain predicate.
	ListNeedingReminder(ctx context.Context) ([]*domain.Task, error)

	// ListByUserAndDueRange retrieves the user's tasks due between start
	// and end dates, both inclusive.
	ListByUserAndDueRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Task, error)

	// CountByUserAndStatus counts the user's tasks in the given status.
	CountByUserAndStatus(ctx context.Context, userID uuid.UUID, status domain.TaskStatus) (int, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
