package mocks

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. The default
// implementation keeps tasks in a map and mirrors the query semantics of
// the postgres store closely enough for the scheduler and service tests.
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn             func(ctx context.Context, task *domain.Task) error
	GetByIDFn            func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	UpdateFn             func(ctx context.Context, task *domain.Task) error
	DeleteFn             func(ctx context.Context, id uuid.UUID) error
	ListByUserFn         func(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
	ListOverdueFn        func(ctx context.Context, asOf time.Time) ([]*domain.Task, error)
	ListNeedingReminderFn func(ctx context.Context) ([]*domain.Task, error)

	// Data for default implementation
	Tasks       map[uuid.UUID]*domain.Task
	CreateError error
	UpdateError error

	// Call tracking
	CreateCalls int
	UpdateCalls int
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Add seeds the mock with tasks.
func (m *MockTaskStore) Add(tasks ...*domain.Task) {
	for _, task := range tasks {
		m.Tasks[task.ID] = task
	}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	m.CreateCalls++
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Tasks[task.ID] = task
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	task, exists := m.Tasks[id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	m.UpdateCalls++
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, exists := m.Tasks[task.ID]; !exists {
		return store.ErrTaskNotFound
	}
	m.Tasks[task.ID] = task
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if _, exists := m.Tasks[id]; !exists {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

// ListByUser implements the TaskStore interface
func (m *MockTaskStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return m.filter(func(t *domain.Task) bool {
		return t.UserID == userID
	}), nil
}

// ListPendingByUser implements the TaskStore interface
func (m *MockTaskStore) ListPendingByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Task, error) {
	tasks := m.filter(func(t *domain.Task) bool {
		return t.UserID == userID && t.Status != domain.TaskStatusCompleted
	})
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Priority.Rank() != tasks[j].Priority.Rank() {
			return tasks[i].Priority.Rank() > tasks[j].Priority.Rank()
		}
		switch {
		case tasks[i].DueDate == nil:
			return false
		case tasks[j].DueDate == nil:
			return true
		default:
			return tasks[i].DueDate.Before(*tasks[j].DueDate)
		}
	})
	return tasks, nil
}

// ListByUserAndCategory implements the TaskStore interface
func (m *MockTaskStore) ListByUserAndCategory(
	ctx context.Context,
	userID uuid.UUID,
	category string,
) ([]*domain.Task, error) {
	return m.filter(func(t *domain.Task) bool {
		return t.UserID == userID && t.Category == category
	}), nil
}

// ListOverdue implements the TaskStore interface
func (m *MockTaskStore) ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.Task, error) {
	if m.ListOverdueFn != nil {
		return m.ListOverdueFn(ctx, asOf)
	}
	day := domain.DateOf(asOf)
	return m.filter(func(t *domain.Task) bool {
		return t.DueDate != nil &&
			t.Status != domain.TaskStatusCompleted &&
			domain.DateOf(*t.DueDate).Before(day)
	}), nil
}

// ListDueToday implements the TaskStore interface
func (m *MockTaskStore) ListDueToday(ctx context.Context, asOf time.Time) ([]*domain.Task, error) {
	return m.filter(func(t *domain.Task) bool {
		return t.DueDate != nil &&
			t.Status != domain.TaskStatusCompleted &&
			domain.SameDay(*t.DueDate, asOf)
	}), nil
}

// ListNeedingReminder implements the TaskStore interface
func (m *MockTaskStore) ListNeedingReminder(ctx context.Context) ([]*domain.Task, error) {
	if m.ListNeedingReminderFn != nil {
		return m.ListNeedingReminderFn(ctx)
	}
	return m.filter(func(t *domain.Task) bool {
		return !t.ReminderSent &&
			t.Status != domain.TaskStatusCompleted &&
			t.DueDate != nil
	}), nil
}

// ListByUserAndDueRange implements the TaskStore interface
func (m *MockTaskStore) ListByUserAndDueRange(
	ctx context.Context,
	userID uuid.UUID,
	start, end time.Time,
) ([]*domain.Task, error) {
	startDay := domain.DateOf(start)
	endDay := domain.DateOf(end)
	return m.filter(func(t *domain.Task) bool {
		if t.UserID != userID || t.DueDate == nil {
			return false
		}
		due := domain.DateOf(*t.DueDate)
		return !due.Before(startDay) && !due.After(endDay)
	}), nil
}

// CountByUserAndStatus implements the TaskStore interface
func (m *MockTaskStore) CountByUserAndStatus(
	ctx context.Context,
	userID uuid.UUID,
	status domain.TaskStatus,
) (int, error) {
	return len(m.filter(func(t *domain.Task) bool {
		return t.UserID == userID && t.Status == status
	})), nil
}

// WithTx implements the TaskStore interface. The mock ignores transactions.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

func (m *MockTaskStore) filter(keep func(*domain.Task) bool) []*domain.Task {
	var tasks []*domain.Task
	for _, task := range m.Tasks {
		if keep(task) {
			tasks = append(tasks, task)
		}
	}
	// Map iteration order is random; keep results deterministic for tests.
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks
}
