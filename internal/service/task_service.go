package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/notify"
	"github.com/taskhive/taskhive-api/internal/store"
)

// TaskStats summarizes a user's tasks by status.
type TaskStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
}

// TaskService provides task CRUD and status operations. Every accessor
// checks that the task belongs to the calling user and returns ErrNotOwned
// otherwise.
type TaskService interface {
	// Create persists a new task for the user and dispatches a task
	// created notification.
	Create(ctx context.Context, userID uuid.UUID, task *domain.Task) error

	// Get retrieves one of the user's tasks.
	Get(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// List retrieves all of the user's tasks.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// ListPending retrieves the user's open tasks ordered by priority
	// and due date.
	ListPending(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// ListByCategory retrieves the user's tasks in one category.
	ListByCategory(ctx context.Context, userID uuid.UUID, category string) ([]*domain.Task, error)

	// ListOverdue retrieves the user's open tasks whose due date has
	// passed.
	ListOverdue(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// ListDueToday retrieves the user's open tasks due today.
	ListDueToday(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Categories retrieves the distinct category names the user has
	// tasks in, sorted alphabetically.
	Categories(ctx context.Context, userID uuid.UUID) ([]string, error)

	// UpdateStatus transitions a task's status, stamping completed_at on
	// completion, and dispatches a status changed notification.
	UpdateStatus(ctx context.Context, userID, taskID uuid.UUID, status domain.TaskStatus) (*domain.Task, error)

	// Update saves edits to title, description, priority, due date and
	// category.
	Update(ctx context.Context, userID uuid.UUID, task *domain.Task) error

	// Delete removes one of the user's tasks.
	Delete(ctx context.Context, userID, taskID uuid.UUID) error

	// Stats counts the user's tasks by status.
	Stats(ctx context.Context, userID uuid.UUID) (*TaskStats, error)
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	tasks  store.TaskStore
	users  store.UserStore
	sender notify.Sender
	logger *slog.Logger
	nowFn  func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(
	tasks store.TaskStore,
	users store.UserStore,
	sender notify.Sender,
	logger *slog.Logger,
) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		tasks:  tasks,
		users:  users,
		sender: sender,
		logger: logger.With("component", "task_service"),
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// Create persists the task and dispatches the task created notification.
func (s *TaskServiceImpl) Create(ctx context.Context, userID uuid.UUID, task *domain.Task) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to verify task owner",
			"error", err,
			"user_id", userID)
		return fmt.Errorf("verifying task owner: %w", err)
	}

	task.UserID = userID
	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"user_id", userID)
		return fmt.Errorf("creating task: %w", err)
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"user_id", userID,
		"title", task.Title)

	_ = s.sender.Dispatch(notify.NewTaskCreated(user, task))
	return nil
}

// Get retrieves one task, enforcing ownership.
func (s *TaskServiceImpl) Get(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	return s.owned(ctx, userID, taskID)
}

// List retrieves all of the user's tasks.
func (s *TaskServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	return s.tasks.ListByUser(ctx, userID)
}

// ListPending retrieves open tasks, highest priority first.
func (s *TaskServiceImpl) ListPending(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	return s.tasks.ListPendingByUser(ctx, userID)
}

// ListByCategory retrieves the user's tasks in the given category.
func (s *TaskServiceImpl) ListByCategory(
	ctx context.Context,
	userID uuid.UUID,
	category string,
) ([]*domain.Task, error) {
	return s.tasks.ListByUserAndCategory(ctx, userID, category)
}

// ListOverdue retrieves the user's open tasks with a due date in the past.
// The store query scans all users for the sweeper, so ownership is
// filtered here.
func (s *TaskServiceImpl) ListOverdue(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	all, err := s.tasks.ListOverdue(ctx, s.nowFn())
	if err != nil {
		return nil, err
	}
	owned := make([]*domain.Task, 0, len(all))
	for _, t := range all {
		if t.UserID == userID {
			owned = append(owned, t)
		}
	}
	return owned, nil
}

// ListDueToday retrieves the user's open tasks due on the current date.
func (s *TaskServiceImpl) ListDueToday(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	today := domain.DateOf(s.nowFn())
	tasks, err := s.tasks.ListByUserAndDueRange(ctx, userID, today, today)
	if err != nil {
		return nil, err
	}
	open := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != domain.TaskStatusCompleted {
			open = append(open, t)
		}
	}
	return open, nil
}

// Categories retrieves the distinct categories of the user's tasks.
func (s *TaskServiceImpl) Categories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, t := range tasks {
		if t.Category == "" {
			continue
		}
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		categories = append(categories, t.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// UpdateStatus transitions the task and notifies the owner. Completing a
// task stamps completed_at; moving it out of completed clears the stamp.
func (s *TaskServiceImpl) UpdateStatus(
	ctx context.Context,
	userID, taskID uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	if !domain.IsValidTaskStatus(status) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	task, err := s.owned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	switch status {
	case domain.TaskStatusCompleted:
		task.MarkCompleted(s.nowFn())
	default:
		task.Status = status
		task.CompletedAt = nil
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		s.logger.Error("failed to update task status",
			"error", err,
			"task_id", taskID)
		return nil, fmt.Errorf("updating task status: %w", err)
	}

	s.logger.Info("task status updated",
		"task_id", taskID,
		"status", status)

	if user, err := s.users.GetByID(ctx, userID); err == nil {
		_ = s.sender.Dispatch(notify.NewStatusChanged(user, task))
	} else {
		s.logger.Warn("skipping status notification, user lookup failed",
			"error", err,
			"task_id", taskID)
	}

	return task, nil
}

// Update saves edits to the task's editable fields.
func (s *TaskServiceImpl) Update(ctx context.Context, userID uuid.UUID, task *domain.Task) error {
	existing, err := s.owned(ctx, userID, task.ID)
	if err != nil {
		return err
	}

	existing.Title = task.Title
	existing.Description = task.Description
	existing.Priority = task.Priority
	existing.DueDate = task.DueDate
	existing.Category = task.Category

	if err := existing.Validate(); err != nil {
		return err
	}

	if err := s.tasks.Update(ctx, existing); err != nil {
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", task.ID)
		return fmt.Errorf("updating task: %w", err)
	}

	*task = *existing
	s.logger.Info("task updated", "task_id", task.ID)
	return nil
}

// Delete removes one of the user's tasks.
func (s *TaskServiceImpl) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, taskID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		s.logger.Error("failed to delete task",
			"error", err,
			"task_id", taskID)
		return fmt.Errorf("deleting task: %w", err)
	}

	s.logger.Info("task deleted", "task_id", taskID)
	return nil
}

// Stats counts the user's tasks by status. Pending is everything not
// completed, which includes overdue.
func (s *TaskServiceImpl) Stats(ctx context.Context, userID uuid.UUID) (*TaskStats, error) {
	all, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks for stats: %w", err)
	}

	stats := &TaskStats{Total: len(all)}
	for _, task := range all {
		switch task.Status {
		case domain.TaskStatusCompleted:
			stats.Completed++
		case domain.TaskStatusOverdue:
			stats.Overdue++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	return stats, nil
}

func (s *TaskServiceImpl) owned(
	ctx context.Context,
	userID, taskID uuid.UUID,
) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to retrieve task",
				"error", err,
				"task_id", taskID)
		}
		return nil, fmt.Errorf("retrieving task: %w", err)
	}
	if task.UserID != userID {
		return nil, ErrNotOwned
	}
	return task, nil
}
