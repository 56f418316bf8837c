package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/store"
)

// MockTemplateStore implements store.TemplateStore for testing
type MockTemplateStore struct {
	// Function fields for customizable behavior
	CreateFn                 func(ctx context.Context, tmpl *domain.TaskTemplate) error
	GetByIDFn                func(ctx context.Context, id uuid.UUID) (*domain.TaskTemplate, error)
	UpdateFn                 func(ctx context.Context, tmpl *domain.TaskTemplate) error
	DeleteFn                 func(ctx context.Context, id uuid.UUID) error
	ListActiveByRecurrenceFn func(ctx context.Context, kind domain.RecurrenceType) ([]*domain.TaskTemplate, error)

	// Data for default implementation
	Templates   map[uuid.UUID]*domain.TaskTemplate
	UpdateError error

	// Call tracking
	UpdateCalls int
}

// NewMockTemplateStore creates a new mock store with initialized defaults
func NewMockTemplateStore() *MockTemplateStore {
	return &MockTemplateStore{
		Templates: make(map[uuid.UUID]*domain.TaskTemplate),
	}
}

// Add seeds the mock with templates.
func (m *MockTemplateStore) Add(templates ...*domain.TaskTemplate) {
	for _, tmpl := range templates {
		m.Templates[tmpl.ID] = tmpl
	}
}

// Create implements the TemplateStore interface
func (m *MockTemplateStore) Create(ctx context.Context, tmpl *domain.TaskTemplate) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tmpl)
	}
	m.Templates[tmpl.ID] = tmpl
	return nil
}

// GetByID implements the TemplateStore interface
func (m *MockTemplateStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskTemplate, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	tmpl, exists := m.Templates[id]
	if !exists {
		return nil, store.ErrTemplateNotFound
	}
	return tmpl, nil
}

// Update implements the TemplateStore interface
func (m *MockTemplateStore) Update(ctx context.Context, tmpl *domain.TaskTemplate) error {
	m.UpdateCalls++
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, tmpl)
	}
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, exists := m.Templates[tmpl.ID]; !exists {
		return store.ErrTemplateNotFound
	}
	m.Templates[tmpl.ID] = tmpl
	return nil
}

// Delete implements the TemplateStore interface
func (m *MockTemplateStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if _, exists := m.Templates[id]; !exists {
		return store.ErrTemplateNotFound
	}
	delete(m.Templates, id)
	return nil
}

// ListByUser implements the TemplateStore interface
func (m *MockTemplateStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.TaskTemplate, error) {
	return m.filter(func(t *domain.TaskTemplate) bool {
		return t.UserID == userID
	}), nil
}

// ListActive implements the TemplateStore interface
func (m *MockTemplateStore) ListActive(ctx context.Context) ([]*domain.TaskTemplate, error) {
	return m.filter(func(t *domain.TaskTemplate) bool {
		return t.IsActive
	}), nil
}

// ListActiveByRecurrence implements the TemplateStore interface
func (m *MockTemplateStore) ListActiveByRecurrence(
	ctx context.Context,
	kind domain.RecurrenceType,
) ([]*domain.TaskTemplate, error) {
	if m.ListActiveByRecurrenceFn != nil {
		return m.ListActiveByRecurrenceFn(ctx, kind)
	}
	return m.filter(func(t *domain.TaskTemplate) bool {
		return t.IsActive && t.Recurrence == kind
	}), nil
}

// WithTx implements the TemplateStore interface. The mock ignores transactions.
func (m *MockTemplateStore) WithTx(tx *sql.Tx) store.TemplateStore {
	return m
}

func (m *MockTemplateStore) filter(keep func(*domain.TaskTemplate) bool) []*domain.TaskTemplate {
	var templates []*domain.TaskTemplate
	for _, tmpl := range m.Templates {
		if keep(tmpl) {
			templates = append(templates, tmpl)
		}
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].CreatedAt.Before(templates[j].CreatedAt)
	})
	return templates
}
