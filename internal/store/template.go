package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// TemplateStore defines the interface for task template persistence.
type TemplateStore interface {
	// Create saves a new task template to the store.
	// Returns validation errors from the domain TaskTemplate if data is invalid.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, tmpl *domain.TaskTemplate) error

	// GetByID retrieves a template by its unique ID.
	// Returns ErrTemplateNotFound if the template does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskTemplate, error)

	// Update saves changes to an existing template, including the
	// LastGenerated watermark written by the generation engine.
	// Returns ErrTemplateNotFound if the template does not exist.
	Update(ctx context.Context, tmpl *domain.TaskTemplate) error

	// Delete removes a template from the store by its ID. Tasks generated
	// from the template keep their lineage reference nulled out, they are
	// never cascade-deleted.
	// Returns ErrTemplateNotFound if the template does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByUser retrieves all templates owned by the given user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TaskTemplate, error)

	// ListActive retrieves all active templates regardless of recurrence kind.
	ListActive(ctx context.Context) ([]*domain.TaskTemplate, error)

	// ListActiveByRecurrence retrieves all active templates with the given
	// recurrence kind, in stable storage order.
	ListActiveByRecurrence(ctx context.Context, kind domain.RecurrenceType) ([]*domain.TaskTemplate, error)

	// WithTx returns a new TemplateStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TemplateStore
}
