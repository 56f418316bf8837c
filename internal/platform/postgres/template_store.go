package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// templateColumns is the canonical select list for template queries.
const templateColumns = `id, user_id, title, description, priority, recurrence_type,
	day_of_week, day_of_month, days_to_complete, category, is_active,
	last_generated, created_at, updated_at`

// PostgresTemplateStore implements the store.TemplateStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTemplateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTemplateStore creates a new PostgreSQL implementation of the
// TemplateStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresTemplateStore(db store.DBTX, log *slog.Logger) *PostgresTemplateStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresTemplateStore{
		db:     db,
		logger: log.With(slog.String("component", "template_store")),
	}
}

// Ensure PostgresTemplateStore implements store.TemplateStore interface
var _ store.TemplateStore = (*PostgresTemplateStore)(nil)

// Create implements store.TemplateStore.Create
func (s *PostgresTemplateStore) Create(ctx context.Context, tmpl *domain.TaskTemplate) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := tmpl.Validate(); err != nil {
		log.Warn("template validation failed during create",
			slog.String("error", err.Error()),
			slog.String("template_id", tmpl.ID.String()))
		return err
	}

	query := `
		INSERT INTO task_templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		tmpl.ID,
		tmpl.UserID,
		tmpl.Title,
		tmpl.Description,
		tmpl.Priority,
		tmpl.Recurrence,
		tmpl.DayOfWeek,
		tmpl.DayOfMonth,
		tmpl.DaysToComplete,
		tmpl.Category,
		tmpl.IsActive,
		tmpl.LastGenerated,
		tmpl.CreatedAt,
		tmpl.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, tmpl.UserID)
		}
		log.Error("failed to create template",
			slog.String("error", err.Error()),
			slog.String("template_id", tmpl.ID.String()))
		return MapError(err)
	}

	log.Info("template created",
		slog.String("template_id", tmpl.ID.String()),
		slog.String("recurrence", string(tmpl.Recurrence)))
	return nil
}

// GetByID implements store.TemplateStore.GetByID
// Returns store.ErrTemplateNotFound if the template does not exist.
func (s *PostgresTemplateStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM task_templates WHERE id = $1`

	tmpl, err := scanTemplate(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTemplateNotFound
		}
		return nil, MapError(err)
	}
	return tmpl, nil
}

// Update implements store.TemplateStore.Update
// Returns store.ErrTemplateNotFound if the template does not exist.
func (s *PostgresTemplateStore) Update(ctx context.Context, tmpl *domain.TaskTemplate) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := tmpl.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE task_templates
		SET title = $1, description = $2, priority = $3, recurrence_type = $4,
			day_of_week = $5, day_of_month = $6, days_to_complete = $7,
			category = $8, is_active = $9, last_generated = $10, updated_at = $11
		WHERE id = $12
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		tmpl.Title,
		tmpl.Description,
		tmpl.Priority,
		tmpl.Recurrence,
		tmpl.DayOfWeek,
		tmpl.DayOfMonth,
		tmpl.DaysToComplete,
		tmpl.Category,
		tmpl.IsActive,
		tmpl.LastGenerated,
		tmpl.UpdatedAt,
		tmpl.ID,
	)

	if err != nil {
		log.Error("failed to update template",
			slog.String("error", err.Error()),
			slog.String("template_id", tmpl.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task template"); err != nil {
		return store.ErrTemplateNotFound
	}

	return nil
}

// Delete implements store.TemplateStore.Delete
// The tasks table references templates with ON DELETE SET NULL, so
// generated tasks survive with their lineage cleared.
func (s *PostgresTemplateStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM task_templates WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task template"); err != nil {
		return store.ErrTemplateNotFound
	}

	return nil
}

// ListByUser implements store.TemplateStore.ListByUser
func (s *PostgresTemplateStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TaskTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM task_templates WHERE user_id = $1 ORDER BY created_at ASC`
	return s.queryTemplates(ctx, query, userID)
}

// ListActive implements store.TemplateStore.ListActive
func (s *PostgresTemplateStore) ListActive(ctx context.Context) ([]*domain.TaskTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM task_templates WHERE is_active = TRUE ORDER BY created_at ASC`
	return s.queryTemplates(ctx, query)
}

// ListActiveByRecurrence implements store.TemplateStore.ListActiveByRecurrence
func (s *PostgresTemplateStore) ListActiveByRecurrence(
	ctx context.Context,
	kind domain.RecurrenceType,
) ([]*domain.TaskTemplate, error) {
	query := `
		SELECT ` + templateColumns + `
		FROM task_templates
		WHERE is_active = TRUE AND recurrence_type = $1
		ORDER BY created_at ASC
	`
	return s.queryTemplates(ctx, query, kind)
}

// WithTx implements store.TemplateStore.WithTx
func (s *PostgresTemplateStore) WithTx(tx *sql.Tx) store.TemplateStore {
	return &PostgresTemplateStore{
		db:     tx,
		logger: s.logger,
	}
}

// queryTemplates runs a multi-row template query and scans the results.
func (s *PostgresTemplateStore) queryTemplates(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.TaskTemplate, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query templates", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var templates []*domain.TaskTemplate
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		templates = append(templates, tmpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template rows: %w", err)
	}

	return templates, nil
}

// scanTemplate scans one template row in templateColumns order.
func scanTemplate(row rowScanner) (*domain.TaskTemplate, error) {
	var tmpl domain.TaskTemplate
	var priority, recurrence string

	err := row.Scan(
		&tmpl.ID,
		&tmpl.UserID,
		&tmpl.Title,
		&tmpl.Description,
		&priority,
		&recurrence,
		&tmpl.DayOfWeek,
		&tmpl.DayOfMonth,
		&tmpl.DaysToComplete,
		&tmpl.Category,
		&tmpl.IsActive,
		&tmpl.LastGenerated,
		&tmpl.CreatedAt,
		&tmpl.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tmpl.Priority = domain.TaskPriority(priority)
	tmpl.Recurrence = domain.RecurrenceType(recurrence)
	return &tmpl, nil
}
