package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/store"
)

// TemplateService provides recurring template CRUD. Ownership checks
// mirror TaskService.
type TemplateService interface {
	// Create validates and persists a new template for the user.
	Create(ctx context.Context, userID uuid.UUID, tmpl *domain.TaskTemplate) error

	// Get retrieves one of the user's templates.
	Get(ctx context.Context, userID, templateID uuid.UUID) (*domain.TaskTemplate, error)

	// List retrieves all of the user's templates.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.TaskTemplate, error)

	// Update saves edits to the template's definition fields.
	Update(ctx context.Context, userID uuid.UUID, tmpl *domain.TaskTemplate) error

	// ToggleActive flips the template's active flag and returns the new
	// state. Inactive templates are excluded from generation.
	ToggleActive(ctx context.Context, userID, templateID uuid.UUID) (*domain.TaskTemplate, error)

	// Delete removes the template. Tasks already generated from it keep
	// existing; only their lineage pointer is cleared.
	Delete(ctx context.Context, userID, templateID uuid.UUID) error
}

// TemplateServiceImpl implements the TemplateService interface
type TemplateServiceImpl struct {
	templates store.TemplateStore
	logger    *slog.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(templates store.TemplateStore, logger *slog.Logger) TemplateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TemplateServiceImpl{
		templates: templates,
		logger:    logger.With("component", "template_service"),
	}
}

// Create persists a new template after domain validation.
func (s *TemplateServiceImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	tmpl *domain.TaskTemplate,
) error {
	tmpl.UserID = userID
	if err := tmpl.Validate(); err != nil {
		return err
	}

	if err := s.templates.Create(ctx, tmpl); err != nil {
		s.logger.Error("failed to create template",
			"error", err,
			"user_id", userID)
		return fmt.Errorf("creating template: %w", err)
	}

	s.logger.Info("template created",
		"template_id", tmpl.ID,
		"user_id", userID,
		"recurrence", tmpl.Recurrence)
	return nil
}

// Get retrieves one template, enforcing ownership.
func (s *TemplateServiceImpl) Get(
	ctx context.Context,
	userID, templateID uuid.UUID,
) (*domain.TaskTemplate, error) {
	return s.owned(ctx, userID, templateID)
}

// List retrieves all of the user's templates.
func (s *TemplateServiceImpl) List(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.TaskTemplate, error) {
	return s.templates.ListByUser(ctx, userID)
}

// Update saves edits to the template definition. The generation marker
// and active flag are not editable here; ToggleActive owns the latter.
func (s *TemplateServiceImpl) Update(
	ctx context.Context,
	userID uuid.UUID,
	tmpl *domain.TaskTemplate,
) error {
	existing, err := s.owned(ctx, userID, tmpl.ID)
	if err != nil {
		return err
	}

	existing.Title = tmpl.Title
	existing.Description = tmpl.Description
	existing.Priority = tmpl.Priority
	existing.Recurrence = tmpl.Recurrence
	existing.DayOfWeek = tmpl.DayOfWeek
	existing.DayOfMonth = tmpl.DayOfMonth
	existing.DaysToComplete = tmpl.DaysToComplete
	existing.Category = tmpl.Category

	if err := existing.Validate(); err != nil {
		return err
	}

	if err := s.templates.Update(ctx, existing); err != nil {
		s.logger.Error("failed to update template",
			"error", err,
			"template_id", tmpl.ID)
		return fmt.Errorf("updating template: %w", err)
	}

	*tmpl = *existing
	s.logger.Info("template updated", "template_id", tmpl.ID)
	return nil
}

// ToggleActive flips the active flag.
func (s *TemplateServiceImpl) ToggleActive(
	ctx context.Context,
	userID, templateID uuid.UUID,
) (*domain.TaskTemplate, error) {
	tmpl, err := s.owned(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}

	tmpl.IsActive = !tmpl.IsActive
	if err := s.templates.Update(ctx, tmpl); err != nil {
		s.logger.Error("failed to toggle template",
			"error", err,
			"template_id", templateID)
		return nil, fmt.Errorf("toggling template: %w", err)
	}

	s.logger.Info("template toggled",
		"template_id", templateID,
		"is_active", tmpl.IsActive)
	return tmpl, nil
}

// Delete removes the template.
func (s *TemplateServiceImpl) Delete(ctx context.Context, userID, templateID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, templateID); err != nil {
		return err
	}

	if err := s.templates.Delete(ctx, templateID); err != nil {
		s.logger.Error("failed to delete template",
			"error", err,
			"template_id", templateID)
		return fmt.Errorf("deleting template: %w", err)
	}

	s.logger.Info("template deleted", "template_id", templateID)
	return nil
}

func (s *TemplateServiceImpl) owned(
	ctx context.Context,
	userID, templateID uuid.UUID,
) (*domain.TaskTemplate, error) {
	tmpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		if !errors.Is(err, store.ErrTemplateNotFound) {
			s.logger.Error("failed to retrieve template",
				"error", err,
				"template_id", templateID)
		}
		return nil, fmt.Errorf("retrieving template: %w", err)
	}
	if tmpl.UserID != userID {
		return nil, ErrNotOwned
	}
	return tmpl, nil
}
