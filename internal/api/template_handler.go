package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service"
)

// TemplateHandler handles recurring task template HTTP requests.
type TemplateHandler struct {
	templateService service.TemplateService
	validator       *validator.Validate
	logger          *slog.Logger
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService service.TemplateService, logger *slog.Logger) *TemplateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TemplateHandler{
		templateService: templateService,
		validator:       validator.New(),
		logger:          logger.With(slog.String("component", "template_handler")),
	}
}

// Create handles POST /api/templates requests.
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req TemplateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	tmpl, err := domain.NewTaskTemplate(
		userID,
		req.Title,
		req.Description,
		domain.TaskPriority(req.Priority),
		domain.RecurrenceType(req.RecurrenceType),
		req.DayOfWeek,
		req.DayOfMonth,
		req.DaysToComplete,
		req.Category,
	)
	if err != nil {
		HandleAPIError(w, r, err, "Invalid template data")
		return
	}

	if err := h.templateService.Create(r.Context(), userID, tmpl); err != nil {
		HandleAPIError(w, r, err, "Failed to create template")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, tmpl)
}

// Get handles GET /api/templates/{id} requests.
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, templateID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	tmpl, err := h.templateService.Get(r.Context(), userID, templateID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get template")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tmpl)
}

// List handles GET /api/templates requests.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	templates, err := h.templateService.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list templates")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, templates)
}

// Update handles PUT /api/templates/{id} requests.
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, templateID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req TemplateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	daysToComplete := req.DaysToComplete
	if daysToComplete == 0 {
		daysToComplete = 1
	}
	priority := domain.TaskPriority(req.Priority)
	if priority == "" {
		priority = domain.PriorityMedium
	}

	tmpl := &domain.TaskTemplate{
		ID:             templateID,
		Title:          req.Title,
		Description:    req.Description,
		Priority:       priority,
		Recurrence:     domain.RecurrenceType(req.RecurrenceType),
		DayOfWeek:      req.DayOfWeek,
		DayOfMonth:     req.DayOfMonth,
		DaysToComplete: daysToComplete,
		Category:       req.Category,
	}

	if err := h.templateService.Update(r.Context(), userID, tmpl); err != nil {
		HandleAPIError(w, r, err, "Failed to update template")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tmpl)
}

// ToggleActive handles PUT /api/templates/{id}/toggle requests.
func (h *TemplateHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	userID, templateID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	tmpl, err := h.templateService.ToggleActive(r.Context(), userID, templateID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to toggle template")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tmpl)
}

// Delete handles DELETE /api/templates/{id} requests.
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, templateID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.templateService.Delete(r.Context(), userID, templateID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete template")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
