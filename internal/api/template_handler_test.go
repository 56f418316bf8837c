package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"net/http"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/mocks"
	"github.com/taskhive/taskhive-api/internal/service"
)

type templateHandlerFixture struct {
	handler   *TemplateHandler
	templates *mocks.MockTemplateStore
	userID    uuid.UUID
}

func newTemplateHandlerFixture(t *testing.T) *templateHandlerFixture {
	t.Helper()

	templates := mocks.NewMockTemplateStore()
	svc := service.NewTemplateService(templates, discardLogger())
	return &templateHandlerFixture{
		handler:   NewTemplateHandler(svc, discardLogger()),
		templates: templates,
		userID:    uuid.New(),
	}
}

func weeklyTemplate(userID uuid.UUID) *domain.TaskTemplate {
	day := 3
	return &domain.TaskTemplate{
		ID:             uuid.New(),
		UserID:         userID,
		Title:          "Weekly status report",
		Priority:       domain.PriorityMedium,
		Recurrence:     domain.RecurrenceWeekly,
		DayOfWeek:      &day,
		DaysToComplete: 2,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
}

func TestTemplateHandlerCreate(t *testing.T) {
	t.Parallel()

	f := newTemplateHandlerFixture(t)

	recorder := httptest.NewRecorder()
	f.handler.Create(recorder,
		authedRequest(t, "POST", "/api/templates", f.userID, nil, map[string]interface{}{
			"title":            "Weekly status report",
			"recurrence_type":  "weekly",
			"day_of_week":      3,
			"days_to_complete": 2,
			"category":         "Reporting",
		}))

	require.Equal(t, http.StatusCreated, recorder.Code)

	var tmpl domain.TaskTemplate
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&tmpl))
	assert.Equal(t, f.userID, tmpl.UserID)
	assert.Equal(t, domain.RecurrenceWeekly, tmpl.Recurrence)
	assert.True(t, tmpl.IsActive)
	require.NotNil(t, tmpl.DayOfWeek)
	assert.Equal(t, 3, *tmpl.DayOfWeek)
	// Omitted priority falls back to medium
	assert.Equal(t, domain.PriorityMedium, tmpl.Priority)
}

func TestTemplateHandlerCreateValidation(t *testing.T) {
	t.Parallel()

	f := newTemplateHandlerFixture(t)

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{
			name:    "missing recurrence",
			payload: map[string]interface{}{"title": "Weekly status report"},
		},
		{
			name: "one-off recurrence rejected",
			payload: map[string]interface{}{
				"title":           "Weekly status report",
				"recurrence_type": "none",
			},
		},
		{
			name: "day of month out of range",
			payload: map[string]interface{}{
				"title":           "Monthly audit",
				"recurrence_type": "monthly",
				"day_of_month":    32,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			f.handler.Create(recorder,
				authedRequest(t, "POST", "/api/templates", f.userID, nil, tt.payload))
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestTemplateHandlerToggleActive(t *testing.T) {
	t.Parallel()

	f := newTemplateHandlerFixture(t)
	tmpl := weeklyTemplate(f.userID)
	f.templates.Add(tmpl)

	recorder := httptest.NewRecorder()
	f.handler.ToggleActive(recorder,
		authedRequest(t, "PUT", "/api/templates/"+tmpl.ID.String()+"/toggle", f.userID, &tmpl.ID, nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var got domain.TaskTemplate
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&got))
	assert.False(t, got.IsActive)
}

func TestTemplateHandlerOwnership(t *testing.T) {
	t.Parallel()

	f := newTemplateHandlerFixture(t)
	tmpl := weeklyTemplate(f.userID)
	f.templates.Add(tmpl)

	stranger := uuid.New()

	recorder := httptest.NewRecorder()
	f.handler.Get(recorder,
		authedRequest(t, "GET", "/api/templates/"+tmpl.ID.String(), stranger, &tmpl.ID, nil))
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = httptest.NewRecorder()
	f.handler.Delete(recorder,
		authedRequest(t, "DELETE", "/api/templates/"+tmpl.ID.String(), stranger, &tmpl.ID, nil))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestTemplateHandlerUpdate(t *testing.T) {
	t.Parallel()

	f := newTemplateHandlerFixture(t)
	tmpl := weeklyTemplate(f.userID)
	generated := time.Date(2024, 3, 13, 6, 0, 0, 0, time.UTC)
	tmpl.LastGenerated = &generated
	f.templates.Add(tmpl)

	recorder := httptest.NewRecorder()
	f.handler.Update(recorder,
		authedRequest(t, "PUT", "/api/templates/"+tmpl.ID.String(), f.userID, &tmpl.ID,
			map[string]interface{}{
				"title":           "Weekly status report v2",
				"recurrence_type": "weekly",
				"day_of_week":     5,
			}))

	require.Equal(t, http.StatusOK, recorder.Code)

	stored := f.templates.Templates[tmpl.ID]
	assert.Equal(t, "Weekly status report v2", stored.Title)
	require.NotNil(t, stored.DayOfWeek)
	assert.Equal(t, 5, *stored.DayOfWeek)
	// Editing the definition never resets the generation marker
	require.NotNil(t, stored.LastGenerated)
	assert.Equal(t, generated, *stored.LastGenerated)
}

func TestTemplateHandlerDelete(t *testing.T) {
	t.Parallel()

	f := newTemplateHandlerFixture(t)
	tmpl := weeklyTemplate(f.userID)
	f.templates.Add(tmpl)

	recorder := httptest.NewRecorder()
	f.handler.Delete(recorder,
		authedRequest(t, "DELETE", "/api/templates/"+tmpl.ID.String(), f.userID, &tmpl.ID, nil))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, f.templates.Templates)
}
