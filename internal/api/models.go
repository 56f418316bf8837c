package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// Common request/response structures

// dueDateLayout is the wire format for calendar dates in task payloads.
const dueDateLayout = "2006-01-02"

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=255"`
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required,min=12,max=72"`
	Department  string `json:"department"  validate:"max=255"`
	Designation string `json:"designation" validate:"max=255"`
	EmployeeID  string `json:"employee_id" validate:"max=64"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TaskRequest defines the payload for task create and update endpoints.
// DueDate is a calendar date string (YYYY-MM-DD); omit for no deadline.
type TaskRequest struct {
	Title       string  `json:"title"       validate:"required,min=1,max=255"`
	Description string  `json:"description" validate:"max=4000"`
	Priority    string  `json:"priority"    validate:"omitempty,oneof=low medium high critical"`
	DueDate     *string `json:"due_date"`
	Category    string  `json:"category"    validate:"max=255"`
}

// ParseDueDate converts the wire date string to a midnight-UTC time.
// Returns nil for an absent date.
func (r *TaskRequest) ParseDueDate() (*time.Time, error) {
	if r.DueDate == nil || *r.DueDate == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dueDateLayout, *r.DueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: due_date must be YYYY-MM-DD", domain.ErrValidation)
	}
	date := domain.DateOf(parsed)
	return &date, nil
}

// UpdateTaskStatusRequest defines the payload for the task status endpoint.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=todo in_progress completed overdue"`
}

// TemplateRequest defines the payload for template create and update
// endpoints.
type TemplateRequest struct {
	Title          string `json:"title"            validate:"required,min=1,max=255"`
	Description    string `json:"description"      validate:"max=4000"`
	Priority       string `json:"priority"         validate:"omitempty,oneof=low medium high critical"`
	RecurrenceType string `json:"recurrence_type"  validate:"required,oneof=daily weekly monthly"`
	DayOfWeek      *int   `json:"day_of_week"      validate:"omitempty,min=1,max=7"`
	DayOfMonth     *int   `json:"day_of_month"     validate:"omitempty,min=1,max=31"`
	DaysToComplete int    `json:"days_to_complete" validate:"omitempty,min=1"`
	Category       string `json:"category"         validate:"max=255"`
}

// UserResponse defines the user representation returned by the API.
// Password material never leaves the domain type, but the response is
// kept explicit so new sensitive fields need a deliberate decision here.
type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Department    string    `json:"department,omitempty"`
	Designation   string    `json:"designation,omitempty"`
	EmployeeID    string    `json:"employee_id,omitempty"`
	DigestEnabled bool      `json:"digest_enabled"`
	CreatedAt     time.Time `json:"created_at"`
}

// userToResponse converts a domain user to its API representation.
func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Department:    u.Department,
		Designation:   u.Designation,
		EmployeeID:    u.EmployeeID,
		DigestEnabled: u.DigestEnabled,
		CreatedAt:     u.CreatedAt,
	}
}
