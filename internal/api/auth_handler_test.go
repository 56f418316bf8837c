package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service"
	"github.com/taskhive/taskhive-api/internal/service/auth"
	"github.com/taskhive/taskhive-api/internal/store"
)

// stubUserService implements service.UserService with per-method hooks so
// handler tests can steer outcomes without a database.
type stubUserService struct {
	RegisterFn func(ctx context.Context, user *domain.User) error
	LoginFn    func(ctx context.Context, email, password string) (*domain.User, *service.TokenPair, error)
	RefreshFn  func(ctx context.Context, refreshToken string) (*service.TokenPair, error)
}

func (s *stubUserService) Register(ctx context.Context, user *domain.User) error {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, user)
	}
	return nil
}

func (s *stubUserService) Login(
	ctx context.Context,
	email, password string,
) (*domain.User, *service.TokenPair, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, email, password)
	}
	return nil, nil, service.ErrInvalidCredentials
}

func (s *stubUserService) Refresh(
	ctx context.Context,
	refreshToken string,
) (*service.TokenPair, error) {
	if s.RefreshFn != nil {
		return s.RefreshFn(ctx, refreshToken)
	}
	return nil, auth.ErrInvalidRefreshToken
}

func (s *stubUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return nil, store.ErrUserNotFound
}

func (s *stubUserService) UpdateUser(ctx context.Context, user *domain.User) error {
	return nil
}

func (s *stubUserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func postJSON(t *testing.T, path string, payload map[string]interface{}) *http.Request {
	t.Helper()
	payloadBytes, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegister(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&stubUserService{}, nil)

	tests := []struct {
		name       string
		payload    map[string]interface{}
		wantStatus int
	}{
		{
			name: "valid registration",
			payload: map[string]interface{}{
				"name":     "Meera Pillai",
				"email":    "meera@example.com",
				"password": "password1234567",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "invalid email",
			payload: map[string]interface{}{
				"name":     "Meera Pillai",
				"email":    "invalid-email",
				"password": "password1234567",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "password too short",
			payload: map[string]interface{}{
				"name":     "Meera Pillai",
				"email":    "meera@example.com",
				"password": "short",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing name",
			payload: map[string]interface{}{
				"email":    "meera@example.com",
				"password": "password1234567",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.Register(recorder, postJSON(t, "/api/auth/register", tt.payload))

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusCreated {
				var resp UserResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.NotEqual(t, uuid.Nil, resp.ID)
				assert.Equal(t, "meera@example.com", resp.Email)
				assert.True(t, resp.DigestEnabled)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := &stubUserService{
		RegisterFn: func(ctx context.Context, user *domain.User) error {
			return fmt.Errorf("registering user: %w", store.ErrEmailExists)
		},
	}
	handler := NewAuthHandler(svc, nil)

	recorder := httptest.NewRecorder()
	handler.Register(recorder, postJSON(t, "/api/auth/register", map[string]interface{}{
		"name":     "Meera Pillai",
		"email":    "meera@example.com",
		"password": "password1234567",
	}))

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &stubUserService{
		LoginFn: func(ctx context.Context, email, password string) (*domain.User, *service.TokenPair, error) {
			if email == "meera@example.com" && password == "password1234567" {
				return &domain.User{ID: userID, Email: email},
					&service.TokenPair{AccessToken: "test-token", RefreshToken: "test-refresh"},
					nil
			}
			return nil, nil, service.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(svc, nil)

	tests := []struct {
		name       string
		payload    map[string]interface{}
		wantStatus int
		wantToken  bool
	}{
		{
			name: "valid login",
			payload: map[string]interface{}{
				"email":    "meera@example.com",
				"password": "password1234567",
			},
			wantStatus: http.StatusOK,
			wantToken:  true,
		},
		{
			name: "wrong password",
			payload: map[string]interface{}{
				"email":    "meera@example.com",
				"password": "wrongpassword",
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown email",
			payload: map[string]interface{}{
				"email":    "nobody@example.com",
				"password": "password1234567",
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "missing password",
			payload: map[string]interface{}{
				"email": "meera@example.com",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.Login(recorder, postJSON(t, "/api/auth/login", tt.payload))

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantToken {
				var resp AuthResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, userID, resp.UserID)
				assert.Equal(t, "test-token", resp.AccessToken)
				assert.Equal(t, "test-refresh", resp.RefreshToken)
			}
		})
	}
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	svc := &stubUserService{
		RefreshFn: func(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
			if refreshToken == "good-refresh" {
				return &service.TokenPair{AccessToken: "new-token", RefreshToken: "new-refresh"}, nil
			}
			return nil, auth.ErrInvalidRefreshToken
		},
	}
	handler := NewAuthHandler(svc, nil)

	t.Run("valid refresh token", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.RefreshToken(recorder, postJSON(t, "/api/auth/refresh", map[string]interface{}{
			"refresh_token": "good-refresh",
		}))

		require.Equal(t, http.StatusOK, recorder.Code)
		var resp RefreshTokenResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "new-token", resp.AccessToken)
		assert.Equal(t, "new-refresh", resp.RefreshToken)
	})

	t.Run("invalid refresh token", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.RefreshToken(recorder, postJSON(t, "/api/auth/refresh", map[string]interface{}{
			"refresh_token": "bad-refresh",
		}))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("missing refresh token", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.RefreshToken(recorder, postJSON(t, "/api/auth/refresh", map[string]interface{}{}))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
