package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check these with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than
	// the one making the request. Maps to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrInvalidCredentials indicates a login attempt with a wrong email
	// or password. Maps to HTTP 401 Unauthorized without revealing which
	// of the two was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
