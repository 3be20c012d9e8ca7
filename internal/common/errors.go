// Package common defines shared constants and sentinel errors used across
// the storage, service and transport layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal         = errors.New("internal error")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrorMalformedRequest = errors.New("malformed request")

	// Validation errors.
	ErrValidation = errors.New("validation failed")

	// Auth errors.
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrMissingAuthHeader    = errors.New("missing or invalid authorization header")

	// Token errors.
	ErrMalformedToken = errors.New("malformed token")
	ErrInvalidToken   = errors.New("invalid token")

	// Task errors.
	ErrTodoNotFound = errors.New("todo not found")
)
