// Package common defines shared constants and sentinel errors used across
// the stores, services, and router layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Registration / login errors.
	ErrorAlreadyExists      = errors.New("already exists")
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Password-change errors.
	ErrorInvalidOldPassword = errors.New("invalid old password")
	ErrorEmptyPassword      = errors.New("empty password")

	// Validation errors (empty required field, mismatched repeat password).
	ErrorValidation = errors.New("validation error")

	// Export errors.
	ErrorNothingToExport = errors.New("nothing to export")

	// Auth errors (invalid or malformed session token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
