// Package common defines sentinel errors shared by the repository, service
// and transport layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorValidation = errors.New("validation error")

	// Credential store errors. Unknown email and wrong password share
	// ErrInvalidCredentials so callers cannot tell them apart.
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Auth errors (missing, malformed, tampered or expired token).
	ErrInvalidToken = errors.New("invalid token")
)
