// Package common defines shared constants and sentinel errors used across
// filesafe components. Callers should use errors.Is to match these values;
// extra context is attached with fmt.Errorf("%w: ...").
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Request/validation errors, always reported to the caller.
	ErrInvalidRequest = errors.New("invalid request")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")

	// Everything else: driver failures, I/O, unexpected states.
	ErrInternal = errors.New("internal error")
)
