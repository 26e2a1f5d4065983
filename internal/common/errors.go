// Package common defines shared constants and sentinel errors used across
// client and server layers of docvault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// Client-core taxonomy. Adapters never let raw storage or transport
	// errors escape; they wrap them so errors.Is matches one of these.
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	ErrPersistence       = errors.New("local persistence failed")
	ErrInvalidArgument   = errors.New("invalid argument")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
