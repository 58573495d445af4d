// Package common defines shared constants and sentinel errors used across
// the todokeeper server, repositories and the admin CLI. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Credential errors.
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUnknownEmail   = errors.New("unknown email")
	ErrBadCredential  = errors.New("bad credential")

	// Ownership errors: the record exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")

	// Session errors (invalid, malformed or expired cookie).
	ErrInvalidToken   = errors.New("invalid token")
	ErrSessionExpired = errors.New("session expired")

	// Hash errors.
	ErrMalformedHash = errors.New("malformed hash")
)
