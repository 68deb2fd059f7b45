// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Auth errors. ErrAuthFailed covers both "no such user" and "wrong
	// password" so the login endpoint cannot be used for username
	// enumeration. ErrInvalidOrExpiredToken covers missing, expired,
	// revoked and reused refresh tokens as one outward signal.
	ErrAuthFailed            = errors.New("incorrect username or password")
	ErrAccountInactive       = errors.New("user account is inactive")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired refresh token")
	ErrUnauthenticated       = errors.New("could not validate credentials")
	ErrForbidden             = errors.New("insufficient privileges")

	// Access-token errors (invalid signature, malformed structure and
	// elapsed expiry are deliberately collapsed into one signal).
	ErrInvalidToken = errors.New("invalid token")
)
