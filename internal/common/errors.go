package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Quota errors.
	ErrQuotaExhausted = errors.New("daily quota exhausted")

	// Request validation errors.
	ErrInvalidArgument = errors.New("invalid argument")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Payment rail not configured on the backend.
	ErrPaymentsDisabled = errors.New("payments not configured")
)
