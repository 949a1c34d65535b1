package models

import "errors"

var (
	// no matching account, job or notification
	ErrNotFound = errors.New("not found")

	// missing or malformed fields, illegal enum values
	ErrInvalidInput = errors.New("invalid input")

	// unique constraint violation on create
	ErrConflict = errors.New("already exists")

	// persistence failure other than not-found; retryable by the caller
	ErrStorage = errors.New("storage error")

	// transport returned failure or timed out
	ErrDeliveryFailed = errors.New("delivery failed")
)
