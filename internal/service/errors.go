package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrClientNotFound is returned when a subscription or project
	// references a client that no longer exists
	ErrClientNotFound = errors.New("client not found")
)
