package errors

import "errors"

// This package defines the sentinel errors shared across the application.
// Services return these without knowing about HTTP; the API layer maps them
// to status codes with `errors.Is()`.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// Mapped to 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that client input failed business rule
	// validation. Mapped to 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrCanceled signifies that an in-flight operation was aborted, either
	// by the caller or because a newer operation for the same thread
	// superseded it. Cancellations are silent: they are never surfaced to
	// the user as failures.
	ErrCanceled = errors.New("operation canceled")

	// ErrUpstream signifies that a dependency (agent service, Home
	// Assistant) failed or returned an unusable response. Mapped to
	// 502 Bad Gateway.
	ErrUpstream = errors.New("upstream error")

	// ErrInternal signifies an unexpected server error. Mapped to 500
	// without leaking implementation details to the client.
	ErrInternal = errors.New("internal server error")
)
