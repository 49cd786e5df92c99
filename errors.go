package relay

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request, message or configuration value
	// failed validation.
	ErrValidation = errors.New("validation error")

	// ErrUnknownProvider indicates no provider is registered under the
	// requested identifier.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrHTTPStatus indicates the upstream answered with a non-success
	// status code.
	ErrHTTPStatus = errors.New("unexpected HTTP status")
)
