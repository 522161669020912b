package outlit

import (
	"errors"
	"fmt"
)

var (
	// ErrShutdown is returned by every public method after Shutdown().
	ErrShutdown = errors.New("client has been shut down")

	// ErrRequestTimeout is returned when a delivery attempt exceeds the
	// configured request timeout.
	ErrRequestTimeout = errors.New("request timed out")
)

// IdentityError reports a track, identify or billing call without a
// resolvable identity. It is raised synchronously to the caller and never
// retried.
type IdentityError struct {
	Reason string
}

func (e *IdentityError) Error() string {
	return "identity required: " + e.Reason
}

// APIError reports a non-2xx response from the ingest endpoint.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Body)
}

// ConfigError reports an invalid client configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}
