package commerce

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid commerce client configuration")

	// ErrNetworkError is returned when the platform cannot be reached
	ErrNetworkError = errors.New("commerce network error")

	// ErrUnauthorized is returned when the bearer credential is rejected
	ErrUnauthorized = errors.New("commerce unauthorized")

	// ErrNotFound is returned when the requested resource does not exist
	ErrNotFound = errors.New("commerce resource not found")
)

// APIError is a decoded WooCommerce error body ({code, message, data.status}).
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("commerce API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}
