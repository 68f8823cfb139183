package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidURL   = errors.New("invalid URL")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrDecoding     = errors.New("error decoding data")
	ErrUnknown      = errors.New("unknown error occurred")
)

// ServerError reports an unexpected HTTP status from the endpoint.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: status code %d", e.StatusCode)
}

// classifyStatus maps a non-success status to the error taxonomy.
func classifyStatus(status int) error {
	if status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return &ServerError{StatusCode: status}
}

// IsServerError reports whether err carries a ServerError and returns its code.
func IsServerError(err error) (int, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se.StatusCode, true
	}
	return 0, false
}
