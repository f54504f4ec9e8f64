package apiclient

import (
	"errors"
	"fmt"
)

const (
	msgTimeout     = "Request timeout"
	msgNetwork     = "Network error"
	msgInvalidJSON = "Invalid JSON response from server"
	msgFailed      = "Request failed"
)

// Error is the single failure type produced by the client. Status 0 means no response
// was received (network failure or timeout).
type Error struct {
	Status  int
	Message string
	Code    string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Timeout reports whether the request was abandoned because the client timeout elapsed.
func (e *Error) Timeout() bool {
	return e != nil && e.Status == 0 && e.Message == msgTimeout
}

// AsError extracts an *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// ErrRejected matches every RejectedError through errors.Is.
var ErrRejected = errors.New("apiclient: request rejected")

// RejectedError is returned when a 2xx envelope reports success=false or carries no data.
type RejectedError struct {
	Message string
	Code    string
}

func (e *RejectedError) Error() string {
	return e.Message
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}
