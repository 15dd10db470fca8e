package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedStatus matches *UnrecognizedStatusError.
	ErrUnrecognizedStatus = errors.New("unrecognized status code")
	// ErrMalformedResponse matches *MalformedResponseError.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrTransport matches *TransportError.
	ErrTransport = errors.New("transport failure")
)

// UnrecognizedStatusError reports a status code outside the known set.
type UnrecognizedStatusError struct {
	Code    int
	Context string
}

func (e *UnrecognizedStatusError) Error() string {
	return fmt.Sprintf("unknown status code %d for %s", e.Code, e.Context)
}

func (e *UnrecognizedStatusError) Is(target error) bool {
	return target == ErrUnrecognizedStatus
}

// MalformedResponseError reports a missing required field or an unparsable
// value in an otherwise successful response.
type MalformedResponseError struct {
	Field  string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed response: %s", e.Reason)
	}
	return fmt.Sprintf("malformed response: %s: %s", e.Field, e.Reason)
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// TransportError wraps a failed or timed out request. The next scheduled
// run may succeed, so it is retryable.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Retryable is always true; retry cadence belongs to the scheduler.
func (e *TransportError) Retryable() bool { return true }

func malformed(field, format string, args ...any) error {
	return &MalformedResponseError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
