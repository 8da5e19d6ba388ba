package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is returned when the backend explicitly reports a non-zero status.
// It carries the backend native status code and payload for diagnostics and
// is never retried automatically.
type APIError struct {
	Status int
	Data   json.RawMessage
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message()
	if msg == "" {
		return fmt.Sprintf("api: backend reported status %d", e.Status)
	}
	return fmt.Sprintf("api: backend reported status %d: %s", e.Status, msg)
}

// Message extracts the human readable message the backend attached to the
// failure, if any. The backend reports errors as plain JSON strings.
func (e *APIError) Message() string {
	if len(e.Data) == 0 {
		return ""
	}
	var msg string
	if err := json.Unmarshal(e.Data, &msg); err == nil {
		return msg
	}
	return strings.TrimSpace(string(e.Data))
}

// ParseError is returned when the backend response body is not valid JSON or
// does not match either known envelope shape. The raw response text is kept
// for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	raw := e.Raw
	if len(raw) > 256 {
		raw = raw[:256] + "..."
	}
	if e.Err != nil {
		return fmt.Sprintf("api: cannot parse backend response: %v: %q", e.Err, raw)
	}
	return fmt.Sprintf("api: cannot parse backend response: %q", raw)
}

// Unwrap exposes the underlying decode error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
