package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StatusError is a structured error response from the identity backend.
// The proxy passes Status and Message through to the browser client
// where the route defines a passthrough.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend error %d: %s", e.Status, e.Message)
}

// messageFromBody extracts a human-readable message from an error body.
// The backend mixes JSON payloads (signup) with plain-text bodies
// (login, verify, resend, lookup), so both forms are accepted.
func messageFromBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	return trimmed
}
