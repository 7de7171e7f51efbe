package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// GenericMessage is shown when the upstream gave no usable error text.
const GenericMessage = "Something went wrong. Please try again."

var (
	// ErrSessionInvalidated is returned when the upstream answered 401. The session must be torn down.
	ErrSessionInvalidated = errors.New("upstream: session invalidated")
	// ErrMalformedResponse is returned when a success body lacks a required top-level key.
	ErrMalformedResponse = errors.New("upstream: malformed response")
)

// Error is a non-2xx answer from the order service.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream: status %d: %s", e.StatusCode, e.Message)
}

// ResolveMessage picks the human-readable text out of an error body: "error" first, then
// "message", then GenericMessage.
func ResolveMessage(body []byte) string {
	var payload struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return GenericMessage
	}
	if msg, ok := payload.Error.(string); ok && strings.TrimSpace(msg) != "" {
		return strings.TrimSpace(msg)
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}
	return GenericMessage
}

func malformed(what string) error {
	return fmt.Errorf("%w: missing %q", ErrMalformedResponse, what)
}
