package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrServerConnection wraps transport failures such as refused connections and timeouts.
	ErrServerConnection = errors.New("server connection error")
	// ErrNoContent is returned when the backend has no course content to serve.
	ErrNoContent = errors.New("no course content available")
	// ErrSessionExpired is returned when a stored conversation is no longer known to the backend.
	ErrSessionExpired = errors.New("conversation session expired")
)

// BackendError is a failure reported by the backend itself.
type BackendError struct {
	Status  int
	Message string
}

// Error formats the backend error.
func (e *BackendError) Error() string {
	if e.Status == 0 || e.Status == http.StatusOK {
		return e.Message
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

type errorResponse struct {
	Error  string          `json:"error"`
	Detail json.RawMessage `json:"detail"`
}

// decodeHTTPError builds a BackendError from an error body, falling back to fallback
// when the body carries neither an error nor a detail message.
func decodeHTTPError(resp response, fallback string) error {
	message := fallback
	var body errorResponse
	if err := json.Unmarshal(resp.body, &body); err == nil {
		switch {
		case strings.TrimSpace(body.Error) != "":
			message = strings.TrimSpace(body.Error)
		case len(body.Detail) > 0:
			if detail := detailText(body.Detail); detail != "" {
				message = detail
			}
		}
	}
	return &BackendError{Status: resp.status, Message: message}
}

// detailText reads a string detail, or keeps structured details as compact JSON.
func detailText(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text)
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}
