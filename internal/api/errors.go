package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the raffle backend. Message holds
// the server-provided error text when the body carried one; the UI shows
// that text verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error (HTTP %d)", e.StatusCode)
}

// UserMessage returns the text suitable for direct display: the server's
// own message when present, otherwise a generic failure line.
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}

// parseAPIError builds an *APIError from a status code and response body.
// The backend reports failures as {"error": "..."}; anything else is kept
// as raw text when printable.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode}

	var wireError struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &wireError) == nil {
		if wireError.Error != "" {
			apiError.Message = wireError.Error
			return apiError
		}
		if wireError.Message != "" {
			apiError.Message = wireError.Message
			return apiError
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 0 && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		apiError.Message = text
	}
	return apiError
}
