package recordings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrRejected matches any *RequestRejectedError via errors.Is.
	ErrRejected = errors.New("request rejected")
	// ErrHTTPStatus matches any *HTTPError via errors.Is.
	ErrHTTPStatus = errors.New("unexpected http status")
	// ErrMissingToken is returned when the recording payload lacks the requested JWT field.
	ErrMissingToken = errors.New("recording response has no download token")
)

// RequestRejectedError reports a 400 or 422 answer to a query, carrying the
// server's message so the caller can adjust the filter.
type RequestRejectedError struct {
	StatusCode int
	Message    string
}

func (e *RequestRejectedError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
}

func (e *RequestRejectedError) Unwrap() error { return ErrRejected }

// HTTPError reports any other non-2xx response.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d", e.StatusCode)
	}
	return fmt.Sprintf("api %s returned status %s", e.URL, status)
}

func (e *HTTPError) Unwrap() error { return ErrHTTPStatus }

// rejectionMessage renders the "message" field, which the API sends either as
// a string or as a structured list of validation problems.
func rejectionMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Message) == 0 {
		return string(bytes.TrimSpace(body))
	}
	var text string
	if err := json.Unmarshal(payload.Message, &text); err == nil {
		return text
	}
	return string(payload.Message)
}
