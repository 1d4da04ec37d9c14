package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrNotFound matches any HTTPError carrying a 404 status via errors.Is.
	ErrNotFound = errors.New("apiclient: not found")

	errUpstreamRequired = errors.New("apiclient: upstream origin is required for a relative API root")
)

// HTTPError reports a non-2xx response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
	Method     string
	Endpoint   string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("apiclient: %s %s: status %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("apiclient: %s %s: status %d", e.Method, e.Endpoint, e.StatusCode)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// NetworkError reports a transport failure before any response arrived.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("apiclient: %s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap exposes the transport error.
func (e *NetworkError) Unwrap() error { return e.Err }

// StatusCode extracts the HTTP status from err when it is an HTTPError.
func StatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}

// IsUnauthorized reports whether the API rejected the bearer token.
func IsUnauthorized(err error) bool {
	status, ok := StatusCode(err)
	return ok && (status == http.StatusUnauthorized || status == http.StatusForbidden)
}

func errorFromResponse(resp *http.Response, method, endpoint string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		Method:     method,
		Endpoint:   endpoint,
	}

	type errorPayload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	var payload errorPayload
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		var detail string
		if len(payload.Detail) > 0 && json.Unmarshal(payload.Detail, &detail) == nil {
			httpErr.Message = strings.TrimSpace(detail)
		}
		if httpErr.Message == "" {
			httpErr.Message = strings.TrimSpace(payload.Message)
		}
	}
	if httpErr.Message == "" {
		httpErr.Message = http.StatusText(resp.StatusCode)
	}
	return httpErr
}
