package client

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCircuitOpen is returned while requests are suspended after the API
// signalled overload.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// APIError is a non-2xx response from the catalog API.
type APIError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: HTTP %d", e.Method, e.URL, e.Status)
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}
	return msg
}

// Message is the text shown to users: the response body when present.
func (e *APIError) Message() string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 404
}
