package stream

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// APIMessage is one entry of the envelope's errors (or messages) list.
type APIMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TransportError reports a failure before an HTTP response was obtained
// (DNS, connect, TLS, request timeout). It is never retried here; retry
// policy belongs to the caller.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cloudflare request %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError reports a Cloudflare response with an HTTP status >= 400 or an
// envelope with success=false. The decoded errors list is carried for caller
// inspection; the envelope itself is preserved unmodified.
type APIError struct {
	StatusCode int
	Errors     []APIMessage
	Envelope   Envelope
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("cloudflare api error (status %d): %d %s", e.StatusCode, e.Errors[0].Code, e.Errors[0].Message)
	}
	return fmt.Sprintf("cloudflare api error (status %d)", e.StatusCode)
}

// NotFound reports whether the error is a 404 for the requested resource.
func (e *APIError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// WaitTimeoutError reports that a readiness poll reached its attempt ceiling
// without the resource becoming ready.
type WaitTimeoutError struct {
	UID      string
	Attempts int
	Interval time.Duration
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("video %s not ready after %d attempts (%s apart)", e.UID, e.Attempts, e.Interval)
}

// IsNotFound reports whether err is an APIError for a missing resource.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}
