package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a failed chat completion.
type Kind string

const (
	KindUnauthorized       Kind = "unauthorized"
	KindRateLimited        Kind = "rate_limited"
	KindServiceUnavailable Kind = "service_unavailable"
	KindTransport          Kind = "transport"
	KindMalformed          Kind = "malformed"
	// KindRejected covers other 4xx answers (bad request, context too long).
	KindRejected Kind = "rejected"
)

// Retryable reports whether another attempt can help.
func (k Kind) Retryable() bool {
	return k == KindRateLimited || k == KindServiceUnavailable
}

// Error keeps the raw upstream body for logging. It must not be shown to
// end users.
type Error struct {
	Kind       Kind
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("openai %s (http %d): %s", e.Kind, e.StatusCode, truncate(e.Body, 300))
	case e.Err != nil:
		return fmt.Sprintf("openai %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("openai %s", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// KindOf extracts the classification; unknown errors count as transport.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindTransport
}

func classifyStatus(code int) Kind {
	switch {
	case code == 401 || code == 403:
		return KindUnauthorized
	case code == 429:
		return KindRateLimited
	case code == 408:
		return KindTransport
	case code >= 500:
		return KindServiceUnavailable
	default:
		return KindRejected
	}
}

func transportError(err error) *Error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTransport, Err: fmt.Errorf("timeout: %w", err)}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTransport, Err: fmt.Errorf("timeout: %w", err)}
	}
	return &Error{Kind: KindTransport, Err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
