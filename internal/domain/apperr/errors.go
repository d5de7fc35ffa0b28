package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Code is the caller-facing failure class.
type Code string

const (
	CodeUnauthenticated     Code = "unauthenticated"
	CodeInvalidArgument     Code = "invalid_argument"
	CodeNotFound            Code = "not_found"
	CodeUpstreamUnavailable Code = "upstream_unavailable"
	CodeUpstreamAuth        Code = "upstream_auth"
	CodeInvalidAIResponse   Code = "invalid_ai_response"
	CodeStorage             Code = "storage"
	CodeRateLimited         Code = "rate_limited"
	CodeCanceled            Code = "canceled"
	CodeInternal            Code = "internal"
)

// Error carries a Code, the failing operation and a message that is safe to
// show to the end user. Cause is for logs only.
type Error struct {
	Code    Code
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an error with an explicit message.
func New(code Code, op, message string) error {
	return &Error{Code: code, Op: strings.TrimSpace(op), Message: strings.TrimSpace(message)}
}

// Newf is New with formatting.
func Newf(code Code, op, format string, args ...any) error {
	return New(code, op, fmt.Sprintf(format, args...))
}

// Wrap attaches a code to err. The message shown to callers is message, never
// err's text, so upstream bodies and SQL do not leak.
func Wrap(code Code, op, message string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: strings.TrimSpace(op), Message: strings.TrimSpace(message), Cause: err}
}

// IsCode reports whether err (or anything it wraps) carries code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the outermost code, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return CodeInternal
	}
	return e.Code
}

// PublicMessage returns the caller-safe message for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && strings.TrimSpace(e.Message) != "" {
		return e.Message
	}
	return DefaultMessage(CodeOf(err))
}

func DefaultMessage(code Code) string {
	switch code {
	case CodeUnauthenticated:
		return "authentication required"
	case CodeInvalidArgument:
		return "invalid request"
	case CodeNotFound:
		return "not found"
	case CodeUpstreamUnavailable:
		return "the AI service is temporarily unavailable, please try again"
	case CodeUpstreamAuth:
		return "the AI service is misconfigured"
	case CodeInvalidAIResponse:
		return "the AI service returned an invalid response, please try again"
	case CodeStorage:
		return "failed to save data"
	case CodeRateLimited:
		return "too many requests"
	case CodeCanceled:
		return "request cancelled"
	default:
		return "internal error"
	}
}
