package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies a failed request.
type ErrorKind int

const (
	// KindUnknown is a transport error that fits no narrower category.
	KindUnknown ErrorKind = iota
	// KindResponse means the server answered with a non-2xx status.
	KindResponse
	// KindNoResponse means the request was sent but nothing came back
	// (timeout, refused connection, DNS failure, offline).
	KindNoResponse
	// KindRequest means the request could not be built or its body decoded.
	KindRequest
)

// Fixed messages returned by Describe.
const (
	NetworkErrorMessage    = "Network Error: No response received from server"
	UnexpectedErrorMessage = "An unexpected error occurred"
)

// Error is the transport error produced by Client.Get.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	StatusText string
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		if e.Kind == KindResponse {
			return fmt.Sprintf("status %d", e.StatusCode)
		}
		return "request failed"
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Describe converts any error into the user-facing message shown in an
// Envelope. It never fails: errors that are not *Error map to
// UnexpectedErrorMessage.
func Describe(err error) string {
	var apiErr *Error
	if err == nil || !errors.As(err, &apiErr) || apiErr == nil {
		return UnexpectedErrorMessage
	}
	switch apiErr.Kind {
	case KindResponse:
		text := strings.TrimSpace(apiErr.StatusText)
		if text == "" {
			text = http.StatusText(apiErr.StatusCode)
		}
		return strings.TrimSpace(fmt.Sprintf("API Error: %d %s", apiErr.StatusCode, text))
	case KindNoResponse:
		return NetworkErrorMessage
	default:
		return "Error: " + apiErr.Error()
	}
}
