package services

import (
	"errors"
	"fmt"

	"github.com/desertthunder/coursebook/internal/shared"
)

// ErrorKind classifies a failed exchange with the booking service.
type ErrorKind int

const (
	// KindTransport means no response was received: network failure, aborted or timed out request.
	KindTransport ErrorKind = iota + 1
	// KindParse means the body was not the expected JSON envelope.
	KindParse
	// KindApplication means the service answered with ok:false or a non-2xx status.
	KindApplication
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	case KindApplication:
		return "application"
	default:
		return "unknown"
	}
}

// ResponseError describes a failed request to the booking service.
//
// Code and Message carry the envelope's error and message fields for [KindApplication].
// Excerpt carries the start of the raw body for [KindParse].
type ResponseError struct {
	Op         string
	Kind       ErrorKind
	StatusCode int
	Code       string
	Message    string
	Excerpt    string
	Err        error
}

func (e *ResponseError) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case KindParse:
		return fmt.Sprintf("%s: malformed response: %s", e.Op, e.Excerpt)
	}

	detail := e.Code
	if detail == "" {
		detail = e.Message
	}
	if detail == "" {
		detail = fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s: rejected: %s", e.Op, detail)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// Is matches the shared sentinel for the error's kind.
func (e *ResponseError) Is(target error) bool {
	switch e.Kind {
	case KindTransport:
		return target == shared.ErrTransport
	case KindParse:
		return target == shared.ErrMalformedResponse
	case KindApplication:
		return target == shared.ErrApplication
	}
	return false
}

// AsResponseError unwraps err to a [*ResponseError].
func AsResponseError(err error) (*ResponseError, bool) {
	var re *ResponseError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
