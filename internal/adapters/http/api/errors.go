package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/triage/internal/app"
	"github.com/okian/triage/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrInvalidInput = errors.New("invalid input")
	ErrTooLarge     = errors.New("payload too large")
	ErrBackpressure = errors.New("backpressure")
	ErrUnavailable  = errors.New("service unavailable")
	ErrInternal     = errors.New("internal error")
)

// KindError tags an error with the operation that failed and an API kind.
// It unwraps to both the kind and the cause.
type KindError struct {
	Op   string
	Kind error
	Err  error
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *KindError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// WrapKind annotates err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &KindError{Op: op, Kind: kind, Err: err}
}

// NewKind returns a KindError with no underlying cause.
func NewKind(op string, kind error) error {
	return &KindError{Op: op, Kind: kind}
}

// KindOf maps domain and service errors onto an API kind. Anything
// unrecognised is ErrInternal.
func KindOf(err error) error {
	switch {
	case errors.Is(err, ErrTooLarge), errors.Is(err, service.ErrBatchTooLarge):
		return ErrTooLarge
	case errors.Is(err, ErrInvalidInput), errors.Is(err, model.ErrInvalidInput):
		return ErrInvalidInput
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrInvalidBatch):
		return ErrBadRequest
	case errors.Is(err, ErrBackpressure), errors.Is(err, service.ErrBackpressure):
		return ErrBackpressure
	case errors.Is(err, ErrUnavailable), errors.Is(err, service.ErrNotStarted),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrUnavailable
	default:
		return ErrInternal
	}
}

// StatusOf returns the HTTP status and error code for an API kind.
func StatusOf(kind error) (int, string) {
	switch kind {
	case ErrTooLarge:
		return http.StatusRequestEntityTooLarge, "payload_too_large"
	case ErrInvalidInput:
		return http.StatusBadRequest, "invalid_input"
	case ErrBadRequest:
		return http.StatusBadRequest, "bad_request"
	case ErrBackpressure:
		return http.StatusTooManyRequests, "backpressure"
	case ErrUnavailable:
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
