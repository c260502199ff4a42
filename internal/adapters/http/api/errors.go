package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pedrohgl18/elox/internal/adapters/repository"
	"github.com/pedrohgl18/elox/internal/domain/types"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
	ErrRateLimited  = errors.New("rate limited")
)

// Error carries the handler operation, an error kind and the cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Kind != nil && e.Err != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	case e.Kind != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Wrap annotates err with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapKind annotates err with op and classifies it as kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// classify maps an error to its status, error code and client message.
// Server side failures never expose their cause.
func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, repository.ErrInvalidRecord):
		return http.StatusBadRequest, "bad_request", err.Error()
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, "conflict", err.Error()
	case errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure", err.Error()
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited", err.Error()
	case errors.Is(err, types.ErrLeaderboardUnavailable):
		return http.StatusServiceUnavailable, "unavailable", types.ErrLeaderboardUnavailable.Error()
	default:
		return http.StatusInternalServerError, "internal_error", http.StatusText(http.StatusInternalServerError)
	}
}
