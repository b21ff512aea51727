// Package apperr classifies use-case failures into the two kinds callers may see.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInput marks failures caused by the request itself: malformed data, rejected
	// dates, invalid state transitions, unknown ids.
	ErrInput = errors.New("input error")
	// ErrAccess marks authentication and authorization failures.
	ErrAccess = errors.New("access error")
)

// Error pairs a kind with the concrete cause. Both match with errors.Is.
type Error struct {
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Input(err error) error {
	return wrap(ErrInput, err)
}

func Inputf(format string, args ...any) error {
	return wrap(ErrInput, fmt.Errorf(format, args...))
}

func Access(err error) error {
	return wrap(ErrAccess, err)
}

func Accessf(format string, args ...any) error {
	return wrap(ErrAccess, fmt.Errorf(format, args...))
}

func IsInput(err error) bool  { return errors.Is(err, ErrInput) }
func IsAccess(err error) bool { return errors.Is(err, ErrAccess) }

// Classified reports whether err carries one of the user-facing kinds.
func Classified(err error) bool {
	return IsInput(err) || IsAccess(err)
}

func wrap(kind, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return &Error{Kind: kind, Err: err}
}
