package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalid      = errors.New("invalid")
	ErrGone         = errors.New("gone")
	ErrExhausted    = errors.New("code allocation exhausted")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ValidationError names the rejected input field. It matches ErrInvalid.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// CodeConflictError reports a custom code that is already in use. It matches ErrConflict.
type CodeConflictError struct {
	Code string
}

func (e *CodeConflictError) Error() string {
	return fmt.Sprintf("code %q already exists", e.Code)
}

func (e *CodeConflictError) Is(target error) bool {
	return target == ErrConflict
}
