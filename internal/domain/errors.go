package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by services, repositories and the HTTP layer.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("venue is already booked for this date and time range")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEventNotOpen       = errors.New("event is not open for registration")
	ErrEventFull          = errors.New("event is full")
	ErrAlreadyRegistered  = errors.New("already registered")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrVenueInUse         = errors.New("venue still has events")
)

// ValidationError lists the problems found in caller input before it reaches the booking engine.
type ValidationError struct {
	Problems []string
}

// NewValidationError returns nil when there are no problems.
func NewValidationError(problems ...string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
