package domain

import (
	"context"
	"time"
)

// Registration is an attendee's sign-up for an approved event.
// swagger:model Registration
type Registration struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Department   string    `json:"department"`
	Section      string    `json:"section"`
	Year         string    `json:"year"`
	RegisteredAt time.Time `json:"registered_at"`
}

// RegistrationDetails is what the attendee fills in.
type RegistrationDetails struct {
	Name       string
	Department string
	Section    string
	Year       string
}

// RegistrationWithEvent bundles a registration with its related event.
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	// Create returns ErrAlreadyRegistered when the user is already signed up.
	Create(ctx context.Context, reg *Registration) error
	CountByEvent(ctx context.Context, eventID string) (int, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Registration, error)
	ListByUser(ctx context.Context, userID string) ([]*Registration, error)
}

// AttendeeService defines attendee-facing operations.
type AttendeeService interface {
	Register(ctx context.Context, p *Principal, eventID string, details RegistrationDetails) (*Registration, error)
	ListAttendees(ctx context.Context, p *Principal, eventID string) ([]*Registration, error)
	ListMyRegistrations(ctx context.Context, p *Principal) ([]*RegistrationWithEvent, error)
}
