package domain

import (
	"context"
	"time"
)

// DefaultMaxAttendees applies when an event is created without a capacity.
const DefaultMaxAttendees = 50

// Event is a venue booking with its public details.
// swagger:model Event
type Event struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	VenueID        string      `json:"venue_id"`
	Date           Date        `json:"date"`
	StartTime      TimeOfDay   `json:"start_time"`
	EndTime        TimeOfDay   `json:"end_time"`
	MaxAttendees   int         `json:"max_attendees"`
	Poster         string      `json:"poster"`
	Coordinators   string      `json:"coordinators"`
	Department     string      `json:"department"`
	OrganizerID    string      `json:"organizer_id"`
	OrganizerEmail string      `json:"organizer_email"`
	Status         EventStatus `json:"status"`
	AttendeeCount  int         `json:"attendee_count"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Range returns the booked time range.
func (e *Event) Range() TimeRange {
	return TimeRange{Start: e.StartTime, End: e.EndTime}
}

// Reservation projects the event onto what the availability engine needs.
func (e *Event) Reservation() Reservation {
	return Reservation{
		ID:      e.ID,
		VenueID: e.VenueID,
		Date:    e.Date,
		Range:   e.Range(),
		Status:  e.Status,
	}
}

// EndsAt is the wall-clock instant the event finishes in loc.
func (e *Event) EndsAt(loc *time.Location) time.Time {
	return e.Date.At(e.EndTime, loc)
}

// EventInput is the editable part of an event.
type EventInput struct {
	Title        string
	Description  string
	VenueID      string
	Date         Date
	Range        TimeRange
	MaxAttendees int
	Poster       string
	Coordinators string
	Department   string
}

// EventFilter narrows ListEvents. Zero values match everything.
type EventFilter struct {
	VenueID     string
	OrganizerID string
	Status      EventStatus
	From        Date
	To          Date
}

// EventRepository is the reservation store.
type EventRepository interface {
	ReservationLister
	// Upsert replaces the event with the same ID, or inserts it when absent.
	Upsert(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter, page PaginationParams) ([]*Event, int, error)
	UpdateStatus(ctx context.Context, id string, status EventStatus) (*Event, error)
	Delete(ctx context.Context, id string) error
	CountByVenue(ctx context.Context, venueID string) (int, error)
}

// EventService defines the business logic for booking and managing events.
type EventService interface {
	CreateEvent(ctx context.Context, p *Principal, in EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, p *Principal, id string, in EventInput) (*Event, error)
	DeleteEvent(ctx context.Context, p *Principal, id string) error
	SetEventStatus(ctx context.Context, p *Principal, id string, status EventStatus) (*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter, page PaginationParams) ([]*Event, int, error)
}
