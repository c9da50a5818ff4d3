package domain

import (
	"context"
	"time"
)

// Venue is a bookable location.
// swagger:model Venue
type Venue struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VenueRepository defines the interface for venue storage
type VenueRepository interface {
	List(ctx context.Context) ([]*Venue, error)
	GetByID(ctx context.Context, id string) (*Venue, error)
	Create(ctx context.Context, venue *Venue) error
	Rename(ctx context.Context, id, name string) (*Venue, error)
	Delete(ctx context.Context, id string) error
}

// VenueService manages the venue catalogue. Mutations are admin-only.
type VenueService interface {
	ListVenues(ctx context.Context) ([]*Venue, error)
	CreateVenue(ctx context.Context, p *Principal, name string) (*Venue, error)
	RenameVenue(ctx context.Context, p *Principal, id, name string) (*Venue, error)
	DeleteVenue(ctx context.Context, p *Principal, id string) error
}
