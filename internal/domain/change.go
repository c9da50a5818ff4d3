package domain

import (
	"context"
	"time"
)

// ChangeKind names what changed in the store.
type ChangeKind string

const (
	ChangeEventCreated        ChangeKind = "event.created"
	ChangeEventUpdated        ChangeKind = "event.updated"
	ChangeEventDeleted        ChangeKind = "event.deleted"
	ChangeEventStatus         ChangeKind = "event.status"
	ChangeRegistrationCreated ChangeKind = "registration.created"
	ChangeVenueCreated        ChangeKind = "venue.created"
	ChangeVenueUpdated        ChangeKind = "venue.updated"
	ChangeVenueDeleted        ChangeKind = "venue.deleted"
)

// ChangeEvent tells subscribers that data changed and should be re-read.
type ChangeEvent struct {
	Kind     ChangeKind `json:"kind"`
	EntityID string     `json:"entity_id"`
	VenueID  string     `json:"venue_id,omitempty"`
	Date     string     `json:"date,omitempty"`
	At       time.Time  `json:"at"`
}

// ChangeNotifier is published to after every successful mutation.
type ChangeNotifier interface {
	Publish(ctx context.Context, change ChangeEvent) error
	// Subscribe delivers changes until ctx is done, then closes the channel.
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}
