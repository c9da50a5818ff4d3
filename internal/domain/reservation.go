package domain

import (
	"context"
	"fmt"
	"strings"
)

// EventStatus is the approval state of a booking. It serialises as PENDING, APPROVED or REJECTED.
type EventStatus string

const (
	StatusPending  EventStatus = "PENDING"
	StatusApproved EventStatus = "APPROVED"
	StatusRejected EventStatus = "REJECTED"
)

// ParseEventStatus accepts any letter case.
func ParseEventStatus(s string) (EventStatus, error) {
	st := EventStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q", s)
	}
	return st, nil
}

func (s EventStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Active reports whether a booking in this status occupies its venue.
func (s EventStatus) Active() bool {
	return s == StatusPending || s == StatusApproved
}

// CanTransitionTo allows PENDING→APPROVED, PENDING→REJECTED and APPROVED→REJECTED.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected
	case StatusApproved:
		return next == StatusRejected
	}
	return false
}

// Reservation is the part of a booking the availability engine looks at.
type Reservation struct {
	ID      string
	VenueID string
	Date    Date
	Range   TimeRange
	Status  EventStatus
}

// ReservationFilter narrows ListReservations. Empty fields match everything.
type ReservationFilter struct {
	VenueID string
	Date    Date
}

// ReservationLister builds the pool handed to the availability engine.
type ReservationLister interface {
	ListReservations(ctx context.Context, filter ReservationFilter) ([]Reservation, error)
}

// AvailabilityService answers free-slot and free-date questions for a venue.
type AvailabilityService interface {
	FreeSlots(ctx context.Context, venueID string, date Date) ([]TimeRange, error)
	FreeDates(ctx context.Context, venueID string, rng TimeRange) ([]Date, error)
}
