package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"venuebooking/internal/availability"
	"venuebooking/internal/domain"
)

type availabilityService struct {
	reservations   domain.ReservationLister
	venueRepo      domain.VenueRepository
	engine         availability.Engine
	now            func() time.Time
	contextTimeout time.Duration
}

// NewAvailabilityService reads a fresh pool on every call and hands it to engine.
func NewAvailabilityService(reservations domain.ReservationLister, venueRepo domain.VenueRepository, engine availability.Engine, timeout time.Duration) domain.AvailabilityService {
	return &availabilityService{
		reservations:   reservations,
		venueRepo:      venueRepo,
		engine:         engine,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func (s *availabilityService) FreeSlots(ctx context.Context, venueID string, date domain.Date) ([]domain.TimeRange, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if date.IsZero() {
		return nil, domain.NewValidationError("date is required")
	}
	if err := s.checkVenue(ctx, venueID); err != nil {
		return nil, err
	}
	pool, err := s.reservations.ListReservations(ctx, domain.ReservationFilter{VenueID: venueID, Date: date})
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return s.engine.FreeSlots(venueID, date, pool), nil
}

func (s *availabilityService) FreeDates(ctx context.Context, venueID string, rng domain.TimeRange) ([]domain.Date, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !rng.Valid() {
		return nil, domain.NewValidationError("end time must be strictly after start time")
	}
	if err := s.checkVenue(ctx, venueID); err != nil {
		return nil, err
	}
	pool, err := s.reservations.ListReservations(ctx, domain.ReservationFilter{VenueID: venueID})
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return s.engine.FreeDates(venueID, rng, pool, domain.DateOf(s.now())), nil
}

func (s *availabilityService) checkVenue(ctx context.Context, venueID string) error {
	if _, err := s.venueRepo.GetByID(ctx, venueID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get venue: %w", err)
	}
	return nil
}
