package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"venuebooking/internal/domain"
)

type venueService struct {
	venueRepo      domain.VenueRepository
	eventRepo      domain.EventRepository
	notifier       domain.ChangeNotifier
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewVenueService(venueRepo domain.VenueRepository, eventRepo domain.EventRepository, notifier domain.ChangeNotifier, logger *slog.Logger, timeout time.Duration) domain.VenueService {
	return &venueService{
		venueRepo:      venueRepo,
		eventRepo:      eventRepo,
		notifier:       notifier,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *venueService) ListVenues(ctx context.Context) ([]*domain.Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	venues, err := s.venueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}

func (s *venueService) CreateVenue(ctx context.Context, p *domain.Principal, name string) (*domain.Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	now := time.Now()
	venue := &domain.Venue{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.venueRepo.Create(ctx, venue); err != nil {
		return nil, fmt.Errorf("create venue: %w", err)
	}
	publish(ctx, s.notifier, s.logger, domain.ChangeEvent{Kind: domain.ChangeVenueCreated, EntityID: venue.ID, VenueID: venue.ID})
	return venue, nil
}

func (s *venueService) RenameVenue(ctx context.Context, p *domain.Principal, id, name string) (*domain.Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	venue, err := s.venueRepo.Rename(ctx, id, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("rename venue: %w", err)
	}
	publish(ctx, s.notifier, s.logger, domain.ChangeEvent{Kind: domain.ChangeVenueUpdated, EntityID: venue.ID, VenueID: venue.ID})
	return venue, nil
}

func (s *venueService) DeleteVenue(ctx context.Context, p *domain.Principal, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !p.IsAdmin() {
		return domain.ErrForbidden
	}
	n, err := s.eventRepo.CountByVenue(ctx, id)
	if err != nil {
		return fmt.Errorf("count events: %w", err)
	}
	if n > 0 {
		return domain.ErrVenueInUse
	}
	if err := s.venueRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete venue: %w", err)
	}
	publish(ctx, s.notifier, s.logger, domain.ChangeEvent{Kind: domain.ChangeVenueDeleted, EntityID: id, VenueID: id})
	return nil
}
