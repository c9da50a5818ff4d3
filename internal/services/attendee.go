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

type attendeeService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	venueRepo        domain.VenueRepository
	emailService     domain.EmailService
	notifier         domain.ChangeNotifier
	logger           *slog.Logger
	locks            *keyedLocks
	now              func() time.Time
	contextTimeout   time.Duration
}

func NewAttendeeService(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	venueRepo domain.VenueRepository,
	emailService domain.EmailService,
	notifier domain.ChangeNotifier,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AttendeeService {
	return &attendeeService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		venueRepo:        venueRepo,
		emailService:     emailService,
		notifier:         notifier,
		logger:           logger,
		locks:            newKeyedLocks(),
		now:              time.Now,
		contextTimeout:   timeout,
	}
}

func (s *attendeeService) Register(ctx context.Context, p *domain.Principal, eventID string, details domain.RegistrationDetails) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if p == nil {
		return nil, domain.ErrForbidden
	}
	details.Name = strings.TrimSpace(details.Name)
	if details.Name == "" {
		return nil, domain.NewValidationError("name is required")
	}

	// Capacity is checked and consumed under one lock per event.
	unlock := s.locks.lock(eventID)
	defer unlock()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Status != domain.StatusApproved {
		return nil, domain.ErrEventNotOpen
	}
	count, err := s.registrationRepo.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if count >= event.MaxAttendees {
		return nil, domain.ErrEventFull
	}

	reg := &domain.Registration{
		ID:           uuid.NewString(),
		EventID:      eventID,
		UserID:       p.UserID,
		Email:        p.Email,
		Name:         details.Name,
		Department:   strings.TrimSpace(details.Department),
		Section:      strings.TrimSpace(details.Section),
		Year:         strings.TrimSpace(details.Year),
		RegisteredAt: s.now(),
	}
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	publish(ctx, s.notifier, s.logger, domain.ChangeEvent{
		Kind: domain.ChangeRegistrationCreated, EntityID: reg.ID, VenueID: event.VenueID, Date: event.Date.String(),
	})
	s.confirm(ctx, reg, event)
	return reg, nil
}

func (s *attendeeService) ListAttendees(ctx context.Context, p *domain.Principal, eventID string) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !canManage(p, event) {
		return nil, domain.ErrForbidden
	}
	list, err := s.registrationRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return list, nil
}

func (s *attendeeService) ListMyRegistrations(ctx context.Context, p *domain.Principal) ([]*domain.RegistrationWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if p == nil {
		return nil, domain.ErrForbidden
	}
	regs, err := s.registrationRepo.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	out := make([]*domain.RegistrationWithEvent, 0, len(regs))
	for _, reg := range regs {
		event, err := s.eventRepo.GetByID(ctx, reg.EventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get event %s: %w", reg.EventID, err)
		}
		out = append(out, &domain.RegistrationWithEvent{Registration: reg, Event: event})
	}
	return out, nil
}

func (s *attendeeService) confirm(ctx context.Context, reg *domain.Registration, event *domain.Event) {
	if s.emailService == nil {
		return
	}
	data := &domain.RegistrationEmailData{
		Email:     reg.Email,
		Name:      reg.Name,
		Title:     event.Title,
		VenueName: venueName(ctx, s.venueRepo, event.VenueID),
		Date:      event.Date.String(),
		TimeRange: event.Range().String(),
	}
	if err := s.emailService.SendRegistrationConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "registration email failed", "registration_id", reg.ID, "error", err)
	}
}
