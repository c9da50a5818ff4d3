package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"venuebooking/internal/availability"
	"venuebooking/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type eventService struct {
	eventRepo      domain.EventRepository
	venueRepo      domain.VenueRepository
	emailService   domain.EmailService
	notifier       domain.ChangeNotifier
	logger         *slog.Logger
	locks          *keyedLocks
	now            func() time.Time
	loc            *time.Location
	contextTimeout time.Duration
}

func NewEventService(
	eventRepo domain.EventRepository,
	venueRepo domain.VenueRepository,
	emailService domain.EmailService,
	notifier domain.ChangeNotifier,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		venueRepo:      venueRepo,
		emailService:   emailService,
		notifier:       notifier,
		logger:         logger,
		locks:          newKeyedLocks(),
		now:            time.Now,
		loc:            time.Local,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, p *domain.Principal, in domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if p == nil {
		return nil, domain.ErrForbidden
	}
	in = normalizeEventInput(in)
	now := s.now()
	if err := validateEventInput(in, now, s.loc); err != nil {
		return nil, err
	}
	if err := s.checkVenue(ctx, in.VenueID); err != nil {
		return nil, err
	}

	event := &domain.Event{
		ID:             uuid.NewString(),
		OrganizerID:    p.UserID,
		OrganizerEmail: p.Email,
		Status:         domain.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if p.IsAdmin() {
		event.Status = domain.StatusApproved
	}
	applyEventInput(event, in)

	if err := s.book(ctx, event, event.VenueID); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "event booked", "event_id", event.ID, "venue_id", event.VenueID,
		"date", event.Date.String(), "range", event.Range().String(), "status", event.Status)
	publish(ctx, s.notifier, s.logger, eventChange(domain.ChangeEventCreated, event))
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, p *domain.Principal, id string, in domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !p.IsAdmin() {
		if p == nil || existing.OrganizerID != p.UserID {
			return nil, domain.ErrForbidden
		}
		if !existing.EndsAt(s.loc).After(now) {
			return nil, fmt.Errorf("%w: event has already ended", domain.ErrForbidden)
		}
	}

	in = normalizeEventInput(in)
	if err := validateEventInput(in, now, s.loc); err != nil {
		return nil, err
	}
	if err := s.checkVenue(ctx, in.VenueID); err != nil {
		return nil, err
	}

	updated := *existing
	applyEventInput(&updated, in)
	updated.UpdatedAt = now

	if err := s.book(ctx, &updated, existing.VenueID, updated.VenueID); err != nil {
		return nil, err
	}
	publish(ctx, s.notifier, s.logger, eventChange(domain.ChangeEventUpdated, &updated))
	return &updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, p *domain.Principal, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.getEvent(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(p, existing) {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	publish(ctx, s.notifier, s.logger, eventChange(domain.ChangeEventDeleted, existing))
	return nil
}

func (s *eventService) SetEventStatus(ctx context.Context, p *domain.Principal, id string, status domain.EventStatus) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !status.Valid() {
		return nil, domain.NewValidationError(fmt.Sprintf("unknown status %q", status))
	}
	existing, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, existing.Status, status)
	}

	updated, err := s.eventRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update status: %w", err)
	}
	publish(ctx, s.notifier, s.logger, eventChange(domain.ChangeEventStatus, updated))
	s.notifyOrganizer(ctx, updated)
	return updated, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.getEvent(ctx, id)
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, domain.NewValidationError(fmt.Sprintf("unknown status %q", filter.Status))
	}
	if page.Page < 1 {
		page.Page = 1
	}
	if page.PageSize <= 0 {
		page.PageSize = defaultPageSize
	}
	if page.PageSize > maxPageSize {
		page.PageSize = maxPageSize
	}
	events, total, err := s.eventRepo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

// book runs the conflict check and the write under the locks of every venue
// the event touches, so two bookings for one slot cannot both pass the check.
func (s *eventService) book(ctx context.Context, event *domain.Event, venueIDs ...string) error {
	unlock := s.locks.lock(venueIDs...)
	defer unlock()

	pool, err := s.eventRepo.ListReservations(ctx, domain.ReservationFilter{VenueID: event.VenueID, Date: event.Date})
	if err != nil {
		return fmt.Errorf("list reservations: %w", err)
	}
	if availability.HasConflict(event.Reservation(), pool) {
		return domain.ErrConflict
	}
	if err := s.eventRepo.Upsert(ctx, event); err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

func (s *eventService) getEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) checkVenue(ctx context.Context, venueID string) error {
	if _, err := s.venueRepo.GetByID(ctx, venueID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError(fmt.Sprintf("unknown venue %q", venueID))
		}
		return fmt.Errorf("get venue: %w", err)
	}
	return nil
}

func (s *eventService) notifyOrganizer(ctx context.Context, e *domain.Event) {
	if s.emailService == nil || e.OrganizerEmail == "" {
		return
	}
	data := &domain.EventStatusEmailData{
		Email:     e.OrganizerEmail,
		Title:     e.Title,
		VenueName: venueName(ctx, s.venueRepo, e.VenueID),
		Date:      e.Date.String(),
		TimeRange: e.Range().String(),
		Status:    e.Status,
	}
	if err := s.emailService.SendEventStatus(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "status email failed", "event_id", e.ID, "error", err)
	}
}

// venueName falls back to the ID when the venue cannot be read.
func venueName(ctx context.Context, repo domain.VenueRepository, id string) string {
	v, err := repo.GetByID(ctx, id)
	if err != nil {
		return id
	}
	return v.Name
}

func canManage(p *domain.Principal, e *domain.Event) bool {
	return p.IsAdmin() || (p != nil && e.OrganizerID == p.UserID)
}

func normalizeEventInput(in domain.EventInput) domain.EventInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.VenueID = strings.TrimSpace(in.VenueID)
	in.Coordinators = strings.TrimSpace(in.Coordinators)
	in.Department = strings.TrimSpace(in.Department)
	if in.MaxAttendees == 0 {
		in.MaxAttendees = domain.DefaultMaxAttendees
	}
	return in
}

// validateEventInput checks everything the availability engine assumes about a
// candidate before it is asked about conflicts.
func validateEventInput(in domain.EventInput, now time.Time, loc *time.Location) error {
	var problems []string
	if in.Title == "" {
		problems = append(problems, "title is required")
	}
	if in.VenueID == "" {
		problems = append(problems, "venue is required")
	}
	if in.Date.IsZero() {
		problems = append(problems, "date is required")
	}
	if !in.Range.Valid() {
		problems = append(problems, "end time must be strictly after start time")
	} else if !in.Date.IsZero() && in.Date.At(in.Range.Start, loc).Before(now) {
		problems = append(problems, "event cannot be scheduled in the past")
	}
	if in.MaxAttendees < 0 {
		problems = append(problems, "max attendees must be positive")
	}
	return domain.NewValidationError(problems...)
}

func applyEventInput(e *domain.Event, in domain.EventInput) {
	e.Title = in.Title
	e.Description = in.Description
	e.VenueID = in.VenueID
	e.Date = in.Date
	e.StartTime = in.Range.Start
	e.EndTime = in.Range.End
	e.MaxAttendees = in.MaxAttendees
	e.Poster = in.Poster
	e.Coordinators = in.Coordinators
	e.Department = in.Department
}
