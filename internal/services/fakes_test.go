package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"venuebooking/internal/domain"
)

const testTimeout = time.Second

var (
	// fixedNow is noon UTC on 2025-06-01.
	fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	today    = domain.NewDate(2025, time.June, 1)

	errDB = errors.New("db down")
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func admin() *domain.Principal {
	return &domain.Principal{UserID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin}
}

func member(id string) *domain.Principal {
	return &domain.Principal{UserID: id, Email: id + "@example.com", Role: domain.RoleUser}
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Event
	listErr   error
	upsertErr error
	upserts   int
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[string]*domain.Event)}
	for _, e := range events {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []domain.Reservation{}
	for _, e := range f.byID {
		if filter.VenueID != "" && e.VenueID != filter.VenueID {
			continue
		}
		if !filter.Date.IsZero() && e.Date != filter.Date {
			continue
		}
		out = append(out, e.Reservation())
	}
	return out, nil
}

func (f *fakeEventRepo) Upsert(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	cp := *e
	if old, ok := f.byID[e.ID]; ok {
		cp.Status = old.Status
	}
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.byID[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.Event, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*domain.Event
	for _, e := range f.byID {
		if filter.VenueID != "" && e.VenueID != filter.VenueID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	start := min(page.Offset(), len(all))
	end := min(start+page.PageSize, len(all))
	return all[start:end], len(all), nil
}

func (f *fakeEventRepo) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.Status = status
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) CountByVenue(ctx context.Context, venueID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.byID {
		if e.VenueID == venueID {
			n++
		}
	}
	return n, nil
}

type fakeVenueRepo struct {
	byID map[string]*domain.Venue
	err  error
}

func newFakeVenueRepo(ids ...string) *fakeVenueRepo {
	f := &fakeVenueRepo{byID: make(map[string]*domain.Venue)}
	for _, id := range ids {
		f.byID[id] = &domain.Venue{ID: id, Name: "Venue " + id}
	}
	return f
}

func (f *fakeVenueRepo) List(ctx context.Context) ([]*domain.Venue, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Venue, 0, len(f.byID))
	for _, v := range f.byID {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeVenueRepo) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.byID[id]; ok {
		return v, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeVenueRepo) Create(ctx context.Context, v *domain.Venue) error {
	if f.err != nil {
		return f.err
	}
	f.byID[v.ID] = v
	return nil
}

func (f *fakeVenueRepo) Rename(ctx context.Context, id, name string) (*domain.Venue, error) {
	v, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	v.Name = name
	return v, nil
}

func (f *fakeVenueRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeRegistrationRepo struct {
	mu   sync.Mutex
	regs []*domain.Registration
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.regs {
		if r.EventID == reg.EventID && r.UserID == reg.UserID {
			return domain.ErrAlreadyRegistered
		}
	}
	f.regs = append(f.regs, reg)
	return nil
}

func (f *fakeRegistrationRepo) CountByEvent(ctx context.Context, eventID string) (int, error) {
	list, _ := f.ListByEvent(ctx, eventID)
	return len(list), nil
}

func (f *fakeRegistrationRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Registration{}
	for _, r := range f.regs {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Registration{}
	for _, r := range f.regs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	byEmail map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

// fakeEmailService records what would have been sent.
type fakeEmailService struct {
	mu            sync.Mutex
	welcome       []*domain.WelcomeMessageEmailData
	statuses      []*domain.EventStatusEmailData
	registrations []*domain.RegistrationEmailData
	err           error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcome = append(f.welcome, data)
	return f.err
}

func (f *fakeEmailService) SendEventStatus(ctx context.Context, data *domain.EventStatusEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, data)
	return f.err
}

func (f *fakeEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registrations = append(f.registrations, data)
	return f.err
}

type fakeNotifier struct {
	mu      sync.Mutex
	changes []domain.ChangeEvent
	err     error
}

func (f *fakeNotifier) Publish(ctx context.Context, c domain.ChangeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, c)
	return f.err
}

func (f *fakeNotifier) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	ch := make(chan domain.ChangeEvent)
	close(ch)
	return ch, nil
}

func (f *fakeNotifier) kinds() []domain.ChangeKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ChangeKind, len(f.changes))
	for i, c := range f.changes {
		out[i] = c.Kind
	}
	return out
}
