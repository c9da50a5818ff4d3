package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"venuebooking/internal/delivery/http/helpers"
	"venuebooking/internal/delivery/http/middleware"
	"venuebooking/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var (
	alice = &domain.Principal{UserID: "u1", Email: "alice@example.com", Role: domain.RoleUser}
	root  = &domain.Principal{UserID: "a1", Email: "admin@example.com", Role: domain.RoleAdmin}
)

// newRequest builds a request; body is JSON-encoded unless it is already a string.
func newRequest(t *testing.T, method, target string, body any, p *domain.Principal) *http.Request {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	if p != nil {
		req = req.WithContext(middleware.SetPrincipal(req.Context(), p))
	}
	return req
}

// serve routes req through a mux so path values are populated.
func serve(pattern string, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

type envelope struct {
	Data  json.RawMessage   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, data any) *helpers.APIError {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	if data != nil && env.Error == nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env.Error
}

type fakeEventService struct {
	event     *domain.Event
	events    []*domain.Event
	total     int
	err       error
	lastInput domain.EventInput
	lastID    string
	lastP     *domain.Principal
	lastFilt  domain.EventFilter
	lastPage  domain.PaginationParams
	lastStat  domain.EventStatus
}

func (f *fakeEventService) CreateEvent(ctx context.Context, p *domain.Principal, in domain.EventInput) (*domain.Event, error) {
	f.lastP, f.lastInput = p, in
	return f.event, f.err
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, p *domain.Principal, id string, in domain.EventInput) (*domain.Event, error) {
	f.lastP, f.lastID, f.lastInput = p, id, in
	return f.event, f.err
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, p *domain.Principal, id string) error {
	f.lastP, f.lastID = p, id
	return f.err
}

func (f *fakeEventService) SetEventStatus(ctx context.Context, p *domain.Principal, id string, status domain.EventStatus) (*domain.Event, error) {
	f.lastP, f.lastID, f.lastStat = p, id, status
	return f.event, f.err
}

func (f *fakeEventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	f.lastID = id
	return f.event, f.err
}

func (f *fakeEventService) ListEvents(ctx context.Context, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastFilt, f.lastPage = filter, page
	return f.events, f.total, f.err
}

type fakeAvailabilityService struct {
	slots    []domain.TimeRange
	dates    []domain.Date
	err      error
	lastDate domain.Date
	lastRng  domain.TimeRange
}

func (f *fakeAvailabilityService) FreeSlots(ctx context.Context, venueID string, date domain.Date) ([]domain.TimeRange, error) {
	f.lastDate = date
	return f.slots, f.err
}

func (f *fakeAvailabilityService) FreeDates(ctx context.Context, venueID string, rng domain.TimeRange) ([]domain.Date, error) {
	f.lastRng = rng
	return f.dates, f.err
}

type fakeVenueService struct {
	venues   []*domain.Venue
	venue    *domain.Venue
	err      error
	lastName string
	lastID   string
}

func (f *fakeVenueService) ListVenues(ctx context.Context) ([]*domain.Venue, error) {
	return f.venues, f.err
}

func (f *fakeVenueService) CreateVenue(ctx context.Context, p *domain.Principal, name string) (*domain.Venue, error) {
	f.lastName = name
	return f.venue, f.err
}

func (f *fakeVenueService) RenameVenue(ctx context.Context, p *domain.Principal, id, name string) (*domain.Venue, error) {
	f.lastID, f.lastName = id, name
	return f.venue, f.err
}

func (f *fakeVenueService) DeleteVenue(ctx context.Context, p *domain.Principal, id string) error {
	f.lastID = id
	return f.err
}

type fakeAttendeeService struct {
	reg         *domain.Registration
	regs        []*domain.Registration
	mine        []*domain.RegistrationWithEvent
	err         error
	lastDetails domain.RegistrationDetails
	lastEventID string
}

func (f *fakeAttendeeService) Register(ctx context.Context, p *domain.Principal, eventID string, d domain.RegistrationDetails) (*domain.Registration, error) {
	f.lastEventID, f.lastDetails = eventID, d
	return f.reg, f.err
}

func (f *fakeAttendeeService) ListAttendees(ctx context.Context, p *domain.Principal, eventID string) ([]*domain.Registration, error) {
	f.lastEventID = eventID
	return f.regs, f.err
}

func (f *fakeAttendeeService) ListMyRegistrations(ctx context.Context, p *domain.Principal) ([]*domain.RegistrationWithEvent, error) {
	return f.mine, f.err
}

type fakeAuthService struct {
	user      *domain.User
	token     string
	err       error
	lastEmail string
	lastName  string
	lastID    string
}

func (f *fakeAuthService) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	f.lastEmail, f.lastName = email, name
	return f.user, f.err
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	f.lastEmail = email
	return f.token, f.user, f.err
}

func (f *fakeAuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	f.lastID = id
	return f.user, f.err
}
