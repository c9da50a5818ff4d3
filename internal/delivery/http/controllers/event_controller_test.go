package controllers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuebooking/internal/delivery/http/helpers"
	"venuebooking/internal/domain"
)

func validEventBody() map[string]any {
	return map[string]any{
		"title":      "Robotics Workshop",
		"venue_id":   "v1",
		"date":       "2030-06-01",
		"start_time": "09:00",
		"end_time":   "24:00",
		"department": "CSE",
	}
}

func sampleEvent() *domain.Event {
	return &domain.Event{
		ID: "e1", Title: "Robotics Workshop", VenueID: "v1", Date: domain.NewDate(2030, time.June, 1),
		StartTime: 540, EndTime: 1440, MaxAttendees: 50, OrganizerID: "u1", Status: domain.StatusPending,
	}
}

func TestEventController_CreateEvent(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		principal  *domain.Principal
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "created", body: validEventBody(), principal: alice, wantStatus: http.StatusCreated},
		{name: "unauthenticated", body: validEventBody(), wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
		{name: "malformed json", body: `{"title":`, principal: alice, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{
			name: "bad time format",
			body: func() map[string]any {
				b := validEventBody()
				b["start_time"] = "9am"
				return b
			}(),
			principal:  alice,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{name: "overlap", body: validEventBody(), principal: alice, svcErr: domain.ErrConflict, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeConflict},
		{
			name:       "service validation",
			body:       validEventBody(),
			principal:  alice,
			svcErr:     domain.NewValidationError("event cannot be scheduled in the past"),
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{name: "store failure", body: validEventBody(), principal: alice, svcErr: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantCode: helpers.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{event: sampleEvent(), err: tt.svcErr}
			c := NewEventController(testLogger, svc)
			rr := serve("POST /events", c.CreateEvent, newRequest(t, http.MethodPost, "/events", tt.body, tt.principal))

			require.Equal(t, tt.wantStatus, rr.Code)
			var got domain.Event
			apiErr := decode(t, rr, &got)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			require.Nil(t, apiErr)
			assert.Equal(t, "e1", got.ID)
			assert.Equal(t, alice, svc.lastP)
			assert.Equal(t, domain.TimeRange{Start: 540, End: 1440}, svc.lastInput.Range)
			assert.Equal(t, domain.NewDate(2030, time.June, 1), svc.lastInput.Date)
			assert.Equal(t, "CSE", svc.lastInput.Department)
		})
	}
}

func TestEventController_GetEvent(t *testing.T) {
	svc := &fakeEventService{event: sampleEvent()}
	c := NewEventController(testLogger, svc)
	rr := serve("GET /events/{eventID}", c.GetEvent, newRequest(t, http.MethodGet, "/events/e1", nil, alice))
	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.Event
	require.Nil(t, decode(t, rr, &got))
	assert.Equal(t, "24:00", got.EndTime.String())
	assert.Equal(t, "e1", svc.lastID)

	svc.err = domain.ErrNotFound
	rr = serve("GET /events/{eventID}", c.GetEvent, newRequest(t, http.MethodGet, "/events/nope", nil, alice))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEventController_ListEvents(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantFilter domain.EventFilter
		wantPage   domain.PaginationParams
	}{
		{
			name:       "defaults",
			wantStatus: http.StatusOK,
			wantPage:   domain.PaginationParams{Page: 1, PageSize: 20},
		},
		{
			name:       "filters",
			query:      "?venue_id=v1&status=approved&organizer=me&from=2030-01-01&to=2030-02-01&page=2&page_size=5",
			wantStatus: http.StatusOK,
			wantFilter: domain.EventFilter{
				VenueID: "v1", Status: domain.StatusApproved, OrganizerID: "u1",
				From: domain.NewDate(2030, time.January, 1), To: domain.NewDate(2030, time.February, 1),
			},
			wantPage: domain.PaginationParams{Page: 2, PageSize: 5},
		},
		{
			name:       "single date",
			query:      "?date=2030-06-01",
			wantStatus: http.StatusOK,
			wantFilter: domain.EventFilter{From: domain.NewDate(2030, time.June, 1), To: domain.NewDate(2030, time.June, 1)},
			wantPage:   domain.PaginationParams{Page: 1, PageSize: 20},
		},
		{name: "bad status", query: "?status=maybe", wantStatus: http.StatusBadRequest},
		{name: "bad date", query: "?from=June", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{events: []*domain.Event{sampleEvent()}, total: 7}
			c := NewEventController(testLogger, svc)
			rr := serve("GET /events", c.ListEvents, newRequest(t, http.MethodGet, "/events"+tt.query, nil, alice))
			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got ListEventsResponse
			require.Nil(t, decode(t, rr, &got))
			assert.Equal(t, tt.wantFilter, svc.lastFilt)
			assert.Equal(t, tt.wantPage, svc.lastPage)
			assert.Equal(t, 7, got.Pagination.Total)
			require.Len(t, got.Events, 1)
		})
	}
}

func TestEventController_UpdateEvent(t *testing.T) {
	svc := &fakeEventService{event: sampleEvent()}
	c := NewEventController(testLogger, svc)
	rr := serve("PUT /events/{eventID}", c.UpdateEvent, newRequest(t, http.MethodPut, "/events/e1", validEventBody(), alice))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "e1", svc.lastID)

	svc.err = domain.ErrForbidden
	rr = serve("PUT /events/{eventID}", c.UpdateEvent, newRequest(t, http.MethodPut, "/events/e1", validEventBody(), alice))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestEventController_DeleteEvent(t *testing.T) {
	svc := &fakeEventService{}
	c := NewEventController(testLogger, svc)
	rr := serve("DELETE /events/{eventID}", c.DeleteEvent, newRequest(t, http.MethodDelete, "/events/e1", nil, alice))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "e1", svc.lastID)
}

func TestEventController_SetEventStatus(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		svcErr     error
		wantStatus int
	}{
		{name: "approve", body: map[string]string{"status": "approved"}, wantStatus: http.StatusOK},
		{name: "unknown status", body: map[string]string{"status": "maybe"}, wantStatus: http.StatusBadRequest},
		{name: "invalid transition", body: map[string]string{"status": "PENDING"}, svcErr: domain.ErrInvalidTransition, wantStatus: http.StatusConflict},
		{name: "not admin", body: map[string]string{"status": "APPROVED"}, svcErr: domain.ErrForbidden, wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{event: sampleEvent(), err: tt.svcErr}
			c := NewEventController(testLogger, svc)
			rr := serve("PATCH /events/{eventID}/status", c.SetEventStatus, newRequest(t, http.MethodPatch, "/events/e1/status", tt.body, root))
			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, domain.StatusApproved, svc.lastStat)
			}
		})
	}
}
