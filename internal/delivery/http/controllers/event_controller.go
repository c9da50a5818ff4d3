package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "venuebooking/internal/delivery/http/helpers"
	"venuebooking/internal/domain"
)

// EventRequest is the request body for POST /events and PUT /events/{eventID}.
// Dates are YYYY-MM-DD and times HH:MM; end_time may be 24:00.
type EventRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	VenueID      string `json:"venue_id"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	MaxAttendees int    `json:"max_attendees"`
	Poster       string `json:"poster"`
	Coordinators string `json:"coordinators"`
	Department   string `json:"department"`
}

// Validate implements Validator. Ordering and past-date rules are enforced by the service.
func (e EventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(e.VenueID) == "" {
		errs = append(errs, "venue_id is required")
	}
	if _, err := domain.ParseDate(e.Date); err != nil {
		errs = append(errs, "date must be YYYY-MM-DD")
	}
	if _, err := domain.ParseTimeOfDay(e.StartTime); err != nil {
		errs = append(errs, "start_time must be HH:MM")
	}
	if _, err := domain.ParseRangeEnd(e.EndTime); err != nil {
		errs = append(errs, "end_time must be HH:MM")
	}
	if e.MaxAttendees < 0 {
		errs = append(errs, "max_attendees must not be negative")
	}
	return errs
}

// Input converts a validated request.
func (e EventRequest) Input() domain.EventInput {
	date, _ := domain.ParseDate(e.Date)
	rng, _ := domain.NewTimeRange(e.StartTime, e.EndTime)
	return domain.EventInput{
		Title:        e.Title,
		Description:  e.Description,
		VenueID:      e.VenueID,
		Date:         date,
		Range:        rng,
		MaxAttendees: e.MaxAttendees,
		Poster:       e.Poster,
		Coordinators: e.Coordinators,
		Department:   e.Department,
	}
}

// StatusRequest is the request body for PATCH /events/{eventID}/status.
type StatusRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (s StatusRequest) Validate() []string {
	if _, err := domain.ParseEventStatus(s.Status); err != nil {
		return []string{"status must be one of PENDING, APPROVED, REJECTED"}
	}
	return nil
}

// ListEventsResponse is the data of GET /events.
type ListEventsResponse struct {
	Events     []*domain.Event  `json:"events"`
	Pagination h.PaginationMeta `json:"pagination"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{Logger: logger, Service: svc}
}

// CreateEvent godoc
// @Summary Book a venue
// @Description Creates an event. Admin bookings are approved immediately, others start as PENDING. Overlapping an active booking for the same venue and date is refused with 409.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body EventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var req EventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), p, req.Input())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListEvents godoc
// @Summary List events
// @Description Paginated, ordered by date then start time. organizer=me restricts to the caller's own events.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param venue_id query string false "Venue ID"
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Param organizer query string false "Organizer user ID, or me"
// @Param date query string false "Exact date (YYYY-MM-DD)"
// @Param from query string false "Earliest date (YYYY-MM-DD)"
// @Param to query string false "Latest date (YYYY-MM-DD)"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains events and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	filter, problems := parseEventFilter(r, p)
	if len(problems) > 0 {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, strings.Join(problems, "; "))
		return
	}
	page := h.ParsePagination(r)
	events, total, err := c.Service.ListEvents(r.Context(), filter, page)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{
		Events:     events,
		Pagination: h.NewPaginationMeta(page.Page, page.PageSize, total),
	})
}

func parseEventFilter(r *http.Request, p *domain.Principal) (domain.EventFilter, []string) {
	q := r.URL.Query()
	var problems []string
	filter := domain.EventFilter{VenueID: q.Get("venue_id"), OrganizerID: q.Get("organizer")}
	if filter.OrganizerID == "me" {
		filter.OrganizerID = p.UserID
	}
	if s := q.Get("status"); s != "" {
		status, err := domain.ParseEventStatus(s)
		if err != nil {
			problems = append(problems, "status must be one of PENDING, APPROVED, REJECTED")
		}
		filter.Status = status
	}
	parse := func(key string) domain.Date {
		s := q.Get(key)
		if s == "" {
			return domain.Date{}
		}
		d, err := domain.ParseDate(s)
		if err != nil {
			problems = append(problems, key+" must be YYYY-MM-DD")
		}
		return d
	}
	filter.From = parse("from")
	filter.To = parse("to")
	if d := parse("date"); !d.IsZero() {
		filter.From, filter.To = d, d
	}
	return filter, problems
}

// UpdateEvent godoc
// @Summary Edit an event
// @Description Organizers may edit their own events until they end; admins may edit any event. Status and organizer are preserved.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param event body EventRequest true "Event data"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req EventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), p, eventID, req.Input())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags events
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 204 "No Content"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), p, eventID); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetEventStatus godoc
// @Summary Approve or reject an event
// @Description Admin only. PENDING may become APPROVED or REJECTED; APPROVED may become REJECTED.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body StatusRequest true "New status"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{eventID}/status [patch]
func (c *EventController) SetEventStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req StatusRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	status, _ := domain.ParseEventStatus(req.Status)
	event, err := c.Service.SetEventStatus(r.Context(), p, eventID, status)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}
