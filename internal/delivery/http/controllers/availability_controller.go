package controllers

import (
	"log/slog"
	"net/http"

	h "venuebooking/internal/delivery/http/helpers"
	"venuebooking/internal/domain"
)

// Slot is a free time range as shown to clients.
type Slot struct {
	Start domain.TimeOfDay `json:"start"`
	End   domain.TimeOfDay `json:"end"`
	Label string           `json:"label"`
}

// FreeSlotsResponse is the data of GET /venues/{venueID}/free-slots.
type FreeSlotsResponse struct {
	VenueID string      `json:"venue_id"`
	Date    domain.Date `json:"date"`
	Slots   []Slot      `json:"slots"`
}

// FreeDatesResponse is the data of GET /venues/{venueID}/free-dates.
type FreeDatesResponse struct {
	VenueID string           `json:"venue_id"`
	Start   domain.TimeOfDay `json:"start"`
	End     domain.TimeOfDay `json:"end"`
	Dates   []domain.Date    `json:"dates"`
}

type AvailabilityController struct {
	Logger  *slog.Logger
	Service domain.AvailabilityService
}

func NewAvailabilityController(logger *slog.Logger, svc domain.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{Logger: logger, Service: svc}
}

// FreeSlots godoc
// @Summary Free slots on a date
// @Description Gaps of at least the configured width between active bookings. An empty list means the day is fully booked.
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param venueID path string true "Venue ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} helpers.APIResponse "data contains venue_id, date and slots"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /venues/{venueID}/free-slots [get]
func (c *AvailabilityController) FreeSlots(w http.ResponseWriter, r *http.Request) {
	venueID, ok := pathID(w, r, "venueID")
	if !ok {
		return
	}
	date, err := domain.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "date must be YYYY-MM-DD")
		return
	}
	ranges, err := c.Service.FreeSlots(r.Context(), venueID, date)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	slots := make([]Slot, len(ranges))
	for i, rng := range ranges {
		slots[i] = Slot{Start: rng.Start, End: rng.End, Label: rng.String()}
	}
	h.WriteJSONSuccess(w, http.StatusOK, FreeSlotsResponse{VenueID: venueID, Date: date, Slots: slots})
}

// FreeDates godoc
// @Summary Free dates for a time range
// @Description Future dates within the horizon on which the range is not booked. Today is never included.
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param venueID path string true "Venue ID"
// @Param start query string true "Start (HH:MM)"
// @Param end query string true "End (HH:MM, 24:00 allowed)"
// @Success 200 {object} helpers.APIResponse "data contains venue_id, start, end and dates"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /venues/{venueID}/free-dates [get]
func (c *AvailabilityController) FreeDates(w http.ResponseWriter, r *http.Request) {
	venueID, ok := pathID(w, r, "venueID")
	if !ok {
		return
	}
	q := r.URL.Query()
	rng, err := domain.NewTimeRange(q.Get("start"), q.Get("end"))
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return
	}
	dates, err := c.Service.FreeDates(r.Context(), venueID, rng)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, FreeDatesResponse{VenueID: venueID, Start: rng.Start, End: rng.End, Dates: dates})
}
