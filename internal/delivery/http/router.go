package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "venuebooking/docs" // registers the swagger spec
	"venuebooking/internal/delivery/http/controllers"
	"venuebooking/internal/delivery/http/middleware"
	"venuebooking/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth         *controllers.AuthController
	Venues       *controllers.VenueController
	Availability *controllers.AvailabilityController
	Events       *controllers.EventController
	Attendees    *controllers.AttendeeController
	Changes      *controllers.ChangesController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)
	admin := func(next http.HandlerFunc) http.HandlerFunc { return auth(middleware.RequireAdmin(next)) }

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("GET /users/me", auth(c.Auth.Me))
	mux.HandleFunc("GET /users/me/registrations", auth(c.Attendees.ListMyRegistrations))

	// Venues
	mux.HandleFunc("GET /venues", auth(c.Venues.ListVenues))
	mux.HandleFunc("POST /venues", admin(c.Venues.CreateVenue))
	mux.HandleFunc("PATCH /venues/{venueID}", admin(c.Venues.RenameVenue))
	mux.HandleFunc("DELETE /venues/{venueID}", admin(c.Venues.DeleteVenue))
	mux.HandleFunc("GET /venues/{venueID}/free-slots", auth(c.Availability.FreeSlots))
	mux.HandleFunc("GET /venues/{venueID}/free-dates", auth(c.Availability.FreeDates))

	// Events
	mux.HandleFunc("GET /events", auth(c.Events.ListEvents))
	mux.HandleFunc("POST /events", auth(c.Events.CreateEvent))
	mux.HandleFunc("GET /events/{eventID}", auth(c.Events.GetEvent))
	mux.HandleFunc("PUT /events/{eventID}", auth(c.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Events.DeleteEvent))
	mux.HandleFunc("PATCH /events/{eventID}/status", admin(c.Events.SetEventStatus))
	mux.HandleFunc("POST /events/{eventID}/registrations", auth(c.Attendees.Register))
	mux.HandleFunc("GET /events/{eventID}/registrations", auth(c.Attendees.ListAttendees))

	// Live updates
	mux.HandleFunc("GET /changes", auth(c.Changes.Stream))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
