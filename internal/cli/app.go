package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"venuebooking/config"
	"venuebooking/internal/adapters/auth"
	"venuebooking/internal/adapters/email"
	"venuebooking/internal/adapters/notify"
	"venuebooking/internal/availability"
	httpdelivery "venuebooking/internal/delivery/http"
	"venuebooking/internal/delivery/http/controllers"
	"venuebooking/internal/delivery/http/middleware"
	"venuebooking/internal/domain"
	"venuebooking/internal/repository/postgres"
	"venuebooking/internal/services"
)

// app owns the long-lived resources shared by the commands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *sql.DB
	notifier domain.ChangeNotifier
	closers  []func() error
}

// openApp loads configuration and connects to the database.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, db: db}
	a.closers = append(a.closers, db.Close)
	return a, nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func (a *app) migrate(ctx context.Context) error {
	applied, err := postgres.Migrate(ctx, a.db)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	a.logger.InfoContext(ctx, "migrations applied", "count", len(applied), "files", applied)
	return nil
}

// connectNotifier uses Redis pub/sub when REDIS_URL is set and an in-process hub otherwise.
func (a *app) connectNotifier(ctx context.Context) error {
	if a.cfg.RedisURL == "" {
		a.notifier = notify.NewHub()
		return nil
	}
	rn, err := notify.NewRedisNotifier(ctx, a.cfg.RedisURL, a.cfg.ChangesChannel, a.logger)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, rn.Close)
	a.notifier = rn
	a.logger.InfoContext(ctx, "publishing changes through redis", "channel", a.cfg.ChangesChannel)
	return nil
}

func (a *app) engine() availability.Engine {
	return availability.NewEngine(a.cfg.MinSlotMinutes, a.cfg.HorizonDays)
}

func (a *app) availabilityService() domain.AvailabilityService {
	return services.NewAvailabilityService(
		postgres.NewEventRepository(a.db),
		postgres.NewVenueRepository(a.db),
		a.engine(),
		a.cfg.RequestTimeout,
	)
}

// handler wires repositories, services and controllers into the HTTP handler chain.
func (a *app) handler() (http.Handler, error) {
	cfg, logger := a.cfg, a.logger

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return nil, err
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	eventRepo := postgres.NewEventRepository(a.db)
	venueRepo := postgres.NewVenueRepository(a.db)
	userRepo := postgres.NewUserRepository(a.db)
	registrationRepo := postgres.NewRegistrationRepository(a.db)

	tokens := auth.NewJWT(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, auth.NewBcryptHasher(0), tokens, emailService, logger, services.AuthOptions{
		AdminEmails:        cfg.AdminEmails,
		AllowedEmailDomain: cfg.AllowedEmailDomain,
		TokenExpiry:        cfg.JWTExpiry,
		Timeout:            cfg.RequestTimeout,
	})
	venueService := services.NewVenueService(venueRepo, eventRepo, a.notifier, logger, cfg.RequestTimeout)
	eventService := services.NewEventService(eventRepo, venueRepo, emailService, a.notifier, logger, cfg.RequestTimeout)
	attendeeService := services.NewAttendeeService(eventRepo, registrationRepo, venueRepo, emailService, a.notifier, logger, cfg.RequestTimeout)

	mux := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth:         controllers.NewAuthController(logger, authService),
		Venues:       controllers.NewVenueController(logger, venueService),
		Availability: controllers.NewAvailabilityController(logger, a.availabilityService()),
		Events:       controllers.NewEventController(logger, eventService),
		Attendees:    controllers.NewAttendeeController(logger, attendeeService),
		Changes:      controllers.NewChangesController(logger, a.notifier),
	}, tokens, logger)

	return middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux)), nil
}
