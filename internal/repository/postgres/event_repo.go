package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"venuebooking/internal/domain"
)

const eventColumns = `e.id, e.title, e.description, e.venue_id, e.date, e.start_time, e.end_time,
		e.max_attendees, e.poster, e.coordinators, e.department, e.organizer_id, e.organizer_email,
		e.status, e.created_at, e.updated_at,
		(SELECT COUNT(*) FROM registrations r WHERE r.event_id = e.id) AS attendee_count`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var status string
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.VenueID, &e.Date, &e.StartTime, &e.EndTime,
		&e.MaxAttendees, &e.Poster, &e.Coordinators, &e.Department, &e.OrganizerID, &e.OrganizerEmail,
		&status, &e.CreatedAt, &e.UpdatedAt, &e.AttendeeCount,
	)
	if err != nil {
		return nil, err
	}
	e.Status = domain.EventStatus(status)
	return e, nil
}

// whereBuilder collects AND-ed conditions with numbered placeholders.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *whereBuilder) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

func (r *eventRepository) ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	var where whereBuilder
	if filter.VenueID != "" {
		where.add("venue_id = $%d", filter.VenueID)
	}
	if !filter.Date.IsZero() {
		where.add("date = $%d", filter.Date)
	}
	query := fmt.Sprintf(`
		SELECT id, venue_id, date, start_time, end_time, status
		FROM events
		%s
		ORDER BY date, start_time
	`, where.String())
	rows, err := r.DB.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	pool := make([]domain.Reservation, 0)
	for rows.Next() {
		var res domain.Reservation
		var status string
		if err := rows.Scan(&res.ID, &res.VenueID, &res.Date, &res.Range.Start, &res.Range.End, &status); err != nil {
			return nil, err
		}
		res.Status = domain.EventStatus(status)
		pool = append(pool, res)
	}
	return pool, rows.Err()
}

// Upsert inserts a new event or replaces the editable columns of an existing
// one. Status, organizer and created_at keep their stored values.
func (r *eventRepository) Upsert(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (id, title, description, venue_id, date, start_time, end_time, max_attendees,
			poster, coordinators, department, organizer_id, organizer_email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			venue_id = EXCLUDED.venue_id,
			date = EXCLUDED.date,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			max_attendees = EXCLUDED.max_attendees,
			poster = EXCLUDED.poster,
			coordinators = EXCLUDED.coordinators,
			department = EXCLUDED.department,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.VenueID, e.Date, e.StartTime, e.EndTime, e.MaxAttendees,
		e.Poster, e.Coordinators, e.Department, e.OrganizerID, e.OrganizerEmail, string(e.Status), e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events e
		WHERE e.id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.Event, int, error) {
	var where whereBuilder
	if filter.VenueID != "" {
		where.add("e.venue_id = $%d", filter.VenueID)
	}
	if filter.OrganizerID != "" {
		where.add("e.organizer_id = $%d", filter.OrganizerID)
	}
	if filter.Status != "" {
		where.add("e.status = $%d", string(filter.Status))
	}
	if !filter.From.IsZero() {
		where.add("e.date >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		where.add("e.date <= $%d", filter.To)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM events e ` + where.String()
	if err := r.DB.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args := append(where.args, page.PageSize, page.Offset())
	query := fmt.Sprintf(`SELECT %s
		FROM events e
		%s
		ORDER BY e.date, e.start_time, e.id
		LIMIT $%d OFFSET $%d
	`, eventColumns, where.String(), len(args)-1, len(args))
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	result, err := r.DB.ExecContext(ctx, `UPDATE events SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
	if err != nil {
		return nil, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) CountByVenue(ctx context.Context, venueID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE venue_id = $1`, venueID).Scan(&n)
	return n, err
}
