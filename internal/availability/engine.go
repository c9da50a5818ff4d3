// Package availability decides whether a booking collides with existing ones and
// which slots or dates are still free for a venue. Every function is pure: the
// caller passes a snapshot of the reservation pool and gets a result back.
package availability

import (
	"sort"

	"venuebooking/internal/domain"
)

// Defaults for Engine.
const (
	DefaultMinSlotMinutes = 30
	DefaultHorizonDays    = 365
)

// Engine carries the tunables for free-slot and free-date searches.
type Engine struct {
	MinSlotMinutes int
	HorizonDays    int
}

// NewEngine falls back to the defaults for non-positive values.
func NewEngine(minSlotMinutes, horizonDays int) Engine {
	if minSlotMinutes <= 0 {
		minSlotMinutes = DefaultMinSlotMinutes
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	return Engine{MinSlotMinutes: minSlotMinutes, HorizonDays: horizonDays}
}

// occupies reports whether r blocks its venue on the given venue and date.
func occupies(r domain.Reservation, venueID string, date domain.Date) bool {
	return r.VenueID == venueID && r.Date == date && r.Status.Active()
}

// HasConflict reports whether candidate overlaps any active reservation for the
// same venue and date. The pool entry sharing candidate's ID is skipped so that
// re-saving an event never collides with its stored version.
// Callers must reject candidates whose end is not after their start.
func HasConflict(candidate domain.Reservation, pool []domain.Reservation) bool {
	for _, r := range pool {
		if r.ID == candidate.ID || !occupies(r, candidate.VenueID, candidate.Date) {
			continue
		}
		if candidate.Range.Overlaps(r.Range) {
			return true
		}
	}
	return false
}

// FreeSlots returns, in ascending order, the gaps of at least MinSlotMinutes
// between active reservations for venueID on date. The result is empty, never
// nil, when the day is fully booked.
func (e Engine) FreeSlots(venueID string, date domain.Date, pool []domain.Reservation) []domain.TimeRange {
	busy := make([]domain.TimeRange, 0, len(pool))
	for _, r := range pool {
		if occupies(r, venueID, date) {
			busy = append(busy, r.Range)
		}
	}
	sort.SliceStable(busy, func(i, j int) bool { return busy[i].Start < busy[j].Start })

	slots := []domain.TimeRange{}
	cursor := domain.StartOfDay
	for _, b := range busy {
		if b.Start > cursor && int(b.Start-cursor) >= e.MinSlotMinutes {
			slots = append(slots, domain.TimeRange{Start: cursor, End: b.Start})
		}
		// Nested reservations must not pull the cursor backwards.
		if b.End > cursor {
			cursor = b.End
		}
	}
	if domain.EndOfDay > cursor && int(domain.EndOfDay-cursor) >= e.MinSlotMinutes {
		slots = append(slots, domain.TimeRange{Start: cursor, End: domain.EndOfDay})
	}
	return slots
}

// FreeDates returns the dates from today+1 through today+HorizonDays on which
// rng does not overlap any active reservation for venueID. Today is never
// included. The result is ascending and empty, never nil, when nothing is free.
func (e Engine) FreeDates(venueID string, rng domain.TimeRange, pool []domain.Reservation, today domain.Date) []domain.Date {
	blocked := make(map[domain.Date]struct{})
	for _, r := range pool {
		if r.VenueID == venueID && r.Status.Active() && r.Range.Overlaps(rng) {
			blocked[r.Date] = struct{}{}
		}
	}

	dates := []domain.Date{}
	for i := 1; i <= e.HorizonDays; i++ {
		d := today.AddDays(i)
		if _, ok := blocked[d]; !ok {
			dates = append(dates, d)
		}
	}
	return dates
}
