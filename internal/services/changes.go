package services

import (
	"context"
	"log/slog"
	"time"

	"venuebooking/internal/domain"
)

// publish tells subscribers about a committed mutation. Failures are logged,
// never returned: the mutation has already happened.
func publish(ctx context.Context, n domain.ChangeNotifier, logger *slog.Logger, change domain.ChangeEvent) {
	if n == nil {
		return
	}
	if change.At.IsZero() {
		change.At = time.Now().UTC()
	}
	if err := n.Publish(ctx, change); err != nil {
		logger.WarnContext(ctx, "publish change failed", "kind", change.Kind, "entity_id", change.EntityID, "error", err)
	}
}

func eventChange(kind domain.ChangeKind, e *domain.Event) domain.ChangeEvent {
	return domain.ChangeEvent{Kind: kind, EntityID: e.ID, VenueID: e.VenueID, Date: e.Date.String()}
}
