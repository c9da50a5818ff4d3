package controllers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	h "venuebooking/internal/delivery/http/helpers"
	"venuebooking/internal/domain"
)

const defaultKeepAlive = 25 * time.Second

type ChangesController struct {
	Logger    *slog.Logger
	Notifier  domain.ChangeNotifier
	KeepAlive time.Duration
}

func NewChangesController(logger *slog.Logger, notifier domain.ChangeNotifier) *ChangesController {
	return &ChangesController{Logger: logger, Notifier: notifier, KeepAlive: defaultKeepAlive}
}

// Stream godoc
// @Summary Change notifications
// @Description Server-Sent Events stream. Each message names what changed so clients can re-read it.
// @Tags changes
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "event stream"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /changes [get]
func (c *ChangesController) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	changes, err := c.Notifier.Subscribe(ctx)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}

	rc := http.NewResponseController(w)
	// The stream outlives the server's write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		c.Logger.WarnContext(ctx, "streaming unsupported", "err", err)
		return
	}

	keepAlive := time.NewTicker(c.KeepAlive)
	defer keepAlive.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			data, err := json.Marshal(change)
			if err != nil {
				c.Logger.ErrorContext(ctx, "encode change", "err", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", change.Kind, data); err != nil {
				return
			}
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
