package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from the publisher's inbox and persists them.
// A store error is logged and swallowed: the trail is informational, and one
// bad write must not kill the background loop.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil && w.logger != nil {
				w.logger.Error("audit append failed",
					"action", event.Action,
					"investigation_id", event.InvestigationID,
					"error", err,
				)
			}
		}
	}
}
