package audit

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher accepts chain-of-thought events and hands them to the worker over
// a buffered inbox. Emission is best-effort and non-blocking: when the inbox
// is full the event is dropped and counted, because audit is informational and
// must never stall an investigation.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

// NewPublisher creates a publisher with the given inbox capacity.
func NewPublisher(buffer int, logger *slog.Logger) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Inbox exposes the receive side for the worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// Emit queues one event, stamping ID and timestamp when absent.
func (p *Publisher) Emit(event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		if p.logger != nil {
			p.logger.Warn("audit inbox full, dropping event",
				"action", event.Action,
				"investigation_id", event.InvestigationID,
			)
		}
	}
}
