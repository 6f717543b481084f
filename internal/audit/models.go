package audit

import (
	"context"
	"time"
)

// Action enumerates the chain-of-thought events an investigation emits.
type Action string

const (
	ActionAgentStarted     Action = "agent_started"
	ActionAgentFinished    Action = "agent_finished"
	ActionAgentFailed      Action = "agent_failed"
	ActionAgentUnhealthy   Action = "agent_unhealthy"
	ActionRiskSynthesized  Action = "risk_synthesized"
	ActionInvestigationEnd Action = "investigation_completed"
)

// Event is one chain-of-thought record. Informational only: synthesis math
// never depends on the audit trail. Keep it transport-agnostic so stores and
// sinks can fan out.
type Event struct {
	ID              string    `json:"id"`
	InvestigationID string    `json:"investigation_id"`
	EntityID        string    `json:"entity_id"`
	Agent           string    `json:"agent,omitempty"`
	Action          Action    `json:"action"`
	EvidenceCount   int       `json:"evidence_count,omitempty"`
	Detail          string    `json:"detail,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// Store persists audit events append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByInvestigation(ctx context.Context, investigationID string) ([]Event, error)
}
