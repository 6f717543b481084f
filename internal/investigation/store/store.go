package store

import (
	"context"
	"time"

	"argus/internal/investigation"
)

// Investigation is the persisted outcome of one investigation: entity
// identity, the synthesized verdict, and every domain's findings (the verdict
// itself sits under the "risk" key).
type Investigation struct {
	ID         string                             `json:"id"`
	EntityID   string                             `json:"entity_id"`
	EntityType investigation.EntityType           `json:"entity_type"`
	Status     string                             `json:"status"`
	RiskScore  *float64                           `json:"risk_score"`
	Confidence *float64                           `json:"confidence"`
	Narrative  string                             `json:"narrative"`
	Findings   map[string]*investigation.Findings `json:"findings"`
	Unhealthy  []string                           `json:"unhealthy_agents,omitempty"`
	CreatedAt  time.Time                          `json:"created_at"`
}

// Store persists completed investigations. Swap implementations without
// touching the service.
type Store interface {
	Save(ctx context.Context, inv *Investigation) error
	Get(ctx context.Context, id string) (*Investigation, error)
	ListByEntity(ctx context.Context, entityID string) ([]*Investigation, error)
}
