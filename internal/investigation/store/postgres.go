package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"argus/internal/investigation"
	"argus/pkg/platform/sentinel"
)

// PostgresStore persists investigations in PostgreSQL. Findings are stored as
// a jsonb document; the scalar verdict columns are lifted out for querying.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema for reference; migrations live with the deployment:
//
//	CREATE TABLE investigations (
//	    id          TEXT PRIMARY KEY,
//	    entity_id   TEXT NOT NULL,
//	    entity_type TEXT NOT NULL,
//	    status      TEXT NOT NULL,
//	    risk_score  DOUBLE PRECISION,
//	    confidence  DOUBLE PRECISION,
//	    narrative   TEXT NOT NULL DEFAULT '',
//	    findings    JSONB NOT NULL,
//	    unhealthy   JSONB NOT NULL DEFAULT '[]',
//	    created_at  TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX investigations_entity_idx ON investigations (entity_id, created_at);

func (s *PostgresStore) Save(ctx context.Context, inv *Investigation) error {
	if inv == nil || inv.ID == "" {
		return sentinel.ErrInvalidState
	}
	findings, err := json.Marshal(inv.Findings)
	if err != nil {
		return fmt.Errorf("marshal findings: %w", err)
	}
	unhealthy, err := json.Marshal(inv.Unhealthy)
	if err != nil {
		return fmt.Errorf("marshal unhealthy agents: %w", err)
	}
	query := `
		INSERT INTO investigations (id, entity_id, entity_type, status, risk_score, confidence, narrative, findings, unhealthy, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			risk_score = EXCLUDED.risk_score,
			confidence = EXCLUDED.confidence,
			narrative = EXCLUDED.narrative,
			findings = EXCLUDED.findings,
			unhealthy = EXCLUDED.unhealthy
	`
	_, err = s.db.ExecContext(ctx, query,
		inv.ID, inv.EntityID, string(inv.EntityType), inv.Status,
		inv.RiskScore, inv.Confidence, inv.Narrative, findings, unhealthy, inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save investigation: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Investigation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, entity_id, entity_type, status, risk_score, confidence, narrative, findings, unhealthy, created_at
		FROM investigations WHERE id = $1
	`, id)
	inv, err := scanInvestigation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get investigation: %w", err)
	}
	return inv, nil
}

func (s *PostgresStore) ListByEntity(ctx context.Context, entityID string) ([]*Investigation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity_id, entity_type, status, risk_score, confidence, narrative, findings, unhealthy, created_at
		FROM investigations WHERE entity_id = $1 ORDER BY created_at
	`, entityID)
	if err != nil {
		return nil, fmt.Errorf("list investigations: %w", err)
	}
	defer rows.Close()

	var out []*Investigation
	for rows.Next() {
		inv, err := scanInvestigation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan investigation: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvestigation(row rowScanner) (*Investigation, error) {
	var inv Investigation
	var entityType string
	var findings, unhealthy []byte
	err := row.Scan(&inv.ID, &inv.EntityID, &entityType, &inv.Status,
		&inv.RiskScore, &inv.Confidence, &inv.Narrative, &findings, &unhealthy, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	inv.EntityType = investigation.EntityType(entityType)
	if err := json.Unmarshal(findings, &inv.Findings); err != nil {
		return nil, fmt.Errorf("unmarshal findings: %w", err)
	}
	if len(unhealthy) > 0 {
		if err := json.Unmarshal(unhealthy, &inv.Unhealthy); err != nil {
			return nil, fmt.Errorf("unmarshal unhealthy agents: %w", err)
		}
	}
	return &inv, nil
}
