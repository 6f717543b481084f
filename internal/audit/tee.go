package audit

import (
	"context"
	"errors"
)

// TeeStore appends to a primary store and mirrors to a secondary sink.
// Reads come from the primary only.
type TeeStore struct {
	primary Store
	sink    Store
}

func NewTeeStore(primary, sink Store) *TeeStore {
	return &TeeStore{primary: primary, sink: sink}
}

func (t *TeeStore) Append(ctx context.Context, event Event) error {
	return errors.Join(t.primary.Append(ctx, event), t.sink.Append(ctx, event))
}

func (t *TeeStore) ListByInvestigation(ctx context.Context, investigationID string) ([]Event, error) {
	return t.primary.ListByInvestigation(ctx, investigationID)
}
