package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherEmit(t *testing.T) {
	t.Run("events are stamped with id and timestamp", func(t *testing.T) {
		p := NewPublisher(4, nil)
		p.Emit(Event{InvestigationID: "inv-1", Action: ActionAgentStarted})

		event := <-p.Inbox()
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Timestamp.IsZero())
		assert.Equal(t, ActionAgentStarted, event.Action)
	})

	t.Run("existing stamps are preserved", func(t *testing.T) {
		p := NewPublisher(4, nil)
		at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		p.Emit(Event{ID: "ev-1", Timestamp: at, Action: ActionAgentFinished})

		event := <-p.Inbox()
		assert.Equal(t, "ev-1", event.ID)
		assert.Equal(t, at, event.Timestamp)
	})

	t.Run("a full inbox drops instead of blocking", func(t *testing.T) {
		p := NewPublisher(1, nil)
		done := make(chan struct{})
		go func() {
			defer close(done)
			p.Emit(Event{Action: ActionAgentStarted})
			p.Emit(Event{Action: ActionAgentFinished}) // dropped
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Emit blocked on a full inbox")
		}
		assert.Len(t, p.Inbox(), 1)
	})
}

func TestWorkerPersistsEvents(t *testing.T) {
	store := NewMemoryStore()
	p := NewPublisher(8, nil)
	w := NewWorker(store, p.Inbox(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	p.Emit(Event{InvestigationID: "inv-1", Action: ActionAgentStarted})
	p.Emit(Event{InvestigationID: "inv-1", Action: ActionRiskSynthesized})
	p.Emit(Event{InvestigationID: "inv-2", Action: ActionAgentStarted})

	require.Eventually(t, func() bool {
		events, _ := store.ListByInvestigation(context.Background(), "inv-1")
		return len(events) == 2
	}, time.Second, 10*time.Millisecond)

	events, err := store.ListByInvestigation(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.Equal(t, ActionAgentStarted, events[0].Action)
	assert.Equal(t, ActionRiskSynthesized, events[1].Action)

	cancel()
	<-done
}

// failingStore always errors on append.
type failingStore struct{}

func (failingStore) Append(context.Context, Event) error { return errors.New("disk full") }
func (failingStore) ListByInvestigation(context.Context, string) ([]Event, error) {
	return nil, nil
}

func TestWorkerSurvivesStoreErrors(t *testing.T) {
	p := NewPublisher(8, nil)
	w := NewWorker(failingStore{}, p.Inbox(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	p.Emit(Event{Action: ActionAgentStarted})
	p.Emit(Event{Action: ActionAgentFinished})

	require.Eventually(t, func() bool { return len(p.Inbox()) == 0 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done
}

func TestTeeStore(t *testing.T) {
	t.Run("appends reach both stores", func(t *testing.T) {
		primary := NewMemoryStore()
		sink := NewMemoryStore()
		tee := NewTeeStore(primary, sink)

		require.NoError(t, tee.Append(context.Background(), Event{InvestigationID: "inv-1"}))

		p, _ := primary.ListByInvestigation(context.Background(), "inv-1")
		s, _ := sink.ListByInvestigation(context.Background(), "inv-1")
		assert.Len(t, p, 1)
		assert.Len(t, s, 1)
	})

	t.Run("a sink failure is reported but the primary still has the event", func(t *testing.T) {
		primary := NewMemoryStore()
		tee := NewTeeStore(primary, failingStore{})

		err := tee.Append(context.Background(), Event{InvestigationID: "inv-1"})
		assert.Error(t, err)

		p, _ := primary.ListByInvestigation(context.Background(), "inv-1")
		assert.Len(t, p, 1)
	})

	t.Run("reads come from the primary", func(t *testing.T) {
		primary := NewMemoryStore()
		require.NoError(t, primary.Append(context.Background(), Event{InvestigationID: "inv-1"}))
		tee := NewTeeStore(primary, NewMemoryStore())

		events, err := tee.ListByInvestigation(context.Background(), "inv-1")
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})
}
