// Package kafka ships audit events to a Kafka topic for downstream
// compliance consumers. The sink is append-only; reading the trail back goes
// through the primary store.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"argus/internal/audit"
	"argus/pkg/platform/sentinel"
)

// Sink produces audit events to Kafka, keyed by investigation ID so one
// investigation's trail stays ordered within a partition.
type Sink struct {
	client *kgo.Client
	topic  string
}

// NewSink connects to the brokers and ensures the topic exists. A topic that
// already exists is not an error.
func NewSink(ctx context.Context, brokers []string, topic string) (*Sink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}

	adm := kadm.NewClient(client)
	if _, err := adm.CreateTopic(ctx, 3, 1, nil, topic); err != nil && !strings.Contains(err.Error(), "TOPIC_ALREADY_EXISTS") {
		client.Close()
		return nil, fmt.Errorf("ensure audit topic %q: %w", topic, err)
	}

	return &Sink{client: client, topic: topic}, nil
}

// Append produces one event synchronously.
func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.InvestigationID),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// ListByInvestigation is not supported on the sink side.
func (s *Sink) ListByInvestigation(context.Context, string) ([]audit.Event, error) {
	return nil, fmt.Errorf("kafka sink is write-only: %w", sentinel.ErrUnavailable)
}

// Close flushes and releases the client.
func (s *Sink) Close() {
	s.client.Close()
}
