package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/platform/audit"
)

// Producer is the subset of the franz-go client the publisher needs. Tests
// substitute a fake; production wires *kgo.Client.
type Producer interface {
	Produce(ctx context.Context, record *kgo.Record, promise func(*kgo.Record, error))
}

// Kafka publishes audit events to a topic for streaming consumers (SIEM,
// long-retention archival). It implements audit.Store for writes only;
// queries belong to a database-backed store, so the list methods report
// unsupported.
type Kafka struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

func NewKafka(producer Producer, topic string, logger *slog.Logger) *Kafka {
	return &Kafka{producer: producer, topic: topic, logger: logger}
}

// Append produces the event asynchronously. Delivery failures are logged,
// never surfaced: the emitter's best-effort contract applies end to end.
func (k *Kafka) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.VerificationID),
		Value: payload,
	}
	k.producer.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil && k.logger != nil {
			k.logger.Error("audit publish failed",
				"topic", k.topic,
				"action", event.Action,
				"verification_id", event.VerificationID,
				"error", err,
			)
		}
	})
	return nil
}

func (k *Kafka) ListByVerification(context.Context, string) ([]audit.Event, error) {
	return nil, fmt.Errorf("kafka audit publisher does not support queries")
}

func (k *Kafka) ListRecent(context.Context, int) ([]audit.Event, error) {
	return nil, fmt.Errorf("kafka audit publisher does not support queries")
}
