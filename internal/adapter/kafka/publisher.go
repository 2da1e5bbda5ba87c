package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/marine-card/internal/config"
	"github.com/couchcryptid/marine-card/internal/domain"
	"github.com/couchcryptid/marine-card/internal/observability"
)

// Publisher announces each generated card on a Kafka topic so downstream
// posting bots can pick it up without polling the output directory.
type Publisher struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, metrics: metrics, logger: logger}
}

// PublishRunRecord serializes and publishes one run record.
func (p *Publisher) PublishRunRecord(ctx context.Context, rec domain.RunRecord) error {
	msg, err := serializeToMessage(rec)
	if err != nil {
		p.metrics.PublishErrors.Inc()
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.PublishErrors.Inc()
		return fmt.Errorf("publish run record: %w", err)
	}
	p.metrics.RecordsPublished.Inc()
	p.logger.Info("run record published", "card_date", rec.CardDate)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a RunRecord into a Kafka message keyed by
// card date so reruns of the same day land in the same partition.
func serializeToMessage(rec domain.RunRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize run record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.CardDate),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "record_type", Value: []byte("marine_forecast_card")},
			{Key: "generated_at", Value: []byte(rec.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
