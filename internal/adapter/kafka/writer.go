package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/hvac-sizing-service/internal/config"
	"github.com/couchcryptid/hvac-sizing-service/internal/domain"
)

// EventTypeDatasetLoaded marks a weather dataset becoming the current one.
const EventTypeDatasetLoaded = "weather_dataset_loaded"

// DatasetLoadedEvent is the message value published after a successful upload.
type DatasetLoadedEvent struct {
	EventType    string           `json:"event_type"`
	DatasetID    string           `json:"dataset_id"`
	RecordCount  int              `json:"record_count"`
	Years        []int            `json:"years"`
	MonthsByYear map[int][]string `json:"months_by_year"`
	LoadedAt     time.Time        `json:"loaded_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces dataset events to a Kafka topic.
// It implements weather.Publisher.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured dataset topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaDatasetTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, topic: cfg.KafkaDatasetTopic, logger: logger}
}

// PublishDataset writes one event keyed by dataset ID, so repeated uploads of
// the same file land on the same partition.
func (p *Publisher) PublishDataset(ctx context.Context, summary domain.DatasetSummary) error {
	msg, err := serializeToMessage(summary)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish dataset %s to %s: %w", summary.DatasetID, p.topic, err)
	}
	p.logger.Debug("dataset event published", "topic", p.topic, "dataset_id", summary.DatasetID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func serializeToMessage(summary domain.DatasetSummary) (kafkago.Message, error) {
	data, err := json.Marshal(DatasetLoadedEvent{
		EventType:    EventTypeDatasetLoaded,
		DatasetID:    summary.DatasetID,
		RecordCount:  summary.RecordCount,
		Years:        summary.Years,
		MonthsByYear: summary.MonthsByYear,
		LoadedAt:     summary.LoadedAt,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize dataset event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.DatasetID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(EventTypeDatasetLoaded)},
			{Key: "loaded_at", Value: []byte(summary.LoadedAt.Format(time.RFC3339))},
		},
	}, nil
}
