package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/cisadane-basin-dashboard/internal/config"
	"github.com/couchcryptid/cisadane-basin-dashboard/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes aggregation snapshots to Kafka.
// It implements pipeline.SnapshotPublisher.
type Writer struct {
	writer        messageWriter
	stationsTopic string
	zonesTopic    string
	logger        *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topics. The
// topic is set per message, so one producer serves both views.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Writer{
		writer:        w,
		stationsTopic: cfg.KafkaStationsTopic,
		zonesTopic:    cfg.KafkaZonesTopic,
		logger:        logger,
	}
}

// PublishStations writes one message per resolved station, keyed by its
// canonical name so a compacted topic keeps the latest reading per station.
func (w *Writer) PublishStations(ctx context.Context, obs []domain.ResolvedObservation, at time.Time) error {
	if len(obs) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(obs))
	for i := range obs {
		msg, err := serializeToMessage(w.stationsTopic, obs[i].Name, "station", obs[i], at)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

// PublishZones writes one message per zone, keyed by the zone label.
func (w *Writer) PublishZones(ctx context.Context, view domain.ZoneView, at time.Time) error {
	if len(view.Zones) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(view.Zones))
	for i, group := range view.Zones {
		msg, err := serializeToMessage(w.zonesTopic, group.Zone.String(), "zone", group, at)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a snapshot record into a Kafka message.
func serializeToMessage(topic, key, kind string, v any, at time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s snapshot: %w", kind, err)
	}
	return kafkago.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  at,
		Headers: []kafkago.Header{
			{Key: "snapshot_kind", Value: []byte(kind)},
			{Key: "captured_at", Value: []byte(at.UTC().Format(time.RFC3339))},
		},
	}, nil
}
