package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/drone-weather-heatmap/internal/config"
	"github.com/couchcryptid/drone-weather-heatmap/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces overlay layers to a Kafka topic.
// It implements pipeline.OverlayPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured overlay topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaOverlayTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// overlayMessage is the value of one message: a layer plus the selection it
// was rendered for.
type overlayMessage struct {
	domain.Layer
	Profile     string            `json:"profile"`
	Thresholds  domain.Thresholds `json:"thresholds"`
	RefreshedAt time.Time         `json:"refreshed_at"`
}

// Publish writes every layer of the snapshot in a single WriteMessages call,
// keyed by cell id so a compacted topic keeps the latest colour per cell.
func (w *Writer) Publish(ctx context.Context, snapshot domain.Snapshot) error {
	if len(snapshot.Layers) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snapshot.Layers))
	for i := range snapshot.Layers {
		msg, err := serializeToMessage(snapshot, snapshot.Layers[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write overlay: %w", err)
	}
	w.logger.Debug("overlay published", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one layer of a snapshot into a Kafka message.
func serializeToMessage(snapshot domain.Snapshot, layer domain.Layer) (kafkago.Message, error) {
	data, err := json.Marshal(overlayMessage{
		Layer:       layer,
		Profile:     snapshot.Profile,
		Thresholds:  snapshot.Thresholds,
		RefreshedAt: snapshot.RefreshedAt,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize overlay layer %s: %w", layer.CellID, err)
	}
	return kafkago.Message{
		Key:   []byte(layer.CellID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "color", Value: []byte(layer.Color)},
			{Key: "profile", Value: []byte(snapshot.Profile)},
			{Key: "refreshed_at", Value: []byte(snapshot.RefreshedAt.Format(time.RFC3339))},
		},
	}, nil
}
