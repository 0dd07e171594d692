package journal

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"ordersync/internal/logger"
	"ordersync/internal/reconcile"
)

// Writer publishes reconciliation outcomes to a Kafka topic. Publication is
// best-effort: a failed write is logged and dropped, never surfaced to the
// reconcilers.
type Writer struct {
	logger *logger.Logger
	writer *kafka.Writer
}

func New(brokers, topic string, logger *logger.Logger) *Writer {
	return &Writer{
		logger: logger,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (w *Writer) Record(outcome reconcile.Outcome) {
	value, err := json.Marshal(outcome)
	if err != nil {
		w.logger.Error("Failed to marshal outcome: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = w.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(outcome.ShopDomain),
		Value: value,
	})
	if err != nil {
		w.logger.Error("Failed to publish outcome for %s: %v", outcome.ProductID, err)
	}
}

func (w *Writer) Close() error {
	return w.writer.Close()
}
