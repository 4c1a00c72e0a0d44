package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dhima/bookshelf-api/internal/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher emits book change events after a write commits.
type Publisher interface {
	Publish(ctx context.Context, event models.BookEvent) error
	Close() error
}

// KafkaPublisher writes book events to a Kafka topic, keyed by book id so that
// every change to one book lands on the same partition. Concurrent writes to the
// same book publish independently, so their events carry no ordering guarantee.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewPublisher builds a Kafka publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  3,
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger.With(zap.String("component", "book-event-publisher"), zap.String("topic", topic)),
	}
}

// Publish marshals the event and writes it synchronously.
func (p *KafkaPublisher) Publish(ctx context.Context, event models.BookEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal book event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.BookID, 10)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write book event: %w", err)
	}

	p.logger.Debug("book event published",
		zap.String("event_id", event.EventID),
		zap.String("type", string(event.Type)),
		zap.Int64("book_id", event.BookID),
	)
	return nil
}

// Close flushes and closes the underlying writer. Safe to call more than once.
func (p *KafkaPublisher) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.writer.Close()
	})
	return p.closeErr
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

// NewNoopPublisher returns a Publisher that does nothing.
func NewNoopPublisher() Publisher {
	return NoopPublisher{}
}

func (NoopPublisher) Publish(context.Context, models.BookEvent) error { return nil }
func (NoopPublisher) Close() error                                 { return nil }
