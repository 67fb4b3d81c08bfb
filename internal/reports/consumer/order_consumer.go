package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/invix-studio/quick-billing/internal/orders/domain"
	"github.com/invix-studio/quick-billing/internal/reports/repository"
)

// kafkaReader lets tests feed messages without a broker.
type kafkaReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	recorder repository.SalesRecorder
	reader   kafkaReader
}

func NewConsumer(recorder repository.SalesRecorder, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "order-events",
		GroupID:  "reports-worker",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{recorder, reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("error reading message: %v", err)
		return
	}

	var event domain.OrderEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		log.Printf("error parsing message: %v", err)
		return
	}

	switch eventType(m) {
	case domain.EventOrderCreated:
		if err := c.recorder.RecordOrderCreated(ctx, &event); err != nil {
			log.Printf("failed to record created order %s: %v", event.OrderID, err)
		}
	case domain.EventOrderCancelled:
		if err := c.recorder.RecordOrderCancelled(ctx, &event); err != nil {
			log.Printf("failed to record cancelled order %s: %v", event.OrderID, err)
		}
	default:
		log.Printf("skipping message with unknown event type %q", eventType(m))
	}
}

func eventType(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == "event_type" {
			return string(h.Value)
		}
	}
	return ""
}
