// Package events publishes order events to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rookgm/gofood/internal/models"
)

// brokers
const (
	BrokerNone     = "none"
	BrokerNATS     = "nats"
	BrokerRabbitMQ = "rabbitmq"
)

// Publisher sends order events to consumers
type Publisher interface {
	Publish(ctx context.Context, event models.OrderEvent) error
	Close() error
}

// Noop drops every event
type Noop struct{}

// Publish does nothing
func (Noop) Publish(context.Context, models.OrderEvent) error { return nil }

// Close does nothing
func (Noop) Close() error { return nil }

// Subject returns the subject an event is published under
func Subject(event models.OrderEvent) string {
	return "orders." + event.Type
}

func encode(event models.OrderEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, nil
}
