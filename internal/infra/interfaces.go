package infra

import (
	"context"

	"go.uber.org/zap"
)

// EventPublisher delivers domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, data any) error
	Close() error
}

// NopPublisher drops events. It is used when no broker is configured.
type NopPublisher struct {
	Log *zap.Logger
}

var _ EventPublisher = NopPublisher{}

func (p NopPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	if p.Log != nil {
		p.Log.Debug("event dropped, no broker configured", zap.String("routing_key", routingKey))
	}
	return nil
}

func (NopPublisher) Close() error { return nil }
