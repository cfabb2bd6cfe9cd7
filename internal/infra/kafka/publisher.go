package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"roomservice/internal/infra"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var _ infra.EventPublisher = (*Publisher)(nil)

const eventTypeHeader = "x-event-type"

// keyed is implemented by events that pick their own partition key.
type keyed interface {
	PartitionKey() []byte
}

// Publisher writes JSON events to a single Kafka topic. The routing key is
// carried in the x-event-type header.
type Publisher struct {
	w   *kafkago.Writer
	log *zap.Logger
}

func NewPublisher(brokers []string, topic string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{
		w: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
		log: log,
	}
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, data any) error {
	msg, err := message(routingKey, data)
	if err != nil {
		return err
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	p.log.Debug("event published", zap.String("topic", p.w.Topic), zap.String("event_type", routingKey))
	return nil
}

func message(routingKey string, data any) (kafkago.Message, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("failed to marshal message: %w", err)
	}
	msg := kafkago.Message{
		Value: body,
		Time:  time.Now(),
		Headers: []kafkago.Header{
			{Key: eventTypeHeader, Value: []byte(routingKey)},
		},
	}
	if k, ok := data.(keyed); ok {
		msg.Key = k.PartitionKey()
	}
	return msg, nil
}

func (p *Publisher) Close() error {
	return p.w.Close()
}
