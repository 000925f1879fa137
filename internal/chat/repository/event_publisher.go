package repository

import (
	"context"
	"encoding/json"

	"support_chat_service/internal/chat/domain"
	"support_chat_service/pkg/database"

	"github.com/segmentio/kafka-go"
	"github.com/streadway/amqp"
)

// EventPublisher sink for chat domain events
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.ChatEvent) error
	Close() error
}

type kafkaEventPublisher struct {
	writer *kafka.Writer
}

// NewKafkaEventPublisher publish events to a kafka topic, keyed by session so one session stays ordered
func NewKafkaEventPublisher(w *kafka.Writer) EventPublisher {
	return &kafkaEventPublisher{writer: w}
}

func (p *kafkaEventPublisher) Publish(ctx context.Context, evt domain.ChatEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.SessionID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(evt.Type)},
		},
	})
}

func (p *kafkaEventPublisher) Close() error {
	return p.writer.Close()
}

type rabbitEventPublisher struct {
	rabbit database.RabbitRepo
	queue  string
}

// NewRabbitEventPublisher publish events to a durable rabbitmq queue
func NewRabbitEventPublisher(rabbit database.RabbitRepo, queue string) EventPublisher {
	return &rabbitEventPublisher{rabbit: rabbit, queue: queue}
}

func (p *rabbitEventPublisher) Publish(_ context.Context, evt domain.ChatEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.rabbit.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         string(evt.Type),
		Timestamp:    evt.At,
		Body:         data,
	})
}

func (p *rabbitEventPublisher) Close() error {
	return p.rabbit.GetRabbit().Close()
}

type noopEventPublisher struct{}

// NewNoopEventPublisher drop every event
func NewNoopEventPublisher() EventPublisher {
	return noopEventPublisher{}
}

func (noopEventPublisher) Publish(context.Context, domain.ChatEvent) error { return nil }

func (noopEventPublisher) Close() error { return nil }
