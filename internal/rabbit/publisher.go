package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"marketplace-admin/internal/model"
)

type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Outbox encola notificaciones en la cola durable; la entrega la hace el consumer.
type Outbox struct {
	ch    Publisher
	queue string
}

func NewOutbox(ch Publisher, queue string) *Outbox {
	return &Outbox{ch: ch, queue: queue}
}

func (o *Outbox) Enqueue(ctx context.Context, n model.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Headers:      amqp091.Table{AttemptsHeader: int32(0)},
		Body:         body,
	}
	if err := o.ch.PublishWithContext(ctx, "", o.queue, false, false, msg); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
