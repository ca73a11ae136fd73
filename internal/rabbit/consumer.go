package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rabbitmq/amqp091-go"

	"marketplace-admin/internal/model"
	"marketplace-admin/internal/notify"
)

type Consumer interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error)
}

// Channel es lo que el consumer necesita del canal AMQP.
type Channel interface {
	Publisher
	Consumer
}

const consumerTag = "marketplace-admin"

// NotificationConsumer drena la cola de salida y reintenta con un contador en
// los headers hasta maxAttempts; después manda el mensaje a la cola muerta.
type NotificationConsumer struct {
	ch          Channel
	dispatcher  notify.Dispatcher
	queue       string
	maxAttempts int
	log         *slog.Logger
}

func NewNotificationConsumer(ch Channel, dispatcher notify.Dispatcher, queue string, maxAttempts int, log *slog.Logger) *NotificationConsumer {
	return &NotificationConsumer{
		ch:          ch,
		dispatcher:  dispatcher,
		queue:       queue,
		maxAttempts: maxAttempts,
		log:         log.With("component", "notification_consumer"),
	}
}

// Run consume hasta que ctx termina o el canal se cierra.
func (c *NotificationConsumer) Run(ctx context.Context) error {
	if err := c.ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	msgs, err := c.ch.Consume(c.queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}
	c.log.Info("consuming notifications", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := c.Handle(ctx, d); err != nil {
				c.log.Error("handle delivery failed", "message_id", d.MessageId, "error", err)
			}
		}
	}
}

// Handle procesa una entrega y siempre termina en ack o nack.
func (c *NotificationConsumer) Handle(ctx context.Context, d amqp091.Delivery) error {
	attempts := Attempts(d.Headers) + 1

	var n model.Notification
	if err := json.Unmarshal(d.Body, &n); err != nil {
		c.log.Warn("undecodable notification", "message_id", d.MessageId, "error", err)
		return c.deadLetter(ctx, d, attempts, nil)
	}

	delivered, err := c.dispatch(ctx, n, Delivered(d.Headers))
	if err == nil {
		c.log.Debug("notification delivered", "target", n.Target, "target_id", n.TargetID, "attempts", attempts)
		return d.Ack(false)
	}

	if notify.IsPermanent(err) || attempts >= c.maxAttempts {
		c.log.Error("notification dead-lettered", "target", n.Target, "target_id", n.TargetID, "attempts", attempts, "error", err)
		return c.deadLetter(ctx, d, attempts, delivered)
	}

	c.log.Warn("notification retry", "target", n.Target, "target_id", n.TargetID, "attempts", attempts, "error", err)
	if err := c.ch.PublishWithContext(ctx, "", c.queue, false, false, republish(d, attempts, delivered)); err != nil {
		// sin republicar, se devuelve a la cola tal cual
		_ = d.Nack(false, true)
		return fmt.Errorf("republish: %w", err)
	}
	return d.Ack(false)
}

// pendingDispatcher entrega solo por los canales que todavía no entregaron.
type pendingDispatcher interface {
	DispatchPending(ctx context.Context, n model.Notification, delivered []string) ([]string, error)
}

func (c *NotificationConsumer) dispatch(ctx context.Context, n model.Notification, delivered []string) ([]string, error) {
	if p, ok := c.dispatcher.(pendingDispatcher); ok {
		return p.DispatchPending(ctx, n, delivered)
	}
	return delivered, c.dispatcher.Dispatch(ctx, n)
}

func (c *NotificationConsumer) deadLetter(ctx context.Context, d amqp091.Delivery, attempts int, delivered []string) error {
	if err := c.ch.PublishWithContext(ctx, "", DeadLetterQueue(c.queue), false, false, republish(d, attempts, delivered)); err != nil {
		_ = d.Nack(false, true)
		return fmt.Errorf("dead-letter: %w", err)
	}
	return d.Ack(false)
}

func republish(d amqp091.Delivery, attempts int, delivered []string) amqp091.Publishing {
	headers := amqp091.Table{}
	for k, v := range d.Headers {
		headers[k] = v
	}
	headers[AttemptsHeader] = int32(attempts)
	if len(delivered) > 0 {
		headers[DeliveredHeader] = strings.Join(delivered, ",")
	}
	return amqp091.Publishing{
		ContentType:  d.ContentType,
		DeliveryMode: amqp091.Persistent,
		MessageId:    d.MessageId,
		Timestamp:    d.Timestamp,
		Headers:      headers,
		Body:         d.Body,
	}
}

// Attempts lee el contador de intentos; el broker puede entregarlo con distinto tipo entero.
func Attempts(h amqp091.Table) int {
	switch v := h[AttemptsHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	case int16:
		return int(v)
	case int8:
		return int(v)
	}
	return 0
}

// Delivered lee los canales que ya entregaron el mensaje en intentos anteriores.
func Delivered(h amqp091.Table) []string {
	v, _ := h[DeliveredHeader].(string)
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}
