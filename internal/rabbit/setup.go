// setup.go
package rabbit

import (
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

const (
	AttemptsHeader   = "x-attempts"
	DeliveredHeader  = "x-delivered"
	DeadLetterSuffix = ".dlq"
)

// Declarer es la parte del canal que se usa para declarar colas.
type Declarer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
}

// DeadLetterQueue devuelve el nombre de la cola de mensajes muertos de queue.
func DeadLetterQueue(queue string) string {
	return queue + DeadLetterSuffix
}

// SetupQueues declara la cola de notificaciones y su cola de mensajes muertos.
func SetupQueues(ch Declarer, queue string) error {
	// 1. Cola de mensajes muertos
	if _, err := ch.QueueDeclare(DeadLetterQueue(queue), true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", DeadLetterQueue(queue), err)
	}

	// 2. Cola principal (durable, sobrevive reinicios del broker)
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", queue, err)
	}
	return nil
}
