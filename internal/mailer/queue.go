package mailer

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

// Declare makes sure the durable mail queue exists. Producer and consumer both call it.
func Declare(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
}

// Queue publishes mail messages for the mail worker.
type Queue struct {
	ch      *amqp.Channel
	name    string
	timeout time.Duration
}

func NewQueue(ch *amqp.Channel, name string, timeout time.Duration) *Queue {
	return &Queue{ch: ch, name: name, timeout: timeout}
}

func (q *Queue) Publish(msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	return q.ch.PublishWithContext(
		ctx,
		"",
		q.name,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
