package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher writes messages to named queues over the shared connection.
// Publishing to the default exchange with the queue name as routing key
// matches how the rest of the system addresses queues directly.
type Publisher struct {
	conn *Connection
}

func NewPublisher(conn *Connection) *Publisher {
	return &Publisher{conn: conn}
}

// Publish marshals payload to JSON and sends it to the queue. The message
// gets a unique MessageId and is marked persistent so it survives a broker
// restart.
func (p *Publisher) Publish(ctx context.Context, queue string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.PublishRaw(ctx, queue, body, nil)
}

// PublishRaw sends a pre-encoded body. Fails immediately with
// ErrChannelNotReady while the connection is down; the send is never
// queued for later.
func (p *Publisher) PublishRaw(ctx context.Context, queue string, body []byte, headers amqp.Table) error {
	ch, err := p.conn.Channel(queue)
	if err != nil {
		return err
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		MessageId:    uuid.New().String(),
		Timestamp:    time.Now(),
		DeliveryMode: amqp.Persistent,
		Headers:      headers,
	}

	err = ch.PublishWithContext(
		ctx,
		"", // default exchange
		queue,
		false, // mandatory
		false, // immediate
		publishing,
	)
	if err == nil {
		MessagesPublished.WithLabelValues(queue).Inc()
	}
	return err
}
