package messaging

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AckPolicy decides what happens to a delivery after the handler fails.
// A handler returning nil always acks.
type AckPolicy int

const (
	// AckAlways acks even on handler failure; the message is gone.
	AckAlways AckPolicy = iota
	// NackRequeueOnError redelivers the message until it succeeds.
	NackRequeueOnError
	// RetryThenDead republishes with an incremented retry counter and
	// parks the message on <queue>.dead once RetryLimit is spent.
	RetryThenDead
)

const retryCountHeader = "x-retry-count"

type ConsumerConfig struct {
	QueueName     string
	ConsumerTag   string
	AutoAck       bool
	Exclusive     bool
	NoLocal       bool
	NoWait        bool
	PrefetchCount int
	PrefetchSize  int
	AckPolicy     AckPolicy
	RetryLimit    int
}

type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

type Consumer struct {
	conn    *Connection
	config  ConsumerConfig
	handler MessageHandler
	log     *logrus.Logger
	cancel  context.CancelFunc
}

func NewConsumer(conn *Connection, config ConsumerConfig, handler MessageHandler, log *logrus.Logger) *Consumer {
	return &Consumer{
		conn:    conn,
		config:  config,
		handler: handler,
		log:     log,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if err := c.consume(ctx); err != nil {
				c.log.WithError(err).Errorf("Consumer %s error, retrying in 5 seconds", c.config.QueueName)
				time.Sleep(5 * time.Second)
			}
		}
	}
}

func (c *Consumer) consume(ctx context.Context) error {
	ch, err := c.conn.Channel(c.config.QueueName)
	if err != nil {
		return err
	}

	if c.config.PrefetchCount > 0 {
		if err := ch.Qos(
			c.config.PrefetchCount,
			c.config.PrefetchSize,
			false,
		); err != nil {
			return err
		}
	}

	msgs, err := ch.Consume(
		c.config.QueueName,
		c.config.ConsumerTag,
		c.config.AutoAck,
		c.config.Exclusive,
		c.config.NoLocal,
		c.config.NoWait,
		nil,
	)
	if err != nil {
		return err
	}

	c.log.Infof("Started consuming from queue: %s", c.config.QueueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}
			MessagesConsumed.WithLabelValues(c.config.QueueName).Inc()
			if err := c.handleMessage(ctx, msg); err != nil {
				c.log.WithError(err).Error("Error handling message")
			}
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, delivery amqp.Delivery) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := c.handler(ctx, delivery)
	if c.config.AutoAck {
		return err
	}
	if err == nil {
		return delivery.Ack(false)
	}

	switch c.config.AckPolicy {
	case NackRequeueOnError:
		delivery.Nack(false, true)
	case RetryThenDead:
		c.retryOrDead(ctx, delivery)
	default:
		delivery.Ack(false)
	}
	return err
}

// retryOrDead republishes the delivery with an incremented retry counter,
// or parks it on the dead-letter queue once the limit is reached. The
// original delivery is acked either way so bad input never blocks the
// queue; falling back to nack-requeue only when the republish itself
// fails.
func (c *Consumer) retryOrDead(ctx context.Context, delivery amqp.Delivery) {
	attempts := RetryCount(delivery.Headers)
	if attempts >= c.config.RetryLimit {
		c.deadLetter(ctx, delivery)
		return
	}

	ch, err := c.conn.Channel(c.config.QueueName)
	if err != nil {
		delivery.Nack(false, true)
		return
	}

	headers := amqp.Table{}
	for k, v := range delivery.Headers {
		headers[k] = v
	}
	headers[retryCountHeader] = int32(attempts + 1)

	err = ch.PublishWithContext(ctx, "", c.config.QueueName, false, false, amqp.Publishing{
		ContentType:  delivery.ContentType,
		Body:         delivery.Body,
		MessageId:    delivery.MessageId,
		DeliveryMode: amqp.Persistent,
		Headers:      headers,
	})
	if err != nil {
		c.log.WithError(err).Error("Failed to republish message for retry")
		delivery.Nack(false, true)
		return
	}

	MessagesRetried.WithLabelValues(c.config.QueueName).Inc()
	delivery.Ack(false)
}

func (c *Consumer) deadLetter(ctx context.Context, delivery amqp.Delivery) {
	deadQueue := c.config.QueueName + DeadLetterSuffix

	ch, err := c.conn.Channel(c.config.QueueName)
	if err != nil {
		delivery.Nack(false, true)
		return
	}

	if _, err := ch.QueueDeclare(deadQueue, true, false, false, false, nil); err != nil {
		c.log.WithError(err).Errorf("Failed to declare dead-letter queue %s", deadQueue)
		delivery.Nack(false, true)
		return
	}

	err = ch.PublishWithContext(ctx, "", deadQueue, false, false, amqp.Publishing{
		ContentType:  delivery.ContentType,
		Body:         delivery.Body,
		MessageId:    delivery.MessageId,
		DeliveryMode: amqp.Persistent,
		Headers:      delivery.Headers,
	})
	if err != nil {
		c.log.WithError(err).Error("Failed to publish to dead-letter queue")
		delivery.Nack(false, true)
		return
	}

	MessagesDeadLettered.WithLabelValues(c.config.QueueName).Inc()
	c.log.Warnf("Message %s moved to %s after %d attempts", delivery.MessageId, deadQueue, c.config.RetryLimit)
	delivery.Ack(false)
}

// RetryCount reads the retry counter header, tolerating the integer types
// the AMQP table codec may hand back.
func RetryCount(headers amqp.Table) int {
	if headers == nil {
		return 0
	}
	switch v := headers[retryCountHeader].(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (c *Consumer) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}
