package messaging

import (
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

var (
	ErrChannelNotReady = errors.New("channel not ready")
	ErrShutdown        = errors.New("connection is shutting down")
)

type ConnectionConfig struct {
	URL string
	// Queues the process publishes to or consumes from. One channel is
	// opened per queue so every consumer gets its own prefetch/ack scope.
	Queues              []string
	Prefetch            int
	CloseReconnectDelay time.Duration
	DialRetryDelay      time.Duration
}

// Connection owns the single physical broker connection of a process and
// one channel per declared queue. All channels are torn down and rebuilt
// together whenever the connection drops.
type Connection struct {
	config   ConnectionConfig
	log      *logrus.Logger
	mutex    sync.RWMutex
	conn     *amqp.Connection
	channels map[string]*amqp.Channel
	onReady  []func()
	closed   bool
}

func NewConnection(config ConnectionConfig, log *logrus.Logger) *Connection {
	if config.CloseReconnectDelay <= 0 {
		config.CloseReconnectDelay = 3 * time.Second
	}
	if config.DialRetryDelay <= 0 {
		config.DialRetryDelay = 5 * time.Second
	}
	if config.Prefetch <= 0 {
		config.Prefetch = 10
	}
	return &Connection{
		config: config,
		log:    log,
	}
}

// OnReady registers a hook fired after every successful connect, the first
// one included. Register all hooks before calling Connect.
func (c *Connection) OnReady(fn func()) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.onReady = append(c.onReady, fn)
}

// Connect dials the broker and opens a channel per declared queue. On
// failure a retry is scheduled; the caller does not need to call again.
func (c *Connection) Connect() error {
	c.mutex.Lock()

	if c.closed {
		c.mutex.Unlock()
		return ErrShutdown
	}

	conn, err := amqp.Dial(c.config.URL)
	if err != nil {
		c.mutex.Unlock()
		c.log.WithError(err).Errorf("RabbitMQ connection error, retrying in %s", c.config.DialRetryDelay)
		c.scheduleReconnect(c.config.DialRetryDelay)
		return err
	}

	channels := make(map[string]*amqp.Channel, len(c.config.Queues))
	for _, queue := range c.config.Queues {
		ch, err := c.setupChannel(conn, queue)
		if err != nil {
			conn.Close()
			c.mutex.Unlock()
			c.log.WithError(err).Errorf("RabbitMQ channel setup failed for %s, retrying in %s", queue, c.config.DialRetryDelay)
			c.scheduleReconnect(c.config.DialRetryDelay)
			return err
		}
		channels[queue] = ch
	}

	c.conn = conn
	c.channels = channels
	hooks := make([]func(), len(c.onReady))
	copy(hooks, c.onReady)
	c.mutex.Unlock()

	go c.handleConnectionClose(conn)

	c.log.Infof("RabbitMQ connected: %s", c.config.URL)

	for _, fn := range hooks {
		fn()
	}
	return nil
}

func (c *Connection) setupChannel(conn *amqp.Connection, queue string) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		ch.Close()
		return nil, err
	}

	if err := ch.Qos(c.config.Prefetch, 0, false); err != nil {
		ch.Close()
		return nil, err
	}

	return ch, nil
}

func (c *Connection) handleConnectionClose(conn *amqp.Connection) {
	err := <-conn.NotifyClose(make(chan *amqp.Error, 1))
	if err != nil {
		c.log.Errorf("RabbitMQ connection closed: %v", err)
	} else {
		c.log.Info("RabbitMQ connection closed")
	}

	c.mutex.Lock()
	c.conn = nil
	c.channels = nil
	closed := c.closed
	c.mutex.Unlock()

	if closed {
		return
	}
	c.scheduleReconnect(c.config.CloseReconnectDelay)
}

// Connect reschedules itself on failure, so one call here keeps retrying
// until the broker is back.
func (c *Connection) scheduleReconnect(delay time.Duration) {
	time.AfterFunc(delay, func() {
		c.Connect()
	})
}

// Channel returns the current channel for a queue. Callers get
// ErrChannelNotReady while the connection is down and are expected to
// retry rather than block.
func (c *Connection) Channel(queue string) (*amqp.Channel, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	ch, ok := c.channels[queue]
	if !ok || ch == nil {
		return nil, ErrChannelNotReady
	}
	return ch, nil
}

func (c *Connection) IsConnected() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.conn != nil && !c.conn.IsClosed() && !c.closed
}

func (c *Connection) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.closed = true

	for _, ch := range c.channels {
		ch.Close()
	}
	c.channels = nil

	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
