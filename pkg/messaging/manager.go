package messaging

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// QueueManager owns the consumer set of one process.
type QueueManager struct {
	conn      *Connection
	consumers map[string]*Consumer
	log       *logrus.Logger
	mutex     sync.RWMutex
}

func NewQueueManager(conn *Connection, log *logrus.Logger) *QueueManager {
	return &QueueManager{
		conn:      conn,
		consumers: make(map[string]*Consumer),
		log:       log,
	}
}

func (m *QueueManager) RegisterConsumer(key string, config ConsumerConfig, handler MessageHandler) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.consumers[key] = NewConsumer(m.conn, config, handler, m.log)
}

func (m *QueueManager) StartAllConsumers(ctx context.Context) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for key, consumer := range m.consumers {
		go func(k string, c *Consumer) {
			if err := c.Start(ctx); err != nil {
				m.log.WithError(err).Errorf("Consumer %s stopped with error", k)
			}
		}(key, consumer)
	}
}

func (m *QueueManager) StopAllConsumers() {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, consumer := range m.consumers {
		consumer.Stop()
	}
}

func (m *QueueManager) Close() error {
	m.StopAllConsumers()
	return m.conn.Close()
}
