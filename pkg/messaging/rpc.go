package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

var ErrRPCTimeout = errors.New("rpc call timed out")

// pendingCalls is the process-local correlation table. At most one entry
// exists per live correlation id; an entry is consumed the moment its
// reply arrives and replies for unknown ids are dropped.
type pendingCalls struct {
	mutex sync.Mutex
	calls map[string]chan []byte
}

func newPendingCalls() *pendingCalls {
	return &pendingCalls{calls: make(map[string]chan []byte)}
}

func (p *pendingCalls) add(id string) chan []byte {
	waiter := make(chan []byte, 1)
	p.mutex.Lock()
	p.calls[id] = waiter
	p.mutex.Unlock()
	return waiter
}

// resolve hands the body to the waiter and deletes the entry. Returns
// false when no call is pending for the id.
func (p *pendingCalls) resolve(id string, body []byte) bool {
	p.mutex.Lock()
	waiter, ok := p.calls[id]
	if ok {
		delete(p.calls, id)
	}
	p.mutex.Unlock()

	if !ok {
		return false
	}
	waiter <- body
	return true
}

func (p *pendingCalls) remove(id string) {
	p.mutex.Lock()
	delete(p.calls, id)
	p.mutex.Unlock()
}

func (p *pendingCalls) clear() {
	p.mutex.Lock()
	p.calls = make(map[string]chan []byte)
	p.mutex.Unlock()
}

func (p *pendingCalls) size() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.calls)
}

// RPCClient layers request/response on top of one-way queues using the
// broker's anonymous reply pseudo-queue. One long-lived reply consumer per
// process resolves pending calls by correlation id. Replies must be
// consumed on the same channel the request is published on, so the client
// is bound to one request queue.
type RPCClient struct {
	conn    *Connection
	queue   string
	timeout time.Duration
	pending *pendingCalls
	log     *logrus.Logger
}

// NewRPCClient wires the client to the connection. The reply consumer is
// (re)registered after every successful connect, and in-flight calls are
// dropped on reconnect since their replies can no longer be routed back.
func NewRPCClient(conn *Connection, queue string, timeout time.Duration, log *logrus.Logger) *RPCClient {
	c := &RPCClient{
		conn:    conn,
		queue:   queue,
		timeout: timeout,
		pending: newPendingCalls(),
		log:     log,
	}
	conn.OnReady(func() {
		c.pending.clear()
		go c.listen()
	})
	return c
}

func (c *RPCClient) listen() {
	ch, err := c.conn.Channel(c.queue)
	if err != nil {
		c.log.WithError(err).Error("RPC reply consumer: channel unavailable")
		return
	}

	// auto-ack: a lost reply has no retry path anyway
	msgs, err := ch.Consume(replyToQueue, "", true, false, false, false, nil)
	if err != nil {
		c.log.WithError(err).Error("RPC reply consumer: consume failed")
		return
	}

	c.log.Infof("RPC reply consumer registered for %s", c.queue)

	for msg := range msgs {
		if !c.pending.resolve(msg.CorrelationId, msg.Body) {
			RPCRepliesDropped.Inc()
			c.log.Debugf("Dropping RPC reply for unknown correlation id %s", msg.CorrelationId)
		}
	}
}

// Call publishes req to the request queue and blocks until the correlated
// reply is decoded into resp, the context is done, or the client's
// deadline expires. A request issued before the channel exists fails
// immediately with ErrChannelNotReady.
func (c *RPCClient) Call(ctx context.Context, req, resp interface{}) error {
	ch, err := c.conn.Channel(c.queue)
	if err != nil {
		return err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	correlationID := uuid.New().String()
	waiter := c.pending.add(correlationID)
	defer c.pending.remove(correlationID)

	err = ch.PublishWithContext(ctx, "", c.queue, false, false, amqp.Publishing{
		ContentType:   "application/json",
		Body:          body,
		CorrelationId: correlationID,
		ReplyTo:       replyToQueue,
	})
	if err != nil {
		return err
	}

	select {
	case reply := <-waiter:
		return json.Unmarshal(reply, resp)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			RPCTimeouts.Inc()
			return ErrRPCTimeout
		}
		return ctx.Err()
	}
}

// Pending reports the number of outstanding calls.
func (c *RPCClient) Pending() int {
	return c.pending.size()
}

// Replier is the server half of the RPC contract: publish a reply to the
// requester's reply target, echoing the correlation id.
type Replier interface {
	Reply(ctx context.Context, delivery amqp.Delivery, payload interface{}) error
}

type queueReplier struct {
	conn  *Connection
	queue string
}

// NewReplier returns a Replier publishing over the channel of the given
// request queue.
func NewReplier(conn *Connection, queue string) Replier {
	return &queueReplier{conn: conn, queue: queue}
}

// Reply is a no-op when the request carried no reply target.
func (r *queueReplier) Reply(ctx context.Context, delivery amqp.Delivery, payload interface{}) error {
	if delivery.ReplyTo == "" {
		return nil
	}

	ch, err := r.conn.Channel(r.queue)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, "", delivery.ReplyTo, false, false, amqp.Publishing{
		ContentType:   "application/json",
		Body:          body,
		CorrelationId: delivery.CorrelationId,
	})
}
