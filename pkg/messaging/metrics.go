package messaging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Messages published per queue
	MessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mq_messages_published_total",
			Help: "Total number of messages published per queue",
		},
		[]string{"queue"},
	)

	// Messages delivered to a consumer per queue
	MessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mq_messages_consumed_total",
			Help: "Total number of messages delivered to consumers",
		},
		[]string{"queue"},
	)

	// Messages requeued for another attempt
	MessagesRetried = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mq_messages_retried_total",
			Help: "Total number of messages republished for retry",
		},
		[]string{"queue"},
	)

	// Messages parked on a dead-letter queue
	MessagesDeadLettered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mq_messages_dead_lettered_total",
			Help: "Total number of messages moved to a dead-letter queue",
		},
		[]string{"queue"},
	)

	// RPC calls that hit their deadline before a reply arrived
	RPCTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mq_rpc_timeouts_total",
			Help: "Total number of RPC calls that timed out",
		},
	)

	// RPC replies with no matching pending call
	RPCRepliesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mq_rpc_replies_dropped_total",
			Help: "Total number of RPC replies dropped for an unknown correlation id",
		},
	)
)
