package messaging

// Factory centralizes the queue sets and consumer presets of every
// service process.
type Factory struct {
	prefetch   int
	retryLimit int
}

func NewFactory(prefetch, retryLimit int) *Factory {
	return &Factory{prefetch: prefetch, retryLimit: retryLimit}
}

// NotifyQueues are the queues the notification service touches: its own
// event queue plus the followers request queue used for the nested RPC.
func (f *Factory) NotifyQueues() []string {
	return []string{QueueNotifications, QueueUserFollowers}
}

func (f *Factory) UserQueues() []string {
	return []string{QueueUserFollowers, QueueViolateUser}
}

func (f *Factory) PostQueues() []string {
	return []string{QueueViolatePost, QueueStats, QueueNotifications}
}

func (f *Factory) StatsQueues() []string {
	return []string{QueueStats, QueueViolatePost, QueueViolateUser, QueueViolateOther, QueueNotifications}
}

func (f *Factory) NotificationConsumer() ConsumerConfig {
	return ConsumerConfig{
		QueueName:     QueueNotifications,
		ConsumerTag:   "notify-service",
		PrefetchCount: f.prefetch,
		AckPolicy:     RetryThenDead,
		RetryLimit:    f.retryLimit,
	}
}

// FollowersRPCConsumer serves follower lookups; the server acks requests
// unconditionally, so failures never poison the queue.
func (f *Factory) FollowersRPCConsumer() ConsumerConfig {
	return ConsumerConfig{
		QueueName:     QueueUserFollowers,
		ConsumerTag:   "user-service",
		PrefetchCount: f.prefetch,
		AckPolicy:     AckAlways,
	}
}

func (f *Factory) ViolateUserConsumer() ConsumerConfig {
	return ConsumerConfig{
		QueueName:     QueueViolateUser,
		ConsumerTag:   "user-service-violate",
		PrefetchCount: f.prefetch,
		AckPolicy:     NackRequeueOnError,
	}
}

func (f *Factory) CascadeDeleteConsumer() ConsumerConfig {
	return ConsumerConfig{
		QueueName:     QueueViolatePost,
		ConsumerTag:   "post-service",
		PrefetchCount: f.prefetch,
		AckPolicy:     RetryThenDead,
		RetryLimit:    f.retryLimit,
	}
}

// StatsConsumer keeps nack-requeue semantics: a processing error is
// redelivered rather than dropped.
func (f *Factory) StatsConsumer() ConsumerConfig {
	return ConsumerConfig{
		QueueName:     QueueStats,
		ConsumerTag:   "stats-service",
		PrefetchCount: f.prefetch,
		AckPolicy:     NackRequeueOnError,
	}
}
