package messaging

import "time"

// Queue names shared by every service. All queues are durable and carry
// JSON bodies.
const (
	QueueNotifications = "notification_queue"
	QueueUserFollowers = "user_followers_queue"
	QueueStats         = "stats_queue"
	QueueViolatePost   = "violate_post_queue"
	QueueViolateUser   = "violate_user_queue"
	QueueViolateOther  = "violate_other_queue"

	// DeadLetterSuffix names the parking queue a message moves to once its
	// retry budget is spent. Nothing consumes these queues.
	DeadLetterSuffix = ".dead"

	// replyToQueue is the broker-provided pseudo-queue used to route RPC
	// responses back to the requesting process.
	replyToQueue = "amq.rabbitmq.reply-to"
)

// NotificationEvent is the envelope on the notification queue. Depending
// on Type it describes a post, like, comment, follow or moderation action.
type NotificationEvent struct {
	ActorID       string `json:"actorId"`
	Type          string `json:"type"`
	TargetID      string `json:"targetId"`
	UserID        string `json:"userID"`
	ReplyToUserID string `json:"replyToUserID,omitempty"`
}

// DeleteCommand drives the cascade delete orchestrator.
type DeleteCommand struct {
	Type   string `json:"type"` // "post" or "comment"
	Target string `json:"target"`
}

// FollowersRequest is the RPC request the notification service sends to
// the user service before fanning out a new_post event.
type FollowersRequest struct {
	Type    string `json:"type"` // always "get_followers"
	ActorID string `json:"actorId"`
}

type FollowersResponse struct {
	ActorID   string   `json:"actorId"`
	Followers []string `json:"followers"`
}

// ViolationCheckRequest asks the stats service whether a user is currently
// restricted. Check carries the moderation kind with a "violation_"
// prefix, e.g. "violation_comment".
type ViolationCheckRequest struct {
	UserID string `json:"userID"`
	Check  string `json:"check"`
}

// ViolationCheckResult answers a violation check. Expired true means the
// ban has run out (or never existed) and the action is allowed.
type ViolationCheckResult struct {
	Expired   bool       `json:"expired"`
	ExpiredAt *time.Time `json:"expiredAt,omitempty"`
	Action    string     `json:"action,omitempty"`
}

// ViolateUserCommand tells the user service to mark a user record after a
// moderation decision.
type ViolateUserCommand struct {
	Event     string     `json:"event,omitempty"`
	UserID    string     `json:"userID"`
	Action    string     `json:"action,omitempty"`
	Type      string     `json:"type,omitempty"`
	Target    string     `json:"target,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	End       bool       `json:"end,omitempty"`
	ExpiredAt *time.Time `json:"expiredAt,omitempty"`
}
