package domain

import "time"

// Notification kinds. warn_*/ban_* variants are produced by moderation
// decisions and follow the "<action>_<targetKind>" pattern.
const (
	TypeNewPost       = "new_post"
	TypePostRemoved   = "remove_post"
	TypeCommentRemove = "remove_comment"
	TypeLike          = "like"
	TypeComment       = "comment"
	TypeReply         = "reply"
	TypeFollow        = "follow"

	WarnPrefix = "warn_"
	BanPrefix  = "ban_"
)

type Notification struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`  // recipient
	ActorID   string    `db:"actor_id"` // who caused the event
	Type      string    `db:"type"`
	TargetID  string    `db:"target_id"` // post or comment id
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}
