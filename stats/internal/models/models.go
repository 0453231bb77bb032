package domain

import "time"

// Moderation action kinds.
const (
	ActionWarn = "warn"
	ActionBan  = "ban"
)

// Moderation target kinds.
const (
	TargetPost    = "post"
	TargetComment = "comment"
	TargetUser    = "user"
)

type Search struct {
	ID        string    `db:"id"`
	Keyword   string    `db:"keyword"`
	Types     []string  `db:"types"`
	Targets   []string  `db:"targets"`
	CreatedAt time.Time `db:"created_at"`
}

// TopSearch is the rolling counter per search target. Types accumulates
// the union of every tag seen for the target.
type TopSearch struct {
	ID        string    `db:"id"`
	Target    string    `db:"target"`
	Types     []string  `db:"types"`
	Count     int       `db:"count"`
	CreatedAt time.Time `db:"created_at"`
}

type Report struct {
	ID           string    `db:"id"`
	Author       string    `db:"author"`
	ReportedUser string    `db:"reported_user"`
	Type         string    `db:"type"`
	Target       string    `db:"target"`
	Content      string    `db:"content"`
	CreatedAt    time.Time `db:"created_at"`
}

// Violation is one moderation action against a user. End marks it active;
// a ban with no ExpiredAt never restricts (matching the check contract).
type Violation struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Action    string     `db:"action"`
	Type      string     `db:"type"`
	Target    string     `db:"target"`
	Reason    string     `db:"reason"`
	End       bool       `db:"end_flag"`
	ExpiredAt *time.Time `db:"expired_at"`
	CreatedAt time.Time  `db:"created_at"`
}
