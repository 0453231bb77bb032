package domain

import "time"

type Post struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Content      string    `db:"content"`
	CommentCount int       `db:"comment_count"`
	CreatedAt    time.Time `db:"created_at"`
}

// Comment depth is capped at 2: replies to depth-2 comments stay at
// depth 2.
type Comment struct {
	ID        string    `db:"id"`
	PostID    string    `db:"post_id"`
	UserID    string    `db:"user_id"`
	Content   string    `db:"content"`
	ParentID  *string   `db:"parent_id"`
	Depth     int       `db:"depth"`
	CreatedAt time.Time `db:"created_at"`
}

type Like struct {
	ID        string    `db:"id"`
	PostID    string    `db:"post_id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

type Save struct {
	ID        string    `db:"id"`
	PostID    string    `db:"post_id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

// MonthlyPostCount is the per-month posting counter adjusted on create
// and cascade delete.
type MonthlyPostCount struct {
	Year  int `db:"year"`
	Month int `db:"month"`
	Count int `db:"count"`
}
