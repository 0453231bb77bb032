package domain

import "time"

// ViolatedTag is prepended to a user's tags when moderation flags them.
const ViolatedTag = "Violated"

type User struct {
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	Tags      []string  `db:"tags"`
	CreatedAt time.Time `db:"created_at"`
}

// Follow records that FromID follows ToID.
type Follow struct {
	ID        string    `db:"id"`
	FromID    string    `db:"from_id"`
	ToID      string    `db:"to_id"`
	CreatedAt time.Time `db:"created_at"`
}
