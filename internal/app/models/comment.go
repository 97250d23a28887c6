package models

import "time"

// MaxCommentLength bounds comment text, matching the column constraint.
const MaxCommentLength = 100

// Comment represents a user comment attached to a post.
type Comment struct {
	ID       int64     `json:"id" db:"id"`
	Text     string    `json:"text" db:"text"`
	Created  time.Time `json:"created" db:"created"`
	AuthorID int64     `json:"authorId" db:"author_id"`
	PostID   int64     `json:"postId" db:"post_id"`

	// Related entities
	Author *User `json:"author,omitempty"`
}
