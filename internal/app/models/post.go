package models

import "time"

// Post represents a published entry. PubDate is assigned by the server at
// creation and never changes afterwards, including through edits.
type Post struct {
	ID       int64     `json:"id" db:"id"`
	Text     string    `json:"text" db:"text"`
	PubDate  time.Time `json:"pubDate" db:"pub_date"`
	AuthorID int64     `json:"authorId" db:"author_id"`
	GroupID  *int64    `json:"groupId,omitempty" db:"group_id"` // nil when the post has no group
	Image    *string   `json:"image,omitempty" db:"image"`      // URL path of the uploaded image, nil when absent

	// Related entities
	Author *User  `json:"author,omitempty"`
	Group  *Group `json:"group,omitempty"`
}
