package models

// Group represents a named category posts can belong to, addressed by its
// unique URL-safe slug.
type Group struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Slug        string `json:"slug" db:"slug"`
	Description string `json:"description" db:"description"`
}
