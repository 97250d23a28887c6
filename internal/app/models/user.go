package models

import "time"

// User defines the user model based on the 'users' table
type User struct {
	ID       int64     `json:"id" db:"id"`
	Username string    `json:"username" db:"username"` // Unique handle shown in URLs
	Email    string    `json:"email" db:"email"`
	Password string    `json:"-" db:"password"` // Hashed password (excluded from JSON)
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`
}
