package models

import "time"

type User struct {
	ID             string    `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	IsAdmin        bool      `db:"is_admin" json:"isAdmin"`
	ProfilePicture string    `db:"profile_picture" json:"profilePicture,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// Caller is the authenticated identity attached to a request.
type Caller struct {
	UserID   string
	Username string
	IsAdmin  bool
}
