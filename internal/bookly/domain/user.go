package domain

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	Role         Role
	IsVerified   bool
	PasswordHash string // bcrypt encoded, never serialised
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserProfile is a user together with the books they own and the reviews
// they wrote.
type UserProfile struct {
	User
	Books   []Book
	Reviews []Review
}
