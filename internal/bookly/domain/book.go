package domain

import "time"

type Book struct {
	ID            string
	Title         string
	Author        string
	Publisher     string
	PublishedDate time.Time // date only, UTC midnight
	PageCount     int
	Language      string
	UserID        string // owner; empty for books that predate ownership
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BookDetail is a book with its reviews (newest first) and tags.
type BookDetail struct {
	Book
	Reviews []Review
	Tags    []Tag
}

// BookUpdate carries the mutable fields of a book. Nil fields are left
// unchanged.
type BookUpdate struct {
	Title     *string
	Author    *string
	Publisher *string
	PageCount *int
	Language  *string
}
