package domain

import "time"

type Review struct {
	ID        string
	Rating    int // 1..5
	Text      string
	UserID    string
	BookID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
