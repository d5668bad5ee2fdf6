package domain

// Role is a flat label checked against per-route allow-lists.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) String() string { return string(r) }
