package domain

import "time"

// Role separates administrators from ticket-submitting clients.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

// User is an account that can open tickets and comment on them.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin reports whether the user has full visibility.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
