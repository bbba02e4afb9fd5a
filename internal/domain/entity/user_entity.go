package entity

import (
	"strings"
	"time"
)

// User is the aggregate root: account identity plus the owned task list.
// Passwords are stored as bcrypt hashes in PasswordHash and never leave
// the server.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Tasks        []Task
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail lowercases and trims an email address. Uniqueness is
// enforced on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
