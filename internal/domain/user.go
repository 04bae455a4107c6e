package domain

import "time"

// User represents an authenticated user of the system.
type User struct {
	ID           string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
