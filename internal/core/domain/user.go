package domain

import "time"

// User represents a registered user of the tracker.
type User struct {
	UserID       string    `json:"userID"` // Primary Key (UUID)
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"` // Unique; notification recipient
	PasswordHash string    `json:"-"`     // bcrypt hash, never serialized
	CreatedAt    time.Time `json:"createdAt"`
}
