package models

import "time"

// User represents a locally stored account.
type User struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Email           *string   `json:"email"`
	PasswordHash    string    `json:"-"` // Never expose this to the client
	FirstName       *string   `json:"firstName"`
	LastName        *string   `json:"lastName"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	IsAdmin         bool      `json:"isAdmin"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// StringPtr returns nil for the empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
