package auth

import (
	"time"
)

// User is an account row. PasswordHash never leaves the package.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Preferences  string    `json:"-"` // JSON blob, merged on update
	Plan         string    `json:"plan"`
	CreatedAt    time.Time `json:"createdAt"`
}

const (
	planFree    = "free"
	planPremium = "premium"
)
