package domain

import "time"

// Account is a registered user. Accounts are append-only.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`

	// LegacyPassword holds a plaintext password found in documents written
	// before hashing was introduced. It is hashed on load and never saved.
	LegacyPassword string `json:"password,omitempty"`
}

// DemoAccount describes the account seeded into an empty account document.
var DemoAccount = struct {
	ID       string
	Email    string
	Password string
	Name     string
}{
	ID:       "1",
	Email:    "demo@example.com",
	Password: "demo123",
	Name:     "Demo User",
}
