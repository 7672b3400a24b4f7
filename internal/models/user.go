package models

import "time"

// User represents an account that can log in to manage recipes.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the public view of a user carried in session tokens.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
