package model

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// AuthUser is the identity resolved from a session token and attached to an
// authenticated request. HasCredentials reports whether an encrypted X API
// credential record exists for the user.
type AuthUser struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	CreatedAt      time.Time `json:"createdAt"`
	HasCredentials bool      `json:"hasXCredentials"`
}
