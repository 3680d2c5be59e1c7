package model

import "time"

// Credential is one user's encrypted X API credential pair. At most one row
// exists per user; both fields are envelope strings (see internal/crypto).
type Credential struct {
	UserID             int64
	APIKeyEncrypted    string
	APISecretEncrypted string
	UpdatedAt          time.Time
}

type CredentialRequest struct {
	APIKey    string `json:"apiKey"`
	APISecret string `json:"apiSecret"`
}

type CredentialResponse struct {
	HasCredentials bool `json:"hasXCredentials"`
}
