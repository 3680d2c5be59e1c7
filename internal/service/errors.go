package service

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")

	// ErrMisconfigured marks startup-time configuration problems.
	ErrMisconfigured = errors.New("service config invalid")

	// ErrCredentialsMissing means no X API credential record exists for the
	// user. Absence is a normal state ("not connected"), not an infrastructure
	// failure.
	ErrCredentialsMissing = errors.New("x api credentials not found")

	// ErrCredentialsCorrupted means a stored envelope no longer decrypts: the
	// row was tampered with or the encryption passphrase changed since it was
	// written. The user has to reconnect their account.
	ErrCredentialsCorrupted = errors.New("stored x api credentials cannot be decrypted")
)
