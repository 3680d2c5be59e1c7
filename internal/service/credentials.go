package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/postpilot/backend/internal/crypto"
	"github.com/postpilot/backend/internal/db"
	"github.com/postpilot/backend/internal/model"
)

// credentialStore is the persistence surface CredentialService needs.
type credentialStore interface {
	UpsertCredential(ctx context.Context, userID int64, apiKeyEncrypted, apiSecretEncrypted string) error
	GetCredentialByUserID(ctx context.Context, userID int64) (*model.Credential, error)
	DeleteCredential(ctx context.Context, userID int64) error
}

// CredentialService stores one encrypted X API credential pair per user,
// layered on the envelope cipher.
type CredentialService struct {
	store  credentialStore
	cipher *crypto.Cipher
}

func NewCredentialService(store credentialStore, cipher *crypto.Cipher) *CredentialService {
	return &CredentialService{store: store, cipher: cipher}
}

// Upsert encrypts both fields independently and overwrites the user's single
// credential record.
func (s *CredentialService) Upsert(ctx context.Context, userID int64, apiKey, apiSecret string) error {
	apiKey = strings.TrimSpace(apiKey)
	apiSecret = strings.TrimSpace(apiSecret)
	if apiKey == "" || apiSecret == "" {
		return ErrInvalidInput
	}

	keyEncrypted, err := s.cipher.Encrypt(apiKey)
	if err != nil {
		return err
	}
	secretEncrypted, err := s.cipher.Encrypt(apiSecret)
	if err != nil {
		return err
	}

	return s.store.UpsertCredential(ctx, userID, keyEncrypted, secretEncrypted)
}

// Fetch loads the user's credential record. Absence maps to
// ErrCredentialsMissing.
func (s *CredentialService) Fetch(ctx context.Context, userID int64) (*model.Credential, error) {
	cred, err := s.store.GetCredentialByUserID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrCredentialsMissing
		}
		return nil, err
	}
	return cred, nil
}

// Delete removes the user's credential record. Deleting a record that does
// not exist succeeds.
func (s *CredentialService) Delete(ctx context.Context, userID int64) error {
	return s.store.DeleteCredential(ctx, userID)
}

// Decrypt opens both envelopes of a credential record. Any cipher failure
// means the stored row or the passphrase changed since storage; that is fatal
// for the request, not retried.
func (s *CredentialService) Decrypt(cred *model.Credential) (apiKey, apiSecret string, err error) {
	apiKey, err = s.cipher.Decrypt(cred.APIKeyEncrypted)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrCredentialsCorrupted, err)
	}
	apiSecret, err = s.cipher.Decrypt(cred.APISecretEncrypted)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrCredentialsCorrupted, err)
	}
	return apiKey, apiSecret, nil
}
