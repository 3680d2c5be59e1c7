package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/postpilot/backend/internal/crypto"
	"github.com/postpilot/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCredentialStore struct {
	records  map[int64]*model.Credential
	failWith error
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{records: map[int64]*model.Credential{}}
}

func (f *fakeCredentialStore) UpsertCredential(_ context.Context, userID int64, apiKeyEncrypted, apiSecretEncrypted string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.records[userID] = &model.Credential{
		UserID:             userID,
		APIKeyEncrypted:    apiKeyEncrypted,
		APISecretEncrypted: apiSecretEncrypted,
		UpdatedAt:          time.Now(),
	}
	return nil
}

func (f *fakeCredentialStore) GetCredentialByUserID(_ context.Context, userID int64) (*model.Credential, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if record, ok := f.records[userID]; ok {
		return record, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCredentialStore) DeleteCredential(_ context.Context, userID int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	delete(f.records, userID)
	return nil
}

func newTestCipher(t *testing.T) *crypto.Cipher {
	t.Helper()
	key, err := crypto.DeriveKey(strings.Repeat("p", 32))
	require.NoError(t, err)
	cipher, err := crypto.NewCipher(key)
	require.NoError(t, err)
	return cipher
}

func TestCredentialUpsertFetchRoundTrip(t *testing.T) {
	store := newFakeCredentialStore()
	svc := NewCredentialService(store, newTestCipher(t))

	require.NoError(t, svc.Upsert(context.Background(), 7, "my-api-key", "my-api-secret"))

	cred, err := svc.Fetch(context.Background(), 7)
	require.NoError(t, err)
	assert.NotEqual(t, "my-api-key", cred.APIKeyEncrypted)

	apiKey, apiSecret, err := svc.Decrypt(cred)
	require.NoError(t, err)
	assert.Equal(t, "my-api-key", apiKey)
	assert.Equal(t, "my-api-secret", apiSecret)
}

func TestCredentialUpsertValidation(t *testing.T) {
	svc := NewCredentialService(newFakeCredentialStore(), newTestCipher(t))

	for _, tt := range []struct {
		name              string
		apiKey, apiSecret string
	}{
		{name: "empty-key", apiKey: "", apiSecret: "secret"},
		{name: "empty-secret", apiKey: "key", apiSecret: ""},
		{name: "whitespace-only", apiKey: "   ", apiSecret: "\t"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Upsert(context.Background(), 7, tt.apiKey, tt.apiSecret)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCredentialUpsertTrimsInput(t *testing.T) {
	store := newFakeCredentialStore()
	svc := NewCredentialService(store, newTestCipher(t))

	require.NoError(t, svc.Upsert(context.Background(), 7, "  my-api-key  ", "\tmy-api-secret\n"))

	cred, err := svc.Fetch(context.Background(), 7)
	require.NoError(t, err)
	apiKey, apiSecret, err := svc.Decrypt(cred)
	require.NoError(t, err)
	assert.Equal(t, "my-api-key", apiKey)
	assert.Equal(t, "my-api-secret", apiSecret)
}

func TestCredentialUpsertOverwrites(t *testing.T) {
	store := newFakeCredentialStore()
	svc := NewCredentialService(store, newTestCipher(t))

	require.NoError(t, svc.Upsert(context.Background(), 7, "old-key", "old-secret"))
	require.NoError(t, svc.Upsert(context.Background(), 7, "new-key", "new-secret"))

	cred, err := svc.Fetch(context.Background(), 7)
	require.NoError(t, err)
	apiKey, _, err := svc.Decrypt(cred)
	require.NoError(t, err)
	assert.Equal(t, "new-key", apiKey)
	assert.Len(t, store.records, 1)
}

func TestCredentialFetchMissing(t *testing.T) {
	svc := NewCredentialService(newFakeCredentialStore(), newTestCipher(t))

	_, err := svc.Fetch(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCredentialsMissing)
}

func TestCredentialDeleteIsIdempotent(t *testing.T) {
	store := newFakeCredentialStore()
	svc := NewCredentialService(store, newTestCipher(t))

	require.NoError(t, svc.Delete(context.Background(), 42))

	require.NoError(t, svc.Upsert(context.Background(), 42, "key", "secret"))
	require.NoError(t, svc.Delete(context.Background(), 42))
	require.NoError(t, svc.Delete(context.Background(), 42))

	_, err := svc.Fetch(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCredentialsMissing)
}

func TestCredentialDecryptCorrupted(t *testing.T) {
	store := newFakeCredentialStore()
	svc := NewCredentialService(store, newTestCipher(t))

	require.NoError(t, svc.Upsert(context.Background(), 7, "key", "secret"))
	cred, err := svc.Fetch(context.Background(), 7)
	require.NoError(t, err)

	t.Run("tampered envelope", func(t *testing.T) {
		tampered := *cred
		flipped := []byte(tampered.APIKeyEncrypted)
		if flipped[0] == '0' {
			flipped[0] = '1'
		} else {
			flipped[0] = '0'
		}
		tampered.APIKeyEncrypted = string(flipped)
		_, _, err := svc.Decrypt(&tampered)
		assert.ErrorIs(t, err, ErrCredentialsCorrupted)
	})

	t.Run("different passphrase", func(t *testing.T) {
		other := NewCredentialService(store, func() *crypto.Cipher {
			key, err := crypto.DeriveKey(strings.Repeat("q", 32))
			require.NoError(t, err)
			cipher, err := crypto.NewCipher(key)
			require.NoError(t, err)
			return cipher
		}())
		_, _, err := other.Decrypt(cred)
		assert.ErrorIs(t, err, ErrCredentialsCorrupted)
	})
}
