package db

import (
	"context"

	"github.com/postpilot/backend/internal/model"
)

// UpsertCredential writes the single credential row for a user, replacing any
// existing one. Concurrent writers race last-writer-wins, which is fine given
// there is exactly one credential slot per user.
func (db *Postgres) UpsertCredential(ctx context.Context, userID int64, apiKeyEncrypted, apiSecretEncrypted string) error {
	query := `
		INSERT INTO x_credentials (user_id, api_key_encrypted, api_secret_encrypted, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			api_key_encrypted = EXCLUDED.api_key_encrypted,
			api_secret_encrypted = EXCLUDED.api_secret_encrypted,
			updated_at = NOW()
	`
	if _, err := db.Pool.Exec(ctx, query, userID, apiKeyEncrypted, apiSecretEncrypted); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func (db *Postgres) GetCredentialByUserID(ctx context.Context, userID int64) (*model.Credential, error) {
	query := `
		SELECT user_id, api_key_encrypted, api_secret_encrypted, updated_at
		FROM x_credentials
		WHERE user_id = $1
	`
	var cred model.Credential
	err := db.Pool.QueryRow(ctx, query, userID).Scan(
		&cred.UserID,
		&cred.APIKeyEncrypted,
		&cred.APISecretEncrypted,
		&cred.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, mapStoreErr(err)
	}
	return &cred, nil
}

// DeleteCredential is idempotent: deleting a row that does not exist succeeds.
func (db *Postgres) DeleteCredential(ctx context.Context, userID int64) error {
	if _, err := db.Pool.Exec(ctx, `DELETE FROM x_credentials WHERE user_id = $1`, userID); err != nil {
		return mapStoreErr(err)
	}
	return nil
}
