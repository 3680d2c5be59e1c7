package service

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

const maxPostLength = 280

// xPublisher is the outbound surface of the publishing pipeline.
type xPublisher interface {
	ExchangeToken(ctx context.Context, apiKey, apiSecret string) (string, error)
	Publish(ctx context.Context, accessToken, text string) (json.RawMessage, error)
}

// PublishService runs the publish pipeline: validate, load credentials,
// decrypt, exchange for a bearer token, post. Each step is a single attempt
// and the first failure is terminal; every failure mode stays distinguishable
// so callers can decide on retries themselves.
type PublishService struct {
	credentials *CredentialService
	x           xPublisher
}

func NewPublishService(credentials *CredentialService, x xPublisher) *PublishService {
	return &PublishService{credentials: credentials, x: x}
}

// Publish posts text on behalf of the user and returns the upstream payload
// verbatim. Validation runs before any decryption or network work.
func (s *PublishService) Publish(ctx context.Context, userID int64, text string) (json.RawMessage, error) {
	if strings.TrimSpace(text) == "" || utf8.RuneCountInString(text) > maxPostLength {
		return nil, ErrInvalidInput
	}

	cred, err := s.credentials.Fetch(ctx, userID)
	if err != nil {
		return nil, err
	}

	apiKey, apiSecret, err := s.credentials.Decrypt(cred)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.x.ExchangeToken(ctx, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}

	return s.x.Publish(ctx, accessToken, text)
}
