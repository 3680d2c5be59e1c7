// Client for the X API: OAuth2 client-credentials token exchange followed by
// a single publish call. Both calls are one attempt each; retry policy belongs
// to the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/postpilot/backend/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const httpCallTimeout = 10 * time.Second

// TokenExchangeError is a non-success response from the OAuth token endpoint,
// carrying the upstream status and body for diagnostics.
type TokenExchangeError struct {
	StatusCode int
	Body       string
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed with status %d", e.StatusCode)
}

// PublishError is a non-success response from the publish endpoint.
type PublishError struct {
	StatusCode int
	Body       string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish failed with status %d", e.StatusCode)
}

type XClient struct {
	tokenURL   string
	publishURL string
	httpClient *http.Client
}

func NewXClient(cfg config.XConfig) *XClient {
	return &XClient{
		tokenURL:   cfg.TokenURL,
		publishURL: cfg.PublishURL,
		httpClient: &http.Client{
			Timeout: httpCallTimeout,
		},
	}
}

// ExchangeToken performs the client-credentials grant: POST to the token
// endpoint with Basic auth from the key/secret pair and body
// grant_type=client_credentials. The bearer token is returned and never
// stored.
func (c *XClient) ExchangeToken(ctx context.Context, apiKey, apiSecret string) (string, error) {
	conf := clientcredentials.Config{
		ClientID:     apiKey,
		ClientSecret: apiSecret,
		TokenURL:     c.tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := conf.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			status := 0
			if retrieveErr.Response != nil {
				status = retrieveErr.Response.StatusCode
			}
			return "", &TokenExchangeError{StatusCode: status, Body: string(retrieveErr.Body)}
		}
		return "", fmt.Errorf("failed to execute token request: %w", err)
	}

	if token.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}
	return token.AccessToken, nil
}

// Publish posts the message as JSON with the bearer token and passes the
// upstream success payload through verbatim.
func (c *XClient) Publish(ctx context.Context, accessToken, text string) (json.RawMessage, error) {
	payload, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal publish request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.publishURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute publish request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read publish response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &PublishError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return json.RawMessage(body), nil
}
