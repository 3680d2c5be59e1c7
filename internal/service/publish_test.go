package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/postpilot/backend/internal/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeXClient struct {
	exchangeCalls int
	publishCalls  int

	exchangeErr error
	publishErr  error
	token       string
	response    json.RawMessage

	gotAPIKey    string
	gotAPISecret string
	gotToken     string
	gotText      string
}

func (f *fakeXClient) ExchangeToken(_ context.Context, apiKey, apiSecret string) (string, error) {
	f.exchangeCalls++
	f.gotAPIKey, f.gotAPISecret = apiKey, apiSecret
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return f.token, nil
}

func (f *fakeXClient) Publish(_ context.Context, accessToken, text string) (json.RawMessage, error) {
	f.publishCalls++
	f.gotToken, f.gotText = accessToken, text
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	return f.response, nil
}

func newPublishFixture(t *testing.T) (*PublishService, *CredentialService, *fakeXClient) {
	t.Helper()
	credentials := NewCredentialService(newFakeCredentialStore(), newTestCipher(t))
	x := &fakeXClient{token: "T1", response: json.RawMessage(`{"id":"42"}`)}
	return NewPublishService(credentials, x), credentials, x
}

func TestPublishValidatesBeforeAnyWork(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "whitespace-only", text: "   "},
		{name: "too-long", text: strings.Repeat("a", 281)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, x := newPublishFixture(t)
			_, err := svc.Publish(context.Background(), 7, tt.text)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, x.exchangeCalls)
			assert.Zero(t, x.publishCalls)
		})
	}
}

func TestPublishAllows280Runes(t *testing.T) {
	svc, credentials, _ := newPublishFixture(t)
	require.NoError(t, credentials.Upsert(context.Background(), 7, "AK", "AS"))

	_, err := svc.Publish(context.Background(), 7, strings.Repeat("ü", 280))
	require.NoError(t, err)
}

func TestPublishWithoutCredentials(t *testing.T) {
	svc, _, x := newPublishFixture(t)

	_, err := svc.Publish(context.Background(), 7, "hello")
	assert.ErrorIs(t, err, ErrCredentialsMissing)
	assert.Zero(t, x.exchangeCalls)
}

func TestPublishWithCorruptedCredentials(t *testing.T) {
	store := newFakeCredentialStore()
	credentials := NewCredentialService(store, newTestCipher(t))
	x := &fakeXClient{token: "T1"}
	svc := NewPublishService(credentials, x)

	// raw envelopes written around the cipher, undecryptable
	require.NoError(t, store.UpsertCredential(context.Background(), 7, "not:an:envelope", "neither:is:this"))

	_, err := svc.Publish(context.Background(), 7, "hello")
	assert.ErrorIs(t, err, ErrCredentialsCorrupted)
	assert.Zero(t, x.exchangeCalls)
	assert.Zero(t, x.publishCalls)
}

func TestPublishHappyPath(t *testing.T) {
	svc, credentials, x := newPublishFixture(t)
	require.NoError(t, credentials.Upsert(context.Background(), 7, "AK", "AS"))

	payload, err := svc.Publish(context.Background(), 7, "hello")
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"42"}`, string(payload))
	assert.Equal(t, "AK", x.gotAPIKey)
	assert.Equal(t, "AS", x.gotAPISecret)
	assert.Equal(t, "T1", x.gotToken)
	assert.Equal(t, "hello", x.gotText)
	assert.Equal(t, 1, x.exchangeCalls)
	assert.Equal(t, 1, x.publishCalls)
}

func TestPublishStopsAfterFailedExchange(t *testing.T) {
	svc, credentials, x := newPublishFixture(t)
	require.NoError(t, credentials.Upsert(context.Background(), 7, "AK", "AS"))
	x.exchangeErr = &client.TokenExchangeError{StatusCode: 401, Body: `{"error":"unauthorized_client"}`}

	_, err := svc.Publish(context.Background(), 7, "hello")

	var exchangeErr *client.TokenExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, 401, exchangeErr.StatusCode)
	assert.Equal(t, 1, x.exchangeCalls)
	assert.Zero(t, x.publishCalls)
}

func TestPublishPropagatesPublishError(t *testing.T) {
	svc, credentials, x := newPublishFixture(t)
	require.NoError(t, credentials.Upsert(context.Background(), 7, "AK", "AS"))
	x.publishErr = &client.PublishError{StatusCode: 403, Body: `{"detail":"forbidden"}`}

	_, err := svc.Publish(context.Background(), 7, "hello")

	var publishErr *client.PublishError
	require.ErrorAs(t, err, &publishErr)
	assert.Equal(t, 403, publishErr.StatusCode)
}

func TestPublishStoreFailurePropagates(t *testing.T) {
	store := newFakeCredentialStore()
	store.failWith = errors.New("connection refused")
	credentials := NewCredentialService(store, newTestCipher(t))
	x := &fakeXClient{}
	svc := NewPublishService(credentials, x)

	_, err := svc.Publish(context.Background(), 7, "hello")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCredentialsMissing)
	assert.Zero(t, x.exchangeCalls)
}
