// Package crypto implements the at-rest encryption scheme for stored X API
// credentials.
//
// Secrets are sealed with AES-256-GCM under a key derived from a process-wide
// passphrase and persisted as a self-contained envelope string
// "<ivHex>:<authTagHex>:<ciphertextHex>". The format is fixed and unversioned;
// changing the cipher or the passphrase requires migrating every stored row.
//
// Key derivation is a single unsalted SHA-256 of the passphrase. That is a
// known weak point inherited from the stored-data format: no salt, no work
// factor. It is not a password KDF and must not be treated as one.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	nonceLength         = 12
	minPassphraseLength = 32
)

var (
	// ErrWeakPassphrase means the configured passphrase is absent or shorter
	// than 32 characters. This is a startup configuration error.
	ErrWeakPassphrase = errors.New("credential passphrase must be at least 32 characters")

	// ErrMalformedPayload means a stored envelope does not have the
	// iv:authTag:ciphertext shape.
	ErrMalformedPayload = errors.New("malformed encrypted payload")

	// ErrAuthentication means the GCM tag did not verify: the envelope was
	// tampered with or sealed under a different key.
	ErrAuthentication = errors.New("payload authentication failed")
)

// DeriveKey turns the process-wide passphrase into a 32-byte AES key.
func DeriveKey(passphrase string) ([]byte, error) {
	if len(passphrase) < minPassphraseLength {
		return nil, ErrWeakPassphrase
	}
	sum := sha256.Sum256([]byte(passphrase))
	return sum[:], nil
}

// Cipher seals and opens credential envelopes with a fixed key.
type Cipher struct {
	aead cipher.AEAD
}

func NewCipher(key []byte) (*Cipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random 12-byte nonce and returns the
// envelope string. Two calls with the same plaintext produce different
// envelopes.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)

	// Seal returns ciphertext || tag; the envelope stores them as separate
	// hex fields with the tag first.
	split := len(sealed) - c.aead.Overhead()
	ciphertext, tag := sealed[:split], sealed[split:]

	return strings.Join([]string{
		hex.EncodeToString(nonce),
		hex.EncodeToString(tag),
		hex.EncodeToString(ciphertext),
	}, ":"), nil
}

// Decrypt opens an envelope produced by Encrypt. It returns
// ErrMalformedPayload when the envelope does not parse and ErrAuthentication
// when the tag does not verify; no partial plaintext is ever returned.
func (c *Cipher) Decrypt(payload string) (string, error) {
	parts := strings.Split(payload, ":")
	if len(parts) != 3 {
		return "", ErrMalformedPayload
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != c.aead.NonceSize() {
		return "", ErrMalformedPayload
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != c.aead.Overhead() {
		return "", ErrMalformedPayload
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", ErrMalformedPayload
	}

	plaintext, err := c.aead.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return "", ErrAuthentication
	}

	return string(plaintext), nil
}
