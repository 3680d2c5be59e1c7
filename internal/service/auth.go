package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/postpilot/backend/internal/config"
	"github.com/postpilot/backend/internal/db"
	"github.com/postpilot/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxInputLength    = 128
)

// userStore is the persistence surface AuthService needs.
type userStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// credentialProber checks whether a credential record exists for a user.
type credentialProber interface {
	GetCredentialByUserID(ctx context.Context, userID int64) (*model.Credential, error)
}

// AuthService handles signup/login and stateless session tokens.
//
// Session tokens are HS256 JWTs binding {email} with a 7-day expiry. There is
// no server-side revocation: logout only clears the cookie, and an issued
// token stays valid until it expires. Known limitation, kept deliberately.
type AuthService struct {
	users       userStore
	credentials credentialProber
	jwtSecret   []byte
	tokenTTL    time.Duration
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func NewAuthService(users userStore, credentials credentialProber, cfg config.AuthConfig) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}

	tokenTTL := cfg.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}

	return &AuthService{
		users:       users,
		credentials: credentials,
		jwtSecret:   []byte(cfg.JWTSecret),
		tokenTTL:    tokenTTL,
	}, nil
}

func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateSignup(username, email, password); err != nil {
		return nil, "", err
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, "", ErrConflict
	} else if !db.IsNoRows(err) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.CreateUser(ctx, username, email, string(hash))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, "", ErrConflict
		}
		return nil, "", err
	}

	token, err := s.IssueSessionToken(user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", ErrInvalidInput
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, "", ErrUnauthorized
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrUnauthorized
	}

	token, err := s.IssueSessionToken(user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueSessionToken signs a session token for the given email.
func (s *AuthService) IssueSessionToken(email string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseSessionToken verifies a session token and returns the email it binds.
// Every failure mode (malformed token, bad signature, expiry, missing email)
// collapses to ErrUnauthorized; verification failures are business as usual.
func (s *AuthService) ParseSessionToken(tokenStr string) (string, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrUnauthorized
	}
	if claims.Email == "" {
		return "", ErrUnauthorized
	}
	return claims.Email, nil
}

// ResolveIdentity turns a session token into the full request identity,
// including whether an X credential record exists. A credential-store failure
// degrades the flag to false rather than failing authentication.
func (s *AuthService) ResolveIdentity(ctx context.Context, tokenStr string) (*model.AuthUser, error) {
	email, err := s.ParseSessionToken(tokenStr)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	hasCredentials := false
	if _, err := s.credentials.GetCredentialByUserID(ctx, user.ID); err == nil {
		hasCredentials = true
	} else if !db.IsNoRows(err) {
		slog.WarnContext(ctx, "credential lookup failed, reporting hasXCredentials=false",
			"userId", user.ID, "error", err)
	}

	return &model.AuthUser{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		CreatedAt:      user.CreatedAt,
		HasCredentials: hasCredentials,
	}, nil
}

func validateSignup(username, email, password string) error {
	if username == "" || len(username) > maxInputLength {
		return ErrInvalidInput
	}
	if email == "" || len(email) > maxInputLength || !strings.Contains(email, "@") {
		return ErrInvalidInput
	}
	if len(password) < minPasswordLength || len(password) > maxInputLength {
		return ErrInvalidInput
	}
	return nil
}
