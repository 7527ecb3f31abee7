// Package tokenmanager mints and verifies signed tokens.
//
// It is deliberately pure: no storage access, no side effects. Whether a
// refresh token is still honored is a ledger question answered elsewhere;
// revocation is a ledger row delete, never a key rotation.
package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AR-Project/notesapp/internal/apperrors"
	"github.com/AR-Project/notesapp/internal/models"
)

const (
	defaultAccessTokenTTL = 15 * time.Minute
	defaultSigningMethod  = "HS256"
)

// Kind separates access from refresh tokens
// One signing key serves both; a token of one kind never verifies as the other
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"uid"`
	Kind   Kind      `json:"knd"`
}

// Token manager config with sensible defaults
type Config struct {
	// Secret key to sign token payloads
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set the default is used
	Alg string

	// Access token lifetime
	// If not set the default is used
	AccessTTL time.Duration
}

type TokenManager struct {
	// Secret key to sign tokens
	key string

	// JWT MAC (Message Authentication Code) algorithm
	alg jwt.SigningMethod

	// Access token lifetime
	// Refresh tokens carry no expiry: their lifetime ends at ledger removal
	accessTTL time.Duration
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = defaultAccessTokenTTL
	}

	return &TokenManager{
		key:       cfg.SecretKey,
		alg:       jwt.GetSigningMethod(cfg.Alg),
		accessTTL: cfg.AccessTTL,
	}, nil
}

// IssueAccess mints a short lived access token for the user
func (m *TokenManager) IssueAccess(userID uuid.UUID) (models.IssuedToken, error) {
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(m.accessTTL)

	value, err := m.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
		Kind:   KindAccess,
	})
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing access token. Err: %w", err)
	}

	return models.IssuedToken{Value: value, ExpiresAt: expiresAt}, nil
}

// IssueRefresh mints a long lived refresh token for the user
// No exp claim on purpose: the ledger, not the signature, bounds its life
func (m *TokenManager) IssueRefresh(userID uuid.UUID) (models.IssuedToken, error) {
	now := time.Now().Truncate(time.Second)

	value, err := m.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID: userID,
		Kind:   KindRefresh,
	})
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing refresh token. Err: %w", err)
	}

	return models.IssuedToken{Value: value}, nil
}

// Parse validates the token signature, expiry and kind and returns the user id
// Fails with apperrors.ErrTokenExpired or apperrors.ErrTokenInvalid
func (m *TokenManager) Parse(token string, kind Kind) (uuid.UUID, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
	)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return uuid.Nil, fmt.Errorf("%w: %w", apperrors.ErrTokenExpired, err)
	case err != nil:
		return uuid.Nil, fmt.Errorf("%w: %w", apperrors.ErrTokenInvalid, err)
	case claims.Kind != kind:
		return uuid.Nil, fmt.Errorf("%w: expected %q token, got %q", apperrors.ErrTokenInvalid, kind, claims.Kind)
	}

	return claims.UserID, nil
}

func (m *TokenManager) sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(m.alg, claims).SignedString([]byte(m.key))
}
