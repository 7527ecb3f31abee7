// Package auth orchestrates the three session verbs: login, refresh, logout.
//
// The service itself is stateless between calls; session state lives in the
// tokens the client holds and in the refresh token ledger.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AR-Project/notesapp/internal/models"
	"github.com/AR-Project/notesapp/internal/repository"
	"github.com/AR-Project/notesapp/internal/service/auth/tokenmanager"
)

// CredentialVerifier checks a username/password pair against the user store
type CredentialVerifier interface {
	// Must return apperrors.ErrBadCredentials without revealing
	// whether the username or the password was wrong
	VerifyCredential(ctx context.Context, username string, password string) (models.User, error)
}

type AuthService struct {
	token       *tokenmanager.TokenManager
	credentials CredentialVerifier
	refreshRepo repository.RefreshTokenRepo
}

func NewService(token *tokenmanager.TokenManager, credentials CredentialVerifier, refreshRepo repository.RefreshTokenRepo) (*AuthService, error) {
	if token == nil {
		return nil, errors.New("token manager must not be nil")
	}
	if credentials == nil || refreshRepo == nil {
		return nil, errors.New("credential verifier and refresh repo must not be nil")
	}

	return &AuthService{
		token:       token,
		credentials: credentials,
		refreshRepo: refreshRepo,
	}, nil
}

// Login verifies credentials, mints a token pair and persists the refresh
// token in the ledger. The ledger insert is the authority: if it fails the
// minted tokens are discarded and never reach the client
func (s *AuthService) Login(ctx context.Context, username string, password string) (models.TokenPair, error) {
	var pair models.TokenPair

	user, err := s.credentials.VerifyCredential(ctx, username, password)
	if err != nil {
		return pair, err
	}

	access, err := s.token.IssueAccess(user.ID)
	if err != nil {
		return pair, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	refresh, err := s.token.IssueRefresh(user.ID)
	if err != nil {
		return pair, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	if err := s.refreshRepo.Add(ctx, refresh.Value); err != nil {
		return pair, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a live refresh token for a new access token.
// Ledger membership is checked before the signature so that logout stays
// effective even for cryptographically valid tokens. The refresh token
// itself is not rotated
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.IssuedToken, error) {
	if err := s.refreshRepo.Verify(ctx, refresh); err != nil {
		return models.IssuedToken{}, err
	}

	userID, err := s.token.Parse(refresh, tokenmanager.KindRefresh)
	if err != nil {
		return models.IssuedToken{}, err
	}

	access, err := s.token.IssueAccess(userID)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	return access, nil
}

// Logout revokes the refresh token by removing its ledger row.
// Fails with apperrors.ErrRefreshTokenNotFound if the token was never
// issued or is already revoked
func (s *AuthService) Logout(ctx context.Context, refresh string) error {
	return s.refreshRepo.Remove(ctx, refresh)
}

// Authenticate resolves a bearer access token to the user id it carries
func (s *AuthService) Authenticate(ctx context.Context, access string) (uuid.UUID, error) {
	userID, err := s.token.Parse(access, tokenmanager.KindAccess)
	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}
