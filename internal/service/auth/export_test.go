package auth

import (
	"github.com/AR-Project/notesapp/internal/repository"
	"github.com/AR-Project/notesapp/internal/service/auth/tokenmanager"
)

// Test-only accessors so the external test package can inspect the
// service's unexported collaborators without widening the real API.

func (s *AuthService) RefreshRepoForTest() repository.RefreshTokenRepo {
	return s.refreshRepo
}

func (s *AuthService) TokenForTest() *tokenmanager.TokenManager {
	return s.token
}
