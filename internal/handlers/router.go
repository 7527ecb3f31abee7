package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/AR-Project/notesapp/internal/handlers/middleware"
	"github.com/AR-Project/notesapp/internal/logger"
	"github.com/AR-Project/notesapp/internal/models"
	"github.com/AR-Project/notesapp/internal/repository"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	userService userService,
	notesService notesService,
	logger logger.Logger,
) http.Handler {
	authMiddleware := middleware.AuthMiddleware(authService)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	mux := http.NewServeMux()

	mux.Handle("POST /users", handleRegisterUser(userService, logger))
	mux.Handle("GET /users/{id}", handleGetUser(userService, logger))

	mux.Handle("POST /authentications", handleLogin(authService, logger))
	mux.Handle("PUT /authentications", handleRefresh(authService, logger))
	mux.Handle("DELETE /authentications", handleLogout(authService, logger))

	mux.Handle("POST /notes", withAuth(handleCreateNote(notesService, logger)))
	mux.Handle("GET /notes", withAuth(handleListNotes(notesService, logger)))
	mux.Handle("GET /notes/{id}", withAuth(handleGetNote(notesService, logger)))
	mux.Handle("PUT /notes/{id}", withAuth(handleUpdateNote(notesService, logger)))
	mux.Handle("DELETE /notes/{id}", withAuth(handleDeleteNote(notesService, logger)))

	mux.Handle("POST /collaborations", withAuth(handleAddCollaboration(notesService, logger)))
	mux.Handle("DELETE /collaborations", withAuth(handleRemoveCollaboration(notesService, logger)))

	handler := chain(mux,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Login user with username and password
	// Has to return apperrors.ErrBadCredentials if the pair does not match
	Login(ctx context.Context, username string, password string) (models.TokenPair, error)

	// Mint a new access token for a previously issued refresh token
	// Has to return apperrors.ErrRefreshTokenNotFound if the token was never
	// issued or is already revoked
	Refresh(ctx context.Context, refreshToken string) (models.IssuedToken, error)

	// Revoke the refresh token so it can not be used again
	Logout(ctx context.Context, refreshToken string) error

	// Resolve an access token to the user it was issued to
	Authenticate(ctx context.Context, accessToken string) (uuid.UUID, error)
}

type userService interface {
	Register(ctx context.Context, username string, fullname string, password string) (models.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type notesService interface {
	CreateNote(ctx context.Context, owner uuid.UUID, params repository.NoteParams) (models.Note, error)
	GetNote(ctx context.Context, noteID uuid.UUID, userID uuid.UUID) (models.Note, error)
	ListNotes(ctx context.Context, userID uuid.UUID) ([]models.Note, error)
	UpdateNote(ctx context.Context, noteID uuid.UUID, userID uuid.UUID, params repository.NoteParams) (models.Note, error)
	DeleteNote(ctx context.Context, noteID uuid.UUID, userID uuid.UUID) error

	AddCollaborator(ctx context.Context, noteID uuid.UUID, ownerID uuid.UUID, userID uuid.UUID) error
	RemoveCollaborator(ctx context.Context, noteID uuid.UUID, ownerID uuid.UUID, userID uuid.UUID) error
}
