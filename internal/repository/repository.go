package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/AR-Project/notesapp/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with the username exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, fullname string, hashedPassword string) (models.User, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

// Ledger of currently valid refresh tokens
// Pure membership set keyed by the opaque token string: content is never decoded here
type RefreshTokenRepo interface {
	// Add freshly minted token to the ledger
	// Callers only ever add fresh mints, so duplicate insert is allowed to fail
	Add(ctx context.Context, token string) error

	// Verify token membership
	// Must return apperrors.ErrRefreshTokenNotFound if the token is absent
	Verify(ctx context.Context, token string) error

	// Remove token from the ledger (revocation)
	// Check and delete are atomic per row: out of two concurrent removals
	// of the same token at most one succeeds
	// Must return apperrors.ErrRefreshTokenNotFound if no matching row existed
	Remove(ctx context.Context, token string) error
}

// Fields a caller may set on a note
type NoteParams struct {
	Title string
	Body  string
	Tags  []string
}

// Note repository interface
// Every method that takes a note id must return apperrors.ErrNoteNotFound
// if no such note exists
type NoteRepo interface {
	CreateNote(ctx context.Context, owner uuid.UUID, params NoteParams) (models.Note, error)
	GetNote(ctx context.Context, noteID uuid.UUID) (models.Note, error)

	// Owner lookup only: the authorization cascade needs nothing else
	GetNoteOwner(ctx context.Context, noteID uuid.UUID) (uuid.UUID, error)

	// All notes the user owns or collaborates on
	ListNotes(ctx context.Context, userID uuid.UUID) ([]models.Note, error)

	UpdateNote(ctx context.Context, noteID uuid.UUID, params NoteParams) (models.Note, error)
	DeleteNote(ctx context.Context, noteID uuid.UUID) error
}

// Collaboration relation between notes and non-owner users
type CollaborationRepo interface {
	// Grant access; apperrors.ErrCollaborationExists on duplicate grant
	AddCollaboration(ctx context.Context, noteID uuid.UUID, userID uuid.UUID) error

	// Revoke access; apperrors.ErrCollaborationNotFound if no such grant
	RemoveCollaboration(ctx context.Context, noteID uuid.UUID, userID uuid.UUID) error

	IsCollaborator(ctx context.Context, noteID uuid.UUID, userID uuid.UUID) (bool, error)
}

// Storage combines all repositories backed by a single database
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Note() NoteRepo
	Collaboration() CollaborationRepo

	// Run fn within a database transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}
