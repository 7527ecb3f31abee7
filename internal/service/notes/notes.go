// Package notes implements note CRUD behind the access control cascade and
// keeps the per-user cached listing coherent with the store.
package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AR-Project/notesapp/internal/apperrors"
	"github.com/AR-Project/notesapp/internal/cache"
	"github.com/AR-Project/notesapp/internal/logger"
	"github.com/AR-Project/notesapp/internal/models"
	"github.com/AR-Project/notesapp/internal/repository"
)

const defaultListingTTL = 30 * time.Minute

// Cached listings live under "notes:<userID>"
const listingKeyPrefix = "notes:"

type Config struct {
	// How long a cached listing may live
	// If not set the default is used
	ListingTTL time.Duration

	// Logger for soft cache failures
	// If not set logs are discarded
	Logger logger.Logger
}

type NotesService struct {
	noteRepo   repository.NoteRepo
	collabRepo repository.CollaborationRepo
	cache      cache.Cache
	listingTTL time.Duration
	logger     logger.Logger
}

func NewService(cfg Config, noteRepo repository.NoteRepo, collabRepo repository.CollaborationRepo, listingCache cache.Cache) (*NotesService, error) {
	if noteRepo == nil || collabRepo == nil {
		return nil, errors.New("repos must not be nil")
	}
	if listingCache == nil {
		return nil, errors.New("cache must not be nil")
	}

	if cfg.ListingTTL == 0 {
		cfg.ListingTTL = defaultListingTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNoOpLogger()
	}

	return &NotesService{
		noteRepo:   noteRepo,
		collabRepo: collabRepo,
		cache:      listingCache,
		listingTTL: cfg.ListingTTL,
		logger:     cfg.Logger,
	}, nil
}

// VerifyAccess decides whether the user may read or edit the note.
// The cascade: note owner allows, then collaboration row allows,
// otherwise apperrors.ErrAccessDenied.
// A missing note fails with apperrors.ErrNoteNotFound before any
// authorization question is asked: not-found always wins over denied
func (s *NotesService) VerifyAccess(ctx context.Context, noteID uuid.UUID, userID uuid.UUID) error {
	owner, err := s.noteRepo.GetNoteOwner(ctx, noteID)
	if err != nil {
		return err
	}

	if owner == userID {
		return nil
	}

	ok, err := s.collabRepo.IsCollaborator(ctx, noteID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %s on note %s: %w", userID, noteID, apperrors.ErrAccessDenied)
	}

	return nil
}

// VerifyOwner is the strict ownership check gating destructive operations.
// Collaborators are denied here no matter what VerifyAccess would say
func (s *NotesService) VerifyOwner(ctx context.Context, noteID uuid.UUID, userID uuid.UUID) error {
	owner, err := s.noteRepo.GetNoteOwner(ctx, noteID)
	if err != nil {
		return err
	}

	if owner != userID {
		return fmt.Errorf("user %s is not the owner of note %s: %w", userID, noteID, apperrors.ErrAccessDenied)
	}

	return nil
}

func (s *NotesService) CreateNote(ctx context.Context, owner uuid.UUID, params repository.NoteParams) (models.Note, error) {
	note, err := s.noteRepo.CreateNote(ctx, owner, params)
	if err != nil {
		return note, err
	}

	s.InvalidateListing(ctx, owner)

	return note, nil
}

func (s *NotesService) GetNote(ctx context.Context, noteID uuid.UUID, userID uuid.UUID) (models.Note, error) {
	if err := s.VerifyAccess(ctx, noteID, userID); err != nil {
		return models.Note{}, err
	}

	return s.noteRepo.GetNote(ctx, noteID)
}

// ListNotes returns all notes the user owns or collaborates on.
// The listing is served from cache when possible; any cache failure
// degrades to a miss and the listing is recomputed from the store
func (s *NotesService) ListNotes(ctx context.Context, userID uuid.UUID) ([]models.Note, error) {
	key := listingKey(userID)

	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		var notes []models.Note
		if err := json.Unmarshal([]byte(cached), &notes); err == nil {
			return notes, nil
		}
		s.logger.Warn("dropping undecodable cached listing", "key", key)
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("listing cache read failed, falling back to store", "key", key, "error", err.Error())
	}

	notes, err := s.noteRepo.ListNotes(ctx, userID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(notes); err == nil {
		if err := s.cache.Set(ctx, key, string(encoded), s.listingTTL); err != nil {
			s.logger.Warn("listing cache write failed", "key", key, "error", err.Error())
		}
	}

	return notes, nil
}

func (s *NotesService) UpdateNote(ctx context.Context, noteID uuid.UUID, userID uuid.UUID, params repository.NoteParams) (models.Note, error) {
	if err := s.VerifyAccess(ctx, noteID, userID); err != nil {
		return models.Note{}, err
	}

	note, err := s.noteRepo.UpdateNote(ctx, noteID, params)
	if err != nil {
		return note, err
	}

	// Invalidate the owner's listing, not the editor's:
	// a collaborator's edit changes what the owner's listing shows
	s.InvalidateListing(ctx, note.Owner)

	return note, nil
}

// DeleteNote destroys the note. Ownership is required: collaboration
// grants read and edit, never delete
func (s *NotesService) DeleteNote(ctx context.Context, noteID uuid.UUID, userID uuid.UUID) error {
	if err := s.VerifyOwner(ctx, noteID, userID); err != nil {
		return err
	}

	if err := s.noteRepo.DeleteNote(ctx, noteID); err != nil {
		return err
	}

	s.InvalidateListing(ctx, userID)

	return nil
}

// AddCollaborator grants userID read/edit access to the note.
// Only the owner may grant; the collaborator's cached listing is
// invalidated so the shared note shows up right away
func (s *NotesService) AddCollaborator(ctx context.Context, noteID uuid.UUID, ownerID uuid.UUID, userID uuid.UUID) error {
	if err := s.VerifyOwner(ctx, noteID, ownerID); err != nil {
		return err
	}

	if err := s.collabRepo.AddCollaboration(ctx, noteID, userID); err != nil {
		return err
	}

	s.InvalidateListing(ctx, userID)

	return nil
}

func (s *NotesService) RemoveCollaborator(ctx context.Context, noteID uuid.UUID, ownerID uuid.UUID, userID uuid.UUID) error {
	if err := s.VerifyOwner(ctx, noteID, ownerID); err != nil {
		return err
	}

	if err := s.collabRepo.RemoveCollaboration(ctx, noteID, userID); err != nil {
		return err
	}

	s.InvalidateListing(ctx, userID)

	return nil
}

// InvalidateListing drops the user's cached listing.
// Best effort and at least once: a failure is surfaced in the log but
// never fails the mutation that triggered it
func (s *NotesService) InvalidateListing(ctx context.Context, userID uuid.UUID) {
	key := listingKey(userID)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.logger.Error("listing cache invalidation failed", "key", key, "error", err.Error())
	}
}

func listingKey(userID uuid.UUID) string {
	return listingKeyPrefix + userID.String()
}
