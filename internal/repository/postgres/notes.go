package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AR-Project/notesapp/internal/apperrors"
	"github.com/AR-Project/notesapp/internal/models"
	"github.com/AR-Project/notesapp/internal/repository"
)

type NoteRepo struct {
	DB DBTX
}

const createNote = `-- name: CreateNote
INSERT INTO notes (owner_id, title, body, tags)
VALUES ($1, $2, $3, $4)
RETURNING id, owner_id, title, body, tags, created_at, updated_at
`

func (r *NoteRepo) CreateNote(ctx context.Context, owner uuid.UUID, params repository.NoteParams) (models.Note, error) {
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}

	rows, _ := r.DB.Query(ctx, createNote, owner, params.Title, params.Body, tags)
	note, err := pgx.CollectOneRow(rows, rowToNote)
	if err != nil {
		return note, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

const getNote = `-- name: GetNote
SELECT id, owner_id, title, body, tags, created_at, updated_at
FROM notes
WHERE id = $1
`

func (r *NoteRepo) GetNote(ctx context.Context, noteID uuid.UUID) (models.Note, error) {
	rows, _ := r.DB.Query(ctx, getNote, noteID)
	return collectNote(rows)
}

const getNoteOwner = `-- name: GetNoteOwner
SELECT owner_id
FROM notes
WHERE id = $1
`

func (r *NoteRepo) GetNoteOwner(ctx context.Context, noteID uuid.UUID) (uuid.UUID, error) {
	rows, _ := r.DB.Query(ctx, getNoteOwner, noteID)
	owner, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	switch {
	case err == nil:
		return owner, nil
	case errors.Is(err, pgx.ErrNoRows):
		return uuid.Nil, fmt.Errorf("repo error: %w", apperrors.ErrNoteNotFound)
	default:
		return uuid.Nil, fmt.Errorf("db error: %w", err)
	}
}

const listNotes = `-- name: ListNotes
SELECT DISTINCT n.id, n.owner_id, n.title, n.body, n.tags, n.created_at, n.updated_at
FROM notes n
LEFT JOIN collaborations c ON c.note_id = n.id
WHERE n.owner_id = $1 OR c.user_id = $1
ORDER BY n.created_at
`

// ListNotes returns notes the user owns or collaborates on
func (r *NoteRepo) ListNotes(ctx context.Context, userID uuid.UUID) ([]models.Note, error) {
	rows, _ := r.DB.Query(ctx, listNotes, userID)
	notes, err := pgx.CollectRows(rows, rowToNote)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return notes, nil
}

const updateNote = `-- name: UpdateNote
UPDATE notes
SET title = $2, body = $3, tags = $4, updated_at = now()
WHERE id = $1
RETURNING id, owner_id, title, body, tags, created_at, updated_at
`

func (r *NoteRepo) UpdateNote(ctx context.Context, noteID uuid.UUID, params repository.NoteParams) (models.Note, error) {
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}

	rows, _ := r.DB.Query(ctx, updateNote, noteID, params.Title, params.Body, tags)
	return collectNote(rows)
}

const deleteNote = `-- name: DeleteNote
DELETE FROM notes
WHERE id = $1
RETURNING id
`

func (r *NoteRepo) DeleteNote(ctx context.Context, noteID uuid.UUID) error {
	rows, _ := r.DB.Query(ctx, deleteNote, noteID)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("repo error: %w", apperrors.ErrNoteNotFound)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

func collectNote(rows pgx.Rows) (models.Note, error) {
	note, err := pgx.CollectOneRow(rows, rowToNote)

	switch {
	case err == nil:
		return note, nil
	case errors.Is(err, pgx.ErrNoRows):
		return note, fmt.Errorf("repo error: %w", apperrors.ErrNoteNotFound)
	default:
		return note, fmt.Errorf("db error: %w", err)
	}
}

func rowToNote(row pgx.CollectableRow) (models.Note, error) {
	var n models.Note
	err := row.Scan(&n.ID, &n.Owner, &n.Title, &n.Body, &n.Tags, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}
