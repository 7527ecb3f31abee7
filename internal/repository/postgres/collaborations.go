package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AR-Project/notesapp/internal/apperrors"
)

type CollaborationRepo struct {
	DB DBTX
}

const addCollaboration = `-- name: AddCollaboration
INSERT INTO collaborations (note_id, user_id)
VALUES ($1, $2)
RETURNING note_id
`

func (r *CollaborationRepo) AddCollaboration(ctx context.Context, noteID uuid.UUID, userID uuid.UUID) error {
	rows, _ := r.DB.Query(ctx, addCollaboration, noteID, userID)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
			return fmt.Errorf("repo error: %w", apperrors.ErrCollaborationExists)
		case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("repo error: %w", apperrors.ErrNoteNotFound)
		default:
			return fmt.Errorf("db error: %w", err)
		}
	}

	return nil
}

const removeCollaboration = `-- name: RemoveCollaboration
DELETE FROM collaborations
WHERE note_id = $1 AND user_id = $2
RETURNING note_id
`

func (r *CollaborationRepo) RemoveCollaboration(ctx context.Context, noteID uuid.UUID, userID uuid.UUID) error {
	rows, _ := r.DB.Query(ctx, removeCollaboration, noteID, userID)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("repo error: %w", apperrors.ErrCollaborationNotFound)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

const isCollaborator = `-- name: IsCollaborator
SELECT EXISTS (
    SELECT 1 FROM collaborations
    WHERE note_id = $1 AND user_id = $2
)
`

func (r *CollaborationRepo) IsCollaborator(ctx context.Context, noteID uuid.UUID, userID uuid.UUID) (bool, error) {
	rows, _ := r.DB.Query(ctx, isCollaborator, noteID, userID)
	exists, err := pgx.CollectOneRow(rows, pgx.RowTo[bool])
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}
