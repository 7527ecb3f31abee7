package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AR-Project/notesapp/internal/apperrors"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const addToken = `-- name: AddRefreshToken
INSERT INTO refresh_tokens (token)
VALUES ($1)
RETURNING token
`

func (r *RefreshTokenRepo) Add(ctx context.Context, token string) error {
	rows, _ := r.DB.Query(ctx, addToken, token)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const verifyToken = `-- name: VerifyRefreshToken
SELECT token
FROM refresh_tokens
WHERE token = $1
`

func (r *RefreshTokenRepo) Verify(ctx context.Context, token string) error {
	rows, _ := r.DB.Query(ctx, verifyToken, token)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[string])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

const removeToken = `-- name: RemoveRefreshToken
DELETE FROM refresh_tokens
WHERE token = $1
RETURNING token
`

// Remove deletes the token row
// DELETE .. RETURNING keeps membership check and removal one atomic
// statement: two concurrent removals of the same token cannot both succeed
func (r *RefreshTokenRepo) Remove(ctx context.Context, token string) error {
	rows, _ := r.DB.Query(ctx, removeToken, token)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[string])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}
