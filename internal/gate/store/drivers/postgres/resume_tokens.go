package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aussiebroadwan/gate/internal/gate/domain"
	"github.com/aussiebroadwan/gate/internal/gate/store"
)

type resumeTokensRepo struct {
	db *sql.DB
}

func (r *resumeTokensRepo) CreateResumeToken(ctx context.Context, tokenHash string, a domain.PendingAction) error {
	args, err := store.MarshalArgs(a.Args)
	if err != nil {
		return err
	}

	// args goes over the wire as text; lib/pq would send []byte as bytea.
	const q = `
INSERT INTO resume_tokens (token_hash, user_id, session_id, action_name, args, created_at)
VALUES ($1, $2, $3, $4, $5::jsonb, $6)
ON CONFLICT (token_hash) DO NOTHING`

	res, err := r.db.ExecContext(ctx, q,
		tokenHash, a.UserID, a.SessionID, a.ActionName, string(args), a.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("postgres: create resume token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: create resume token: %w", err)
	}
	if n == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

// ConsumeResumeToken deletes and returns the row in one statement. The row
// lock taken by DELETE makes a concurrent consumer see zero rows.
func (r *resumeTokensRepo) ConsumeResumeToken(ctx context.Context, tokenHash string) (domain.PendingAction, error) {
	const q = `
DELETE FROM resume_tokens
WHERE token_hash = $1
RETURNING user_id, session_id, action_name, args::text, created_at`

	var (
		a    domain.PendingAction
		args string
	)
	err := r.db.QueryRowContext(ctx, q, tokenHash).
		Scan(&a.UserID, &a.SessionID, &a.ActionName, &args, &a.CreatedAt)
	if err != nil {
		return domain.PendingAction{}, mapNotFound(err)
	}
	a.CreatedAt = a.CreatedAt.UTC()

	if a.Args, err = store.UnmarshalArgs([]byte(args)); err != nil {
		return domain.PendingAction{}, err
	}
	return a, nil
}
