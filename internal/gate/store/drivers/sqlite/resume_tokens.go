package sqlite

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/gate/internal/gate/domain"
	"github.com/aussiebroadwan/gate/internal/gate/store"
)

type resumeTokensRepo struct {
	s *Store
}

func (r *resumeTokensRepo) CreateResumeToken(ctx context.Context, tokenHash string, a domain.PendingAction) error {
	args, err := store.MarshalArgs(a.Args)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO resume_tokens (token_hash, user_id, session_id, action_name, args, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (token_hash) DO NOTHING`

	res, err := r.s.writer.ExecContext(ctx, q,
		tokenHash, a.UserID, a.SessionID, a.ActionName, string(args), a.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("sqlite: create resume token: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: create resume token: %w", err)
	}
	if n == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

// ConsumeResumeToken deletes and returns the row in one statement, so two
// consumers can never both observe it.
func (r *resumeTokensRepo) ConsumeResumeToken(ctx context.Context, tokenHash string) (domain.PendingAction, error) {
	const q = `
DELETE FROM resume_tokens
WHERE token_hash = ?
RETURNING user_id, session_id, action_name, args, created_at`

	var (
		a    domain.PendingAction
		args string
	)
	err := r.s.writer.QueryRowContext(ctx, q, tokenHash).
		Scan(&a.UserID, &a.SessionID, &a.ActionName, &args, &a.CreatedAt)
	if err != nil {
		return domain.PendingAction{}, mapNotFound(err)
	}

	if a.Args, err = store.UnmarshalArgs([]byte(args)); err != nil {
		return domain.PendingAction{}, err
	}
	return a, nil
}
