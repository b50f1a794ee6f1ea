package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/gate/internal/gate/domain"
	"github.com/aussiebroadwan/gate/internal/gate/store"
	"github.com/aussiebroadwan/gate/pkg/cryptox"
	"github.com/aussiebroadwan/gate/pkg/slogx"
)

// resumeTokenAttempts bounds retries on fingerprint collisions.
const resumeTokenAttempts = 3

var ErrResumeTokenExhausted = errors.New("could not allocate a unique resume token")

// ResumeService parks actions behind single-use bearer tokens. Only the
// token fingerprint is persisted.
type ResumeService struct {
	Store store.Store
	Now   func() time.Time
}

// Create stores the pending action and returns the raw token.
func (s *ResumeService) Create(ctx context.Context, userID, sessionID, actionName string, args map[string]any) (string, error) {
	log := slogx.FromContext(ctx)

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	pending := domain.PendingAction{
		UserID:     userID,
		SessionID:  sessionID,
		ActionName: actionName,
		Args:       args,
		CreatedAt:  now,
	}

	for range resumeTokenAttempts {
		token, err := cryptox.GenerateToken(cryptox.TokenSize128)
		if err != nil {
			return "", fmt.Errorf("resume: generate token: %w", err)
		}

		err = s.Store.ResumeTokens().CreateResumeToken(ctx, cryptox.FingerprintToken(token), pending)
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("resume token collision, retrying")
			continue
		}
		if err != nil {
			log.Error("failed to store resume token",
				slog.String("action", actionName),
				slog.Any("error", err),
			)
			return "", fmt.Errorf("resume: create: %w", err)
		}

		log.Debug("resume token issued", slog.String("action", actionName))
		return token, nil
	}
	return "", ErrResumeTokenExhausted
}

// Consume redeems a token exactly once. Unknown, used and empty tokens all
// report (zero, false, nil).
func (s *ResumeService) Consume(ctx context.Context, token string) (domain.PendingAction, bool, error) {
	if token == "" {
		return domain.PendingAction{}, false, nil
	}

	pending, err := s.Store.ResumeTokens().ConsumeResumeToken(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return domain.PendingAction{}, false, nil
	}
	if err != nil {
		return domain.PendingAction{}, false, fmt.Errorf("resume: consume: %w", err)
	}
	return pending, true, nil
}
