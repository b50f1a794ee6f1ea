package store

import (
	"context"
	"errors"
)

// ResumeTokenBackend is a standalone resume token store such as redis.
type ResumeTokenBackend interface {
	ResumeTokens
	Ping(ctx context.Context) error
	Close() error
}

type overlay struct {
	Store
	tokens ResumeTokenBackend
}

// WithResumeTokens returns base with its resume tokens served by backend.
// Ping and Close cover both.
func WithResumeTokens(base Store, backend ResumeTokenBackend) Store {
	return &overlay{Store: base, tokens: backend}
}

func (o *overlay) ResumeTokens() ResumeTokens { return o.tokens }

func (o *overlay) Ping(ctx context.Context) error {
	if err := o.Store.Ping(ctx); err != nil {
		return err
	}
	return o.tokens.Ping(ctx)
}

func (o *overlay) Close() error {
	return errors.Join(o.tokens.Close(), o.Store.Close())
}
