// Package redis serves resume tokens from redis. Credentials stay in the
// SQL store; see store.WithResumeTokens.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/gate/internal/gate/domain"
	"github.com/aussiebroadwan/gate/internal/gate/store"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces resume token keys.
const KeyPrefix = "gate:resume:"

// Options configures a client built by Dial.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Store is a store.ResumeTokenBackend on top of a redis client.
type Store struct {
	client redis.UniversalClient
}

var _ store.ResumeTokenBackend = (*Store)(nil)

// NewStore wraps an existing client. Close closes it.
func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Dial connects to redis and checks the connection.
func Dial(ctx context.Context, opts Options) (*Store, error) {
	if opts.Addr == "" {
		opts.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", opts.Addr, err)
	}
	return NewStore(client), nil
}

// record is the stored JSON value.
type record struct {
	UserID     string          `json:"user_id"`
	SessionID  string          `json:"session_id"`
	ActionName string          `json:"action_name"`
	Args       json.RawMessage `json:"args"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (s *Store) CreateResumeToken(ctx context.Context, tokenHash string, a domain.PendingAction) error {
	args, err := store.MarshalArgs(a.Args)
	if err != nil {
		return err
	}
	b, err := json.Marshal(record{
		UserID:     a.UserID,
		SessionID:  a.SessionID,
		ActionName: a.ActionName,
		Args:       args,
		CreatedAt:  a.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("redis: encode resume token: %w", err)
	}

	ok, err := s.client.SetNX(ctx, KeyPrefix+tokenHash, b, 0).Result()
	if err != nil {
		return fmt.Errorf("redis: create resume token: %w", err)
	}
	if !ok {
		return store.ErrAlreadyExists
	}
	return nil
}

// ConsumeResumeToken uses GETDEL, so the read and delete are one command.
func (s *Store) ConsumeResumeToken(ctx context.Context, tokenHash string) (domain.PendingAction, error) {
	b, err := s.client.GetDel(ctx, KeyPrefix+tokenHash).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.PendingAction{}, store.ErrNotFound
	}
	if err != nil {
		return domain.PendingAction{}, fmt.Errorf("redis: consume resume token: %w", err)
	}

	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return domain.PendingAction{}, fmt.Errorf("redis: decode resume token: %w", err)
	}
	args, err := store.UnmarshalArgs(rec.Args)
	if err != nil {
		return domain.PendingAction{}, err
	}
	return domain.PendingAction{
		UserID:     rec.UserID,
		SessionID:  rec.SessionID,
		ActionName: rec.ActionName,
		Args:       args,
		CreatedAt:  rec.CreatedAt,
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
