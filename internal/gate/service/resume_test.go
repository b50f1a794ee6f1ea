package service

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/gate/internal/gate/domain"
	"github.com/aussiebroadwan/gate/internal/gate/store"
	"github.com/aussiebroadwan/gate/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestResumeCreateConsume(t *testing.T) {
	st := newTestStore(t)
	r := &ResumeService{Store: st}
	ctx := context.Background()

	token, err := r.Create(ctx, "u1", "s1", "send_whatsapp", map[string]any{"to_number": "+971", "n": 1})
	require.NoError(t, err)
	require.Len(t, token, 22)

	// Only the fingerprint is a key.
	_, err = st.ResumeTokens().ConsumeResumeToken(ctx, token)
	require.ErrorIs(t, err, store.ErrNotFound)

	pending, ok, err := r.Consume(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "u1", pending.UserID)
	require.Equal(t, "s1", pending.SessionID)
	require.Equal(t, "send_whatsapp", pending.ActionName)
	require.Equal(t, "+971", pending.Args["to_number"])
	require.Equal(t, json.Number("1"), pending.Args["n"])

	_, ok, err = r.Consume(ctx, token)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResumeConsumeUnknownAndEmpty(t *testing.T) {
	r := &ResumeService{Store: newTestStore(t)}

	_, ok, err := r.Consume(context.Background(), "")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = r.Consume(context.Background(), "never-issued")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResumeTokensAreDistinct(t *testing.T) {
	r := &ResumeService{Store: newTestStore(t)}
	seen := map[string]bool{}
	for range 50 {
		token, err := r.Create(context.Background(), "u1", "s1", "send_email", nil)
		require.NoError(t, err)
		require.False(t, seen[token])
		seen[token] = true
	}
}

func TestResumeConcurrentConsume(t *testing.T) {
	r := &ResumeService{Store: newTestStore(t)}
	ctx := context.Background()

	token, err := r.Create(ctx, "u1", "s1", "call_investor", nil)
	require.NoError(t, err)

	var (
		wg  sync.WaitGroup
		won atomic.Int32
	)
	for range 12 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := r.Consume(ctx, token)
			if err == nil && ok {
				won.Add(1)
			}
		}()
	}
	wg.Wait()
	require.EqualValues(t, 1, won.Load())
}

// collidingTokens reports a collision for the first n creates.
type collidingTokens struct {
	n       int
	calls   int
	created map[string]domain.PendingAction
}

func (c *collidingTokens) CreateResumeToken(_ context.Context, hash string, a domain.PendingAction) error {
	c.calls++
	if c.calls <= c.n {
		return store.ErrAlreadyExists
	}
	c.created[hash] = a
	return nil
}

func (c *collidingTokens) ConsumeResumeToken(_ context.Context, hash string) (domain.PendingAction, error) {
	a, ok := c.created[hash]
	if !ok {
		return domain.PendingAction{}, store.ErrNotFound
	}
	delete(c.created, hash)
	return a, nil
}

func (c *collidingTokens) Ping(context.Context) error { return nil }
func (c *collidingTokens) Close() error               { return nil }

func TestResumeRetriesCollisions(t *testing.T) {
	backend := &collidingTokens{n: 2, created: map[string]domain.PendingAction{}}
	r := &ResumeService{Store: store.WithResumeTokens(newTestStore(t), backend)}

	token, err := r.Create(context.Background(), "u1", "s1", "send_email", nil)
	require.NoError(t, err)
	require.Equal(t, 3, backend.calls)
	require.Contains(t, backend.created, cryptox.FingerprintToken(token))
}

func TestResumeGivesUpAfterThreeCollisions(t *testing.T) {
	backend := &collidingTokens{n: 3, created: map[string]domain.PendingAction{}}
	r := &ResumeService{Store: store.WithResumeTokens(newTestStore(t), backend)}

	_, err := r.Create(context.Background(), "u1", "s1", "send_email", nil)
	require.ErrorIs(t, err, ErrResumeTokenExhausted)
	require.Equal(t, 3, backend.calls)
}
