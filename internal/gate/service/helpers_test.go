package service

import (
	"context"
	"net/url"
	"sync"
	"testing"

	"github.com/aussiebroadwan/gate/internal/gate/channels"
	"github.com/aussiebroadwan/gate/internal/gate/store/drivers/sqlite"
	"github.com/aussiebroadwan/gate/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewMemoryStore(url.PathEscape(t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestSealer(t *testing.T) *cryptox.Sealer {
	t.Helper()

	sealer, err := cryptox.NewSealer([]byte("service-test-master-key"))
	require.NoError(t, err)
	return sealer
}

// recordingCourier remembers every dispatch it was handed.
type recordingCourier struct {
	mu         sync.Mutex
	dispatches []Dispatch
	creds      []map[string]string
	err        error
}

func (c *recordingCourier) Deliver(_ context.Context, d Dispatch, creds map[string]string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	c.dispatches = append(c.dispatches, d)
	c.creds = append(c.creds, creds)
	return "delivery-1", nil
}

func (c *recordingCourier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.dispatches)
}

type testGateway struct {
	*Gateway
	courier *recordingCourier
}

func newTestGateway(t *testing.T) testGateway {
	t.Helper()

	st := newTestStore(t)
	courier := &recordingCourier{}
	reg := NewRegistry()
	reg.MustRegister(MessagingActions(courier)...)
	reg.MustRegister(Action{
		Name: "market_pulse",
		Handler: func(_ context.Context, inv Invocation) (any, error) {
			return map[string]any{"session": inv.SessionID, "has_creds": inv.Credentials != nil}, nil
		},
	})

	return testGateway{
		Gateway: &Gateway{
			Vault:    &VaultService{Store: st, Sealer: newTestSealer(t)},
			Tokens:   &ResumeService{Store: st},
			Catalog:  channels.Default(),
			Registry: reg,
		},
		courier: courier,
	}
}

func whatsappConfig() map[string]string {
	return map[string]string{
		"account_sid": "AC123",
		"auth_token":  "secret-token",
		"from_number": "whatsapp:+14155238886",
	}
}
