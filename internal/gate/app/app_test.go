package app

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/gate/internal/gate/service"
	"github.com/aussiebroadwan/gate/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type captureCourier struct {
	mu   sync.Mutex
	sent []service.Dispatch
}

func (c *captureCourier) Deliver(_ context.Context, d service.Dispatch, _ map[string]string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, d)
	return "delivery-1", nil
}

func testConfig(t *testing.T) Config {
	t.Helper()
	clearEnv(t)
	cfg := LoadConfig()
	cfg.LogLevel = "error"
	cfg.DatabaseFile = filepath.Join(t.TempDir(), "gate.db")
	cfg.MasterKey = "app-test-master-key"
	cfg.ShutdownGracePeriod = time.Second
	return cfg
}

func newTestApp(t *testing.T, cfg Config, opts Options) *Application {
	t.Helper()
	a, err := NewWithOptions(cfg, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })
	return a
}

func call(t *testing.T, h http.Handler, method, target, bearer string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreDriver = "mysql"

	_, err := New(cfg)
	require.ErrorContains(t, err, "invalid configuration")
}

func TestNewRequiresMasterKeyOutsideDev(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "prod"
	cfg.MasterKey = ""

	_, err := New(cfg)
	require.ErrorIs(t, err, ErrNoMasterKey)
}

func TestApplicationParkedActionFlow(t *testing.T) {
	courier := &captureCourier{}
	a := newTestApp(t, testConfig(t), Options{Courier: courier})
	h := a.Handler()

	code, _ := call(t, h, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, code)

	code, out := call(t, h, http.MethodPost, "/v1/tools/send_whatsapp", "", map[string]any{
		"args":    map[string]any{"to_number": "+971500000001", "message_body": "New launch"},
		"user_id": "broker-1",
	})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, out["requires_connection"])
	token := out["resume_token"].(string)

	code, _ = call(t, h, http.MethodPost, "/v1/channels/configure", "", map[string]any{
		"channel": "whatsapp",
		"user_id": "broker-1",
		"config": map[string]string{
			"account_sid": "AC1", "auth_token": "secret", "from_number": "whatsapp:+14155238886",
		},
	})
	require.Equal(t, http.StatusOK, code)

	code, out = call(t, h, http.MethodPost, "/v1/actions/resume", "", map[string]any{"resume_token": token})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "executed", out["status"])

	require.Len(t, courier.sent, 1)
	require.Equal(t, "whatsapp:+971500000001", courier.sent[0].To)
	require.Equal(t, "New launch", courier.sent[0].Body)
}

func TestApplicationVaultSurvivesRestart(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(cfg)
	require.NoError(t, err)
	code, _ := call(t, first.Handler(), http.MethodPost, "/v1/channels/configure", "", map[string]any{
		"channel": "email",
		"config":  map[string]string{"smtp_host": "smtp.example.com", "smtp_user": "u", "smtp_pass": "p", "from_address": "a@example.com"},
	})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, first.Shutdown())

	second := newTestApp(t, cfg, Options{})
	cfgOut, ok, err := second.vaultService.Get(context.Background(), "default", "email")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "smtp.example.com", cfgOut["smtp_host"])
}

func TestApplicationRedisResumeBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.ResumeBackend = ResumeBackendRedis
	cfg.RedisAddr = mr.Addr()

	a := newTestApp(t, cfg, Options{Courier: &captureCourier{}})

	code, out := call(t, a.Handler(), http.MethodPost, "/v1/tools/publish_listing", "", map[string]any{
		"args": map[string]any{"listing_ref": "MH-204"},
	})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "portals", out["channel"])

	keys := mr.Keys()
	require.Len(t, keys, 1)
	require.True(t, strings.HasPrefix(keys[0], "gate:resume:"))

	code, out = call(t, a.Handler(), http.MethodPost, "/v1/actions/resume", "", map[string]any{"resume_token": out["resume_token"]})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "still_blocked", out["status"])
	require.Empty(t, mr.Keys())
}

func TestApplicationRedisUnreachable(t *testing.T) {
	cfg := testConfig(t)
	cfg.ResumeBackend = ResumeBackendRedis
	cfg.RedisAddr = "127.0.0.1:1"

	_, err := New(cfg)
	require.ErrorContains(t, err, "resume token backend")
}

func TestApplicationJWTMode(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	jwks := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(jwtx.JWKS{Keys: []jwtx.JWK{jwtx.NewEd25519JWK("k1", pub)}})
	}))
	defer jwks.Close()

	cfg := testConfig(t)
	cfg.AuthMode = AuthModeJWT
	cfg.JWKSURL = jwks.URL
	cfg.JWTIssuer = "https://auth.example.test"
	cfg.JWTAudience = []string{"gate"}
	a := newTestApp(t, cfg, Options{})
	h := a.Handler()

	code, _ := call(t, h, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, code)

	code, out := call(t, h, http.MethodGet, "/v1/channels", "", nil)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "invalid_token", out["error"])

	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    cfg.JWTIssuer,
		Subject:   "broker-7",
		Audience:  jwt.ClaimStrings{"gate"},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}})
	tok.Header["kid"] = "k1"
	signed, err := tok.SignedString(priv)
	require.NoError(t, err)

	code, _ = call(t, h, http.MethodPost, "/v1/channels/configure", signed, map[string]any{
		"channel": "instagram",
		"config":  map[string]string{"page_access_token": "tok", "instagram_account_id": "1789"},
		"user_id": "someone-else",
	})
	require.Equal(t, http.StatusOK, code)

	list, err := a.vaultService.List(context.Background(), "broker-7")
	require.NoError(t, err)
	require.Contains(t, list, "instagram")
}

func TestApplicationHousekeepingOnlyWithIdleTTL(t *testing.T) {
	a := newTestApp(t, testConfig(t), Options{})
	require.Nil(t, a.housekeepingService)

	cfg := testConfig(t)
	cfg.ShieldIdleTTL = time.Minute
	b := newTestApp(t, cfg, Options{})
	require.NotNil(t, b.housekeepingService)
}
