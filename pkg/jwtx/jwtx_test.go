package jwtx_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/gate/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer = "https://auth.example.test"
	testKID    = "kid-1"
)

func newKey(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub, priv
}

func sign(t *testing.T, priv ed25519.PrivateKey, kid string, claims jwtx.Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	if kid != "" {
		tok.Header["kid"] = kid
	}
	s, err := tok.SignedString(priv)
	require.NoError(t, err)
	return s
}

func claimsFor(sub string, ttl time.Duration) jwtx.Claims {
	now := time.Now()
	return jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   sub,
		Audience:  jwt.ClaimStrings{"gate"},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}}
}

func TestEdDSAVerify(t *testing.T) {
	pub, priv := newKey(t)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddJWK(jwtx.NewEd25519JWK(testKID, pub)))
	require.True(t, keys.IsReady())

	v := jwtx.NewVerifierEdDSA(keys, testIssuer, []string{"gate"})

	got, err := v.Verify(sign(t, priv, testKID, claimsFor("agent-1", time.Minute)))
	require.NoError(t, err)
	require.Equal(t, "agent-1", got.Subject)
}

func TestEdDSAVerifyRejects(t *testing.T) {
	pub, priv := newKey(t)
	_, otherPriv := newKey(t)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddJWK(jwtx.NewEd25519JWK(testKID, pub)))

	tests := []struct {
		name     string
		token    string
		issuer   string
		audience []string
		wantErr  error
	}{
		{"expired", sign(t, priv, testKID, claimsFor("a", -time.Hour)), testIssuer, nil, jwtx.ErrExpired},
		{"wrong issuer", sign(t, priv, testKID, claimsFor("a", time.Minute)), "https://other", nil, jwtx.ErrIssuer},
		{"wrong audience", sign(t, priv, testKID, claimsFor("a", time.Minute)), testIssuer, []string{"billing"}, jwtx.ErrAudience},
		{"missing kid", sign(t, priv, "", claimsFor("a", time.Minute)), testIssuer, nil, jwtx.ErrMissingKID},
		{"unknown kid", sign(t, priv, "kid-x", claimsFor("a", time.Minute)), testIssuer, nil, jwtx.ErrNoKey},
		{"wrong key", sign(t, otherPriv, testKID, claimsFor("a", time.Minute)), testIssuer, nil, nil},
		{"garbage", "not.a.jwt", testIssuer, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jwtx.NewVerifierEdDSA(keys, tt.issuer, tt.audience).Verify(tt.token)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestKeySetResetKeepsOldOnError(t *testing.T) {
	pub, _ := newKey(t)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddJWK(jwtx.NewEd25519JWK(testKID, pub)))

	err := keys.ResetFromJWKS(jwtx.JWKS{Keys: []jwtx.JWK{{Kty: "RSA", Kid: "r1"}}})
	require.Error(t, err)

	_, err = keys.Get(testKID)
	require.NoError(t, err)
}

func TestFetcherRefresh(t *testing.T) {
	pub, priv := newKey(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(jwtx.JWKS{Keys: []jwtx.JWK{jwtx.NewEd25519JWK(testKID, pub)}})
	}))
	t.Cleanup(srv.Close)

	keys := jwtx.NewKeySet()
	f := jwtx.NewFetcher(srv.URL, keys, nil)
	require.NoError(t, f.Refresh(t.Context()))
	require.True(t, keys.IsReady())

	_, err := jwtx.NewVerifierEdDSA(keys, "", nil).Verify(sign(t, priv, testKID, claimsFor("a", time.Minute)))
	require.NoError(t, err)

	f.Stop() // never started
}

func TestFetcherRefreshBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	f := jwtx.NewFetcher(srv.URL, jwtx.NewKeySet(), nil)
	require.Error(t, f.Refresh(t.Context()))
}
