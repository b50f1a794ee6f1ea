//go:build e2e

package gate_test

import (
	"fmt"
	"testing"

	"github.com/aussiebroadwan/gate/pkg/gatesdk"
	"github.com/stretchr/testify/require"
)

// TestRateLimitConfigureEndpoint verifies credential writes are strictly
// limited (10 req/min, burst 10).
func TestRateLimitConfigureEndpoint(t *testing.T) {
	baseURL, cleanup := setupGateContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)
	ctx := t.Context()

	var limited bool
	for i := range 15 {
		_, err := client.ConfigureChannel(ctx, gatesdk.ConfigureChannelRequest{
			Channel: "whatsapp",
			Config:  whatsappConfig(),
			UserID:  fmt.Sprintf("user-%d", i),
		})
		if gatesdk.IsRateLimited(err) {
			t.Logf("Rate limited after %d requests", i)
			require.GreaterOrEqual(t, i, 10)
			limited = true
			break
		}
		require.NoError(t, err)
	}

	require.True(t, limited, "configure endpoint should be rate limited")
}
