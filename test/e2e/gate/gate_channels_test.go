//go:build e2e

package gate_test

import (
	"testing"

	"github.com/aussiebroadwan/gate/pkg/gatesdk"
	"github.com/stretchr/testify/require"
)

// TestCatalog verifies every outreach channel is described.
func TestCatalog(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)

	catalog, err := client.GetCatalog(t.Context())
	require.NoError(t, err)
	require.Len(t, catalog.Channels, 6)

	for _, ch := range catalog.Channels {
		require.NotEmpty(t, ch.Fields, "channel %s has no fields", ch.Name)
		t.Logf("Channel %s: %d field(s)", ch.Name, len(ch.Fields))
	}
}

// TestChannelsArePerUser verifies configuration is scoped to the user
// that saved it and never listed back.
func TestChannelsArePerUser(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	alice := gatesdk.NewClient(baseURL)
	alice.UserID = "alice"
	bob := gatesdk.NewClient(baseURL)
	bob.UserID = "bob"

	connectChannel(t, alice, "whatsapp", whatsappConfig())

	list, err := alice.ListChannels(t.Context())
	require.NoError(t, err)
	require.Equal(t, gatesdk.StatusConnected, list["whatsapp"].Status)
	require.False(t, list["whatsapp"].UpdatedAt.IsZero())

	list, err = bob.ListChannels(t.Context())
	require.NoError(t, err)
	require.Empty(t, list)
}

// TestConfigureRejectsMissingChannel verifies validation errors surface as
// invalid_request.
func TestConfigureRejectsMissingChannel(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)

	_, err := client.ConfigureChannel(t.Context(), gatesdk.ConfigureChannelRequest{Config: whatsappConfig()})
	require.Error(t, err)

	var apiErr *gatesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 400, apiErr.StatusCode)
	require.Equal(t, gatesdk.ErrorCodeInvalidRequest, apiErr.Code)
}
