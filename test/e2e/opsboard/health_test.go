package opsboard_test

import (
	"testing"

	"github.com/aussiebroadwan/opsboard/pkg/opsboardsdk"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	client := opsboardsdk.NewClient(setupContainer(t, nil))

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)

	health, err = client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)
}

func TestBootstrapOnlyOnce(t *testing.T) {
	client := opsboardsdk.NewClient(setupContainer(t, nil))

	_, err := client.Bootstrap(t.Context(), "wrong-token", opsboardsdk.BootstrapRequest{Email: rootEmail, Password: rootPassword})
	require.True(t, opsboardsdk.IsCode(err, opsboardsdk.ErrorCodeInvalidToken), "got %v", err)

	bootstrapRoot(t, client)

	_, err = client.Bootstrap(t.Context(), bootstrapToken, opsboardsdk.BootstrapRequest{Email: "other@example.com", Password: rootPassword})
	require.True(t, opsboardsdk.IsCode(err, opsboardsdk.ErrorCodeAlreadyBootstrapped), "got %v", err)
}
