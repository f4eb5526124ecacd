package opsboard_test

import (
	"testing"

	"github.com/aussiebroadwan/opsboard/pkg/opsboardsdk"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRouteGuard(t *testing.T) {
	client := opsboardsdk.NewClient(setupContainer(t, nil))
	root := bootstrapRoot(t, client)
	employee := inviteAndLogin(t, client, root, "employee@example.com", "employee")

	allowed, err := employee.FeatureAccess(t.Context(), "", "admin_dashboard")
	require.NoError(t, err)
	require.False(t, allowed)

	check, err := employee.RouteCheck(t.Context(), "/admin")
	require.NoError(t, err)
	require.Equal(t, "redirecting", check.State)
	require.Equal(t, "/", check.RedirectTo)

	check, err = root.RouteCheck(t.Context(), "/audit")
	require.NoError(t, err)
	require.Equal(t, "authorized", check.State)

	check, err = client.NewSession("").RouteCheck(t.Context(), "/reports")
	require.NoError(t, err)
	require.Equal(t, "/login", check.RedirectTo)

	actions, err := employee.QuickActions(t.Context())
	require.NoError(t, err)
	require.Equal(t, "employee", actions.Role)
	require.NotEmpty(t, actions.Actions)

	roles, err := employee.Roles(t.Context())
	require.NoError(t, err)
	require.Len(t, roles, 5)
}
