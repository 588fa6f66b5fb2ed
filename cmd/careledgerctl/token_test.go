package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/careledger/internal/auth"
)

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "ctl-test-secret")
	t.Setenv("JWT_ISSUER", "careledger")

	userID, orgID := uuid.New(), uuid.New()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"token", "--user", userID.String(), "--org", orgID.String(), "--role", "manager"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	m, err := auth.NewManager("ctl-test-secret", "careledger")
	require.NoError(t, err)

	id, err := m.Verify(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{UserID: userID, OrganizationID: orgID, Role: auth.RoleManager}, id)
}

func TestTokenCommand_Client(t *testing.T) {
	t.Setenv("JWT_SECRET", "ctl-test-secret")
	t.Setenv("JWT_ISSUER", "careledger")

	clientID := uuid.New()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"token", "--user", uuid.NewString(), "--org", uuid.NewString(),
		"--role", "client", "--client", clientID.String(),
	})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	m, err := auth.NewManager("ctl-test-secret", "careledger")
	require.NoError(t, err)

	id, err := m.Verify(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	require.NotNil(t, id.ClientID)
	assert.Equal(t, clientID, *id.ClientID)
}

func TestTokenCommand_BadRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "ctl-test-secret")

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"token", "--user", uuid.NewString(), "--org", uuid.NewString(), "--role", "owner"})
	assert.ErrorContains(t, rootCmd.ExecuteContext(context.Background()), "unknown role")
}
