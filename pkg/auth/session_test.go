package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopnow/storefront/pkg/auth"
)

func TestTokenManager_SessionRoundtrip(t *testing.T) {
	manager := auth.NewTokenManager("test-secret", time.Hour)

	sessionID, token, err := manager.NewSession()
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)
	require.NotEmpty(t, token)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	require.Equal(t, sessionID, claims.SessionID)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	manager := auth.NewTokenManager("test-secret", time.Hour)

	_, err := manager.Validate("not-a-token")
	require.Error(t, err)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	issuer := auth.NewTokenManager("secret-a", time.Hour)
	verifier := auth.NewTokenManager("secret-b", time.Hour)

	_, token, err := issuer.NewSession()
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.Error(t, err)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	manager := auth.NewTokenManager("test-secret", time.Nanosecond)

	_, token, err := manager.NewSession()
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = manager.Validate(token)
	require.Error(t, err)
}
