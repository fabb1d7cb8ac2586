package main

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := openSessionStore(dir)
	require.NoError(t, err)

	access, refresh := store.Tokens()
	assert.Empty(t, access)
	assert.Empty(t, refresh)

	require.NoError(t, store.SetPair("token-a", "refresh-a"))
	access, refresh = store.Tokens()
	assert.Equal(t, "token-a", access)
	assert.Equal(t, "refresh-a", refresh)

	require.NoError(t, store.SetAccess("token-b"))
	access, refresh = store.Tokens()
	assert.Equal(t, "token-b", access, "access rotates independently")
	assert.Equal(t, "refresh-a", refresh)

	require.NoError(t, store.Close())

	// Tokens survive across opens.
	reopened, err := openSessionStore(dir)
	require.NoError(t, err)
	defer reopened.Close()
	access, refresh = reopened.Tokens()
	assert.Equal(t, "token-b", access)
	assert.Equal(t, "refresh-a", refresh)
}

func TestSessionStoreClear(t *testing.T) {
	store, err := openSessionStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SetPair("token-a", "refresh-a"))
	require.NoError(t, store.Clear())

	access, refresh := store.Tokens()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestPeekSessionClaims(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": float64(7),
		"exp":     exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, ok := peekSessionClaims(signed)
	require.True(t, ok)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
}

func TestPeekSessionClaimsRejectsGarbage(t *testing.T) {
	_, ok := peekSessionClaims("")
	assert.False(t, ok)

	_, ok = peekSessionClaims("not-a-token")
	assert.False(t, ok)
}
