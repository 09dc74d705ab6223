package auth_test

import (
	"testing"
	"time"

	"github.com/UnknownOlympus/chronos/internal/auth"
	"github.com/UnknownOlympus/chronos/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hash)
	assert.True(t, auth.CheckPassword(hash, "secret1"))
	assert.False(t, auth.CheckPassword(hash, "secret2"))
	assert.False(t, auth.CheckPassword("not-a-hash", "secret1"))
}

func TestIssuer(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 10, 7, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	identity := auth.Identity{AccountID: 42, Email: "jane@corp.io", Role: models.RoleHR, EmployeeCode: "EMP001"}

	t.Run("success - round trip", func(t *testing.T) {
		t.Parallel()
		issuer := auth.NewIssuer("top-secret", 24*time.Hour, "chronos", clock)

		token, expiresAt, err := issuer.Issue(identity)
		require.NoError(t, err)
		assert.Equal(t, now.Add(24*time.Hour), expiresAt)

		claims, err := issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, int64(42), claims.AccountID)
		assert.Equal(t, models.RoleHR, claims.Role)
		assert.Equal(t, "EMP001", claims.EmployeeCode)
		assert.Equal(t, "42", claims.Subject)
	})

	t.Run("error - expired", func(t *testing.T) {
		t.Parallel()
		issuer := auth.NewIssuer("top-secret", time.Hour, "chronos", clock)
		token, _, err := issuer.Issue(identity)
		require.NoError(t, err)

		later := auth.NewIssuer("top-secret", time.Hour, "chronos", func() time.Time { return now.Add(2 * time.Hour) })
		_, err = later.Verify(token)

		require.ErrorIs(t, err, auth.ErrInvalidToken)
		require.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("error - wrong secret", func(t *testing.T) {
		t.Parallel()
		token, _, err := auth.NewIssuer("top-secret", time.Hour, "chronos", clock).Issue(identity)
		require.NoError(t, err)

		_, err = auth.NewIssuer("other-secret", time.Hour, "chronos", clock).Verify(token)

		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("error - foreign issuer", func(t *testing.T) {
		t.Parallel()
		token, _, err := auth.NewIssuer("top-secret", time.Hour, "someone-else", clock).Issue(identity)
		require.NoError(t, err)

		_, err = auth.NewIssuer("top-secret", time.Hour, "chronos", clock).Verify(token)

		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("error - garbage", func(t *testing.T) {
		t.Parallel()
		_, err := auth.NewIssuer("top-secret", time.Hour, "chronos", clock).Verify("not.a.token")

		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
