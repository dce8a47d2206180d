package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resq-relief/resq/internal/constants"
)

func TestTokenService_IssueAndParse(t *testing.T) {
	svc := NewTokenService("test-secret-0123456789", time.Hour)

	raw, issued, err := svc.Issue("user-1", constants.RoleDonor)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := svc.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, constants.RoleDonor, claims.Role())
	assert.Equal(t, issued.TokenID(), claims.TokenID())
	assert.True(t, claims.HasRole(constants.RoleAdmin, constants.RoleDonor))
	assert.False(t, claims.HasRole(constants.RoleAdmin))
}

func TestTokenService_RejectsOtherSecret(t *testing.T) {
	issuer := NewTokenService("test-secret-0123456789", time.Hour)
	verifier := NewTokenService("another-secret-9876543210", time.Hour)

	raw, _, err := issuer.Issue("user-1", constants.RoleVictim)
	require.NoError(t, err)

	_, err = verifier.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret-0123456789", time.Minute)
	past := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return past }

	raw, _, err := svc.Issue("user-1", constants.RoleVictim)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret-0123456789", time.Hour)
	_, err := svc.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
