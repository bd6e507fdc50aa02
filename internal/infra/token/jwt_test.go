package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserTokenRoundTrip(t *testing.T) {
	iss := NewJWTIssuer("secret", time.Hour, 24*time.Hour)
	now := time.Now()

	raw, exp, err := iss.IssueUserToken(42, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	claims, err := iss.ParseUserToken(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestAdminTokenRoundTrip(t *testing.T) {
	iss := NewJWTIssuer("secret", time.Hour, 24*time.Hour)

	raw, _, err := iss.IssueAdminToken(7, 3, time.Now())
	require.NoError(t, err)

	claims, err := iss.ParseAdminToken(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.AdminID)
	assert.Equal(t, int64(3), claims.StoreID)
}

func TestRoleIsEnforced(t *testing.T) {
	iss := NewJWTIssuer("secret", time.Hour, time.Hour)

	userTok, _, err := iss.IssueUserToken(1, time.Now())
	require.NoError(t, err)
	_, err = iss.ParseAdminToken(userTok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	adminTok, _, err := iss.IssueAdminToken(1, 1, time.Now())
	require.NoError(t, err)
	_, err = iss.ParseUserToken(adminTok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRejectsExpiredAndForeignTokens(t *testing.T) {
	iss := NewJWTIssuer("secret", time.Minute, time.Minute)

	expired, _, err := iss.IssueUserToken(1, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = iss.ParseUserToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewJWTIssuer("other", time.Minute, time.Minute)
	foreign, _, err := other.IssueUserToken(1, time.Now())
	require.NoError(t, err)
	_, err = iss.ParseUserToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.ParseUserToken("tampered.jwt.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRejectsTokenWithoutExpiry(t *testing.T) {
	iss := NewJWTIssuer("secret", time.Minute, time.Minute)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1", "role": RoleUser})
	raw, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = iss.ParseUserToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
