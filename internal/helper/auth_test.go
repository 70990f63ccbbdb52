package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth() Auth {
	return SetupAuth("access-secret-for-tests", "refresh-secret-for-tests", time.Hour, 7*24*time.Hour)
}

func TestIssuePairAndVerify(t *testing.T) {
	auth := newTestAuth()

	access, refresh, err := auth.IssuePair(42)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	accessClaims, err := auth.VerifyAccess(access)
	require.NoError(t, err)
	assert.Equal(t, uint(42), accessClaims.UserID)
	assert.WithinDuration(t, time.Now(), accessClaims.IssuedAt, 5*time.Second)

	refreshClaims, err := auth.VerifyRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, uint(42), refreshClaims.UserID)
}

func TestCrossClassRejection(t *testing.T) {
	auth := newTestAuth()

	access, refresh, err := auth.IssuePair(7)
	require.NoError(t, err)

	_, err = auth.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpiredToken(t *testing.T) {
	auth := SetupAuth("access-secret-for-tests", "refresh-secret-for-tests", -time.Minute, -time.Minute)

	token, err := auth.SignAccess(1)
	require.NoError(t, err)

	_, err = auth.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformedToken(t *testing.T) {
	auth := newTestAuth()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "truncated", token: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.VerifyAccess(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	auth := newTestAuth()
	other := SetupAuth("some-other-secret", "another-secret", time.Hour, time.Hour)

	token, err := auth.SignAccess(3)
	require.NoError(t, err)

	_, err = other.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
