package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	pair, err := m.IssuePair(userID, "caja@restaurant.local", []string{"cashier"}, []string{"issue-receipts"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, []string{"cashier"}, claims.Roles)
	assert.Equal(t, []string{"issue-receipts"}, claims.Permissions)

	got, err := m.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTManager_RejectsSwappedTokens(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)
	pair, err := m.IssuePair(uuid.New(), "a@b.c", nil, nil)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.RefreshToken)
	assert.Error(t, err)

	_, err = m.ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)
	start := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }

	token, err := m.GenerateAccessToken(uuid.New(), "a@b.c", nil, nil)
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("one", time.Hour, time.Hour).GenerateAccessToken(uuid.New(), "a@b.c", nil, nil)
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Hour, time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("other", hash))
}

func TestParseOptionalUUID(t *testing.T) {
	id, err := ParseOptionalUUID("")
	require.NoError(t, err)
	assert.Nil(t, id)

	_, err = ParseOptionalUUID("nope")
	assert.Error(t, err)

	want := uuid.New()
	got, err := ParseOptionalUUID(want.String())
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}
