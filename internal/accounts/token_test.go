package accounts

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopd/internal/apperr"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := []byte("test-signing-key")
	userID := uuid.New()
	tokenID := uuid.New()

	signed, err := generateAccessToken(userID, tokenID, secret, time.Hour)
	require.NoError(t, err)

	gotUser, gotToken, err := parseAccessToken(signed, secret)
	require.NoError(t, err)
	assert.Equal(t, userID, gotUser)
	assert.Equal(t, tokenID, gotToken)
}

func TestParseAccessTokenRejects(t *testing.T) {
	secret := []byte("test-signing-key")

	t.Run("wrong key", func(t *testing.T) {
		signed, err := generateAccessToken(uuid.New(), uuid.New(), secret, time.Hour)
		require.NoError(t, err)

		_, _, err = parseAccessToken(signed, []byte("other-key"))
		assert.ErrorIs(t, err, apperr.ErrAuthentication)
	})

	t.Run("expired", func(t *testing.T) {
		signed, err := generateAccessToken(uuid.New(), uuid.New(), secret, -time.Minute)
		require.NoError(t, err)

		_, _, err = parseAccessToken(signed, secret)
		assert.ErrorIs(t, err, apperr.ErrAuthentication)
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := parseAccessToken("definitely.not.a.jwt", secret)
		assert.ErrorIs(t, err, apperr.ErrAuthentication)
	})
}

func TestCheckPassword(t *testing.T) {
	hash, err := hashPassword("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", hash)

	assert.True(t, checkPassword(hash, "pw123456"))
	assert.False(t, checkPassword(hash, "pw1234567"))
	assert.False(t, checkPassword("not-a-hash", "pw123456"))
}
