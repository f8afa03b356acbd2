package auth

import (
	"testing"
	"time"

	"github.com/Monterolautaro/rentadoor-docvault/internal/common"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("user-7", false, secret, time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	require.Equal(t, "user-7", claims.UserID)
	require.False(t, claims.Admin)
}

func TestParseToken_AdminClaim(t *testing.T) {
	token, err := GenerateToken("admin-1", true, secret, time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	require.True(t, claims.Admin)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("user-7", false, secret, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("other-secret"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("user-7", false, secret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, secret)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not.a.token", secret)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_MissingUserID(t *testing.T) {
	token, err := GenerateToken("", false, secret, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, secret)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
