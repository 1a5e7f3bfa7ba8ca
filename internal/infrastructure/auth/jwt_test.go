package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	id := Identity{MemberID: 10, Email: "buyer@example.com", Name: "Buyer"}

	tokenStr, err := GenerateToken(testSecret, id, time.Hour)
	require.NoError(t, err)

	parsed, err := ParseToken(testSecret, tokenStr)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseTokenWrongSecret(t *testing.T) {
	tokenStr, err := GenerateToken(testSecret, Identity{MemberID: 10, Email: "a@b"}, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", tokenStr)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	tokenStr, err := GenerateToken(testSecret, Identity{MemberID: 10, Email: "a@b"}, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, tokenStr)
	assert.Error(t, err)
}

func TestParseTokenEmpty(t *testing.T) {
	_, err := ParseToken(testSecret, "")
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken(testSecret, "not.a.token")
	assert.Error(t, err)
}
