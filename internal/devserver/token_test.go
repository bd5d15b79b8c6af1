package devserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	raw, err := issueToken("u1", "alice", "secret", time.Hour)
	require.NoError(t, err)

	subject, err := parseToken(raw, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", subject)
}

func TestParseTokenWrongSecret(t *testing.T) {
	raw, err := issueToken("u1", "alice", "secret", time.Hour)
	require.NoError(t, err)

	_, err = parseToken(raw, "other")
	assert.ErrorIs(t, err, errInvalidToken)
}

func TestParseTokenExpired(t *testing.T) {
	raw, err := issueToken("u1", "alice", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = parseToken(raw, "secret")
	assert.ErrorIs(t, err, errInvalidToken)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := parseToken("garbage", "secret")
	assert.ErrorIs(t, err, errInvalidToken)
}
