package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owaisjunedi/dev-interview-platform/internal/auth"
)

func TestJWT_RoundTrip(t *testing.T) {
	j := auth.New("test-secret", time.Hour)

	tok, err := j.Sign("alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	sub, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", sub)
}

func TestJWT_RejectsEmptySubject(t *testing.T) {
	j := auth.New("test-secret", time.Hour)

	_, err := j.Sign("")
	assert.Error(t, err)
}

func TestJWT_RejectsWrongSecret(t *testing.T) {
	signer := auth.New("secret-a", time.Hour)
	verifier := auth.New("secret-b", time.Hour)

	tok, err := signer.Sign("alice@example.com")
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.Error(t, err)
}

func TestJWT_RejectsExpiredToken(t *testing.T) {
	j := auth.New("test-secret", -time.Minute)

	tok, err := j.Sign("alice@example.com")
	require.NoError(t, err)

	_, err = j.Verify(tok)
	assert.Error(t, err)
}

func TestJWT_RejectsGarbage(t *testing.T) {
	j := auth.New("test-secret", time.Hour)

	_, err := j.Verify("not.a.token")
	assert.Error(t, err)
}
