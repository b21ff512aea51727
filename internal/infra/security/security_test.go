package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptRoundTrip(t *testing.T) {
	h := BcryptHasher{Cost: 4}
	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.NoError(t, h.Compare(hash, "correct horse"))
	assert.Error(t, h.Compare(hash, "wrong horse"))
}

func TestBcryptNeedsRehash(t *testing.T) {
	hash, err := BcryptHasher{Cost: 4}.Hash("correct horse")
	require.NoError(t, err)
	assert.False(t, BcryptHasher{Cost: 4}.NeedsRehash(hash))
	assert.True(t, BcryptHasher{Cost: 5}.NeedsRehash(hash))
	assert.True(t, BcryptHasher{Cost: 4}.NeedsRehash("not-a-hash"))
	assert.ErrorIs(t, BcryptHasher{Cost: 4}.Compare("not-a-hash", "x"), bcrypt.ErrMismatchedHashAndPassword)
}

func TestJWTIssueVerify(t *testing.T) {
	issuer := JWTIssuer{Secret: []byte("s3cret")}
	token, err := issuer.Issue("guest@example.com", time.Now(), time.Hour)
	require.NoError(t, err)

	subject, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", subject)

	other, err := issuer.Issue("guest@example.com", time.Now(), time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestJWTRejectsTamperedAndExpired(t *testing.T) {
	issuer := JWTIssuer{Secret: []byte("s3cret")}
	token, err := issuer.Issue("guest@example.com", time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = JWTIssuer{Secret: []byte("other")}.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	expired, err := issuer.Issue("guest@example.com", time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	_, err = issuer.Verify(expired)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = JWTIssuer{}.Issue("x", time.Now(), time.Hour)
	assert.ErrorIs(t, err, ErrSecretRequired)
}
