package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc, err := NewTokenService("test-secret", "learnloop-hub", time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestTokenService_RejectsEmptySecret(t *testing.T) {
	_, err := NewTokenService("", "learnloop-hub", time.Hour)
	assert.Error(t, err)
}

func TestTokenService_RejectsTamperedToken(t *testing.T) {
	svc, err := NewTokenService("test-secret", "learnloop-hub", time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue("user-123")
	require.NoError(t, err)

	_, err = svc.Verify(token + "x")
	assert.Error(t, err)

	_, err = svc.Verify("not.a.token")
	assert.Error(t, err)
}

func TestTokenService_RejectsForeignSignature(t *testing.T) {
	issuer, err := NewTokenService("secret-a", "learnloop-hub", time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenService("secret-b", "learnloop-hub", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	svc, err := NewTokenService("test-secret", "learnloop-hub", time.Nanosecond)
	require.NoError(t, err)

	token, err := svc.Issue("user-123")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = svc.Verify(token)
	assert.Error(t, err)
}
