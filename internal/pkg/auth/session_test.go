package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoval/postium/internal/app/models"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := NewSessionService(SessionConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "postium.test",
	})
	user := &models.User{ID: 7, Username: "leo"}

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "leo", claims.Username)
	assert.Equal(t, "postium.test", claims.Issuer)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	issuer := NewSessionService(SessionConfig{SecretKey: "key-a", TokenExp: time.Hour})
	verifier := NewSessionService(SessionConfig{SecretKey: "key-b", TokenExp: time.Hour})

	token, err := issuer.GenerateToken(&models.User{ID: 1, Username: "leo"})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewSessionService(SessionConfig{SecretKey: "test-secret", TokenExp: -time.Minute})

	token, err := svc.GenerateToken(&models.User{ID: 1, Username: "leo"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenMaxAge(t *testing.T) {
	svc := NewSessionService(SessionConfig{SecretKey: "k", TokenExp: 90 * time.Second})
	assert.Equal(t, 90, svc.TokenMaxAge())
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hashed)
	assert.True(t, CheckPassword(hashed, "correct horse battery staple"))
	assert.False(t, CheckPassword(hashed, "wrong"))
}
