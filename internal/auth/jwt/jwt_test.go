package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestServiceGenerateAndValidate(t *testing.T) {
	s, err := NewService(Config{SecretKey: testSecret, Duration: time.Hour})
	assert.NoError(t, err)

	tok, err := s.GenerateToken("sess-42")
	assert.NoError(t, err)

	claims, err := s.ValidateToken(tok)
	assert.NoError(t, err)
	if assert.NotNil(t, claims) {
		assert.Equal(t, "sess-42", claims.SessionID)
	}
}

func TestServiceRejectsBadConfig(t *testing.T) {
	_, err := NewService(Config{SecretKey: "", Duration: time.Hour})
	assert.ErrorIs(t, err, ErrEmptySecretKey)

	_, err = NewService(Config{SecretKey: "short", Duration: time.Hour})
	assert.ErrorIs(t, err, ErrWeakSecretKey)

	_, err = NewService(Config{SecretKey: testSecret, Duration: 0})
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestServiceRejectsExpiredAndGarbage(t *testing.T) {
	s, err := NewService(Config{SecretKey: testSecret, Duration: time.Millisecond})
	assert.NoError(t, err)

	tok, err := s.GenerateToken("sess-1")
	assert.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	claims, err := s.ValidateToken(tok)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpiredToken)

	claims, err = s.ValidateToken("not-a-token")
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestServiceRejectsForeignSignature(t *testing.T) {
	a, _ := NewService(Config{SecretKey: testSecret, Duration: time.Hour})
	b, _ := NewService(Config{SecretKey: "fedcba9876543210fedcba9876543210", Duration: time.Hour})

	tok, err := a.GenerateToken("sess-1")
	assert.NoError(t, err)

	claims, err := b.ValidateToken(tok)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
