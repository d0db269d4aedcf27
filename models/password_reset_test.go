package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token1, err := GenerateToken()
	require.NoError(t, err)
	assert.Len(t, token1, 64)

	token2, err := GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, token1, token2)
}

func TestPasswordReset_IsValid(t *testing.T) {
	fresh := PasswordReset{ExpiresAt: time.Now().Add(30 * time.Minute)}
	assert.True(t, fresh.IsValid())
	assert.False(t, fresh.IsExpired())

	expired := PasswordReset{ExpiresAt: time.Now().Add(-time.Minute)}
	assert.True(t, expired.IsExpired())
	assert.False(t, expired.IsValid())

	used := PasswordReset{ExpiresAt: time.Now().Add(30 * time.Minute), Used: true}
	assert.False(t, used.IsValid())
}
