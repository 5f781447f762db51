package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordManager(t *testing.T) {
	manager := NewPasswordManager()

	hash, err := manager.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, manager.Verify(hash, "password123"))
	assert.False(t, manager.Verify(hash, "password124"))
	assert.False(t, manager.Verify("not-a-hash", "password123"))
}
