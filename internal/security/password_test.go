package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prismhq/prism-api/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("P1!")
	require.NoError(t, err)

	assert.NotEqual(t, "P1!", hash)
	assert.NoError(t, security.CheckPassword(hash, "P1!"))
	assert.Error(t, security.CheckPassword(hash, "wrong"))
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := security.HashPassword("same-password")
	require.NoError(t, err)

	h2, err := security.HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	// garbage in storage must fail verification, not panic
	assert.Error(t, security.CheckPassword("not-a-hash", "anything"))
	assert.Error(t, security.CheckPassword("", "anything"))
}
