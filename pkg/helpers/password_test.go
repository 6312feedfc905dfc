package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw12345")
	require.NoError(t, err)
	assert.NotEqual(t, "pw12345", hash)
	assert.True(t, CompareHashAndPassword(hash, "pw12345"))
	assert.False(t, CompareHashAndPassword(hash, "pw123456"))
}
