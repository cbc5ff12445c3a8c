package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCache_InvalidURL(t *testing.T) {
	_, err := NewCache("not-a-url")

	assert.ErrorContains(t, err, "parse redis url")
}

func TestNewCache_ValidURL(t *testing.T) {
	cache, err := NewCache("redis://localhost:6379/0")

	require.NoError(t, err)
	assert.NoError(t, cache.Close())
}
