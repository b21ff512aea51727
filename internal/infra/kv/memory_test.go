package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryNamespacesAndCopies(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "snapshots", "a")
	require.NoError(t, err)
	assert.False(t, ok)

	value := []byte("one")
	require.NoError(t, store.Set(ctx, "snapshots", "a", value))
	value[0] = 'X'

	got, ok, err := store.Get(ctx, "snapshots", "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "one", string(got))

	_, ok, err = store.Get(ctx, "notifications", "a")
	require.NoError(t, err)
	assert.False(t, ok)
}
