package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "env-report", []byte(`{}`), time.Hour))

	got, ok, err := c.Get(ctx, "env-report")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte(`{}`), got)

	now = now.Add(time.Hour)
	_, ok, err = c.Get(ctx, "env-report")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, c.Delete(ctx, "k"))

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Delete(ctx, "missing"))
}
