package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCache_SetGetDelete(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Minute)
	defer c.Stop()
	ctx := context.Background()

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "k", "<p>hola</p>", 0))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "<p>hola</p>", v)

	// reemplazo completo
	require.NoError(t, c.Set(ctx, "k", "<p>adiós</p>", 0))
	v, _ = c.Get(ctx, "k")
	assert.Equal(t, "<p>adiós</p>", v)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestInMemoryCache_Expiry(t *testing.T) {
	c := NewInMemoryCache(time.Minute, 5*time.Millisecond)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.Empty(t, c.store)
}
