package localcache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lightbnb/internal/adapters/localcache"
)

func TestCache_RoundTripIsACopy(t *testing.T) {
	c := localcache.New(100)
	t.Cleanup(c.Stop)
	ctx := context.Background()

	in := []string{"a", "b"}
	require.NoError(t, c.Set(ctx, "k", in, 60))
	in[0] = "mutated"

	var out []string
	ok, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, out)

	require.NoError(t, c.Del(ctx, "k"))
	ok, err = c.Get(ctx, "k", &out)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCache_NegativeTTLIsExpired(t *testing.T) {
	c := localcache.New(0)
	t.Cleanup(c.Stop)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 1, -1))
	var out int
	ok, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	require.False(t, ok)
}
