package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestSetGetDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete(ctx, "k"))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Delete(ctx, "never-set"))
}

func TestReplaceRequiresExistingKey(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)

	ok, err := c.Replace(ctx, "k", []byte("v1"), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("k"))

	require.NoError(t, c.Set(ctx, "k", []byte("v1"), time.Second))
	ok, err = c.Replace(ctx, "k", []byte("v2"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("k"))
}

func TestExpiredKeyIsAMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNilClientIsEmpty(t *testing.T) {
	ctx := context.Background()
	var c *Client

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
	ok, err := c.Replace(ctx, "k", nil, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}
