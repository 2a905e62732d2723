package infra

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resumen struct {
	Total int    `json:"total"`
	Label string `json:"label"`
}

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestViewCache_SetGetDelete(t *testing.T) {
	_, rdb := newMiniRedis(t)
	c := NewViewCache[resumen](rdb, time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.Set(ctx, "k", &resumen{Total: 3, Label: "x"})
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, resumen{Total: 3, Label: "x"}, *got)

	c.Delete(ctx, "k")
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestViewCache_Expira(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	c := NewViewCache[resumen](rdb, 5*time.Minute)
	ctx := context.Background()

	c.Set(ctx, "k", &resumen{Total: 1})
	mr.FastForward(6 * time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestViewCache_SinClienteSiempreFalla(t *testing.T) {
	c := NewViewCache[resumen](nil, time.Minute)
	c.Set(context.Background(), "k", &resumen{Total: 1})
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}
