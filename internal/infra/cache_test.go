package infra

import (
	"context"
	"testing"
	"time"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestDashboardCache_Disabled(t *testing.T) {
	c := NewDashboardCache(nil, time.Minute)
	ctx := context.Background()

	c.Set(ctx, 0, &dto.DashboardResponse{TotalItems: 1})
	_, gen, ok := c.Get(ctx)
	assert.False(t, ok)
	assert.Equal(t, int64(-1), gen)

	release, locked := c.Lock(ctx)
	assert.True(t, locked)
	release()
	c.Invalidate(ctx)
}

func TestDashboardCache_UnreachableRedisIsAMiss(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	c := NewDashboardCache(rdb, time.Minute)
	ctx := context.Background()

	c.Set(ctx, 0, &dto.DashboardResponse{TotalItems: 1})
	_, gen, ok := c.Get(ctx)
	assert.False(t, ok)
	assert.Equal(t, int64(-1), gen, "unknown generation blocks later writes")

	release, locked := c.Lock(ctx)
	assert.True(t, locked, "a broken lock backend must not block rebuilds")
	release()
}
