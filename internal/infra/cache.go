package infra

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	dashboardKeyPrefix = "report:dashboard:"
	dashboardGenKey    = "report:dashboard:gen"
	dashboardLockKey   = "lock:report:dashboard"
	dashboardLockTTL   = 10 * time.Second
)

// DashboardCache keeps the dashboard summary in Redis. Every Redis failure is
// logged and treated as a miss; a nil client turns the cache off.
//
// The summary lives at report:dashboard:<gen>. Invalidate increments
// report:dashboard:gen, which orphans any entry a slower rebuild writes
// afterwards for the previous generation; orphans expire with the TTL.
type DashboardCache struct {
	rdb    *redis.Client
	locker *redislock.Client
	ttl    time.Duration
}

func NewDashboardCache(rdb *redis.Client, ttl time.Duration) *DashboardCache {
	c := &DashboardCache{rdb: rdb, ttl: ttl}
	if rdb != nil {
		c.locker = redislock.New(rdb)
	}
	return c
}

func dashboardKey(gen int64) string {
	return dashboardKeyPrefix + strconv.FormatInt(gen, 10)
}

// generation returns the current generation, 0 before the first
// invalidation and -1 when Redis cannot be read.
func (c *DashboardCache) generation(ctx context.Context) int64 {
	gen, err := c.rdb.Get(ctx, dashboardGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0
	}
	if err != nil {
		log.Warn().Err(err).Msg("dashboard cache generation read failed")
		return -1
	}
	return gen
}

func (c *DashboardCache) Get(ctx context.Context) (*dto.DashboardResponse, int64, bool) {
	if c.rdb == nil {
		return nil, -1, false
	}
	gen := c.generation(ctx)
	if gen < 0 {
		return nil, gen, false
	}
	raw, err := c.rdb.Get(ctx, dashboardKey(gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("dashboard cache read failed")
		}
		return nil, gen, false
	}
	var v dto.DashboardResponse
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Warn().Err(err).Msg("dashboard cache entry unreadable")
		return nil, gen, false
	}
	return &v, gen, true
}

func (c *DashboardCache) Set(ctx context.Context, gen int64, v *dto.DashboardResponse) {
	if c.rdb == nil || v == nil || gen < 0 {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, dashboardKey(gen), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("dashboard cache write failed")
	}
}

func (c *DashboardCache) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, dashboardGenKey).Err(); err != nil {
		log.Warn().Err(err).Msg("dashboard cache invalidation failed")
	}
}

// Lock takes the rebuild lock. When Redis itself fails the caller proceeds as
// if it held the lock.
func (c *DashboardCache) Lock(ctx context.Context) (func(), bool) {
	if c.locker == nil {
		return func() {}, true
	}
	lock, err := c.locker.Obtain(ctx, dashboardLockKey, dashboardLockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return func() {}, false
	}
	if err != nil {
		log.Warn().Err(err).Msg("dashboard lock unavailable; rebuilding without lock")
		return func() {}, true
	}
	return func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.Warn().Err(err).Msg("dashboard lock release failed")
		}
	}, true
}
