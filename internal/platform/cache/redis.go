package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"practice_tracker/internal/domain/model"
	"practice_tracker/internal/platform/config"
	"practice_tracker/internal/platform/logging"

	"github.com/redis/go-redis/v9"
)

const (
	statsKeyPrefix   = "tracker:stats:"
	versionKeyPrefix = "tracker:stats-version:"

	// versionTTL only has to outlast one dashboard computation.
	versionTTL = 24 * time.Hour
)

func statsKey(userID string) string {
	return statsKeyPrefix + userID
}

func versionKey(userID string) string {
	return versionKeyPrefix + userID
}

// ConnectRedis opens a client from cfg and pings it.
func ConnectRedis(ctx context.Context, cfg *config.Config, log logging.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", cfg.RedisAddr, err)
	}
	log.Infof("Successfully connected to Redis")
	return rdb, nil
}

// RedisStatsCache stores JSON encoded stats under tracker:stats:<user> with
// a TTL. The user's version lives in tracker:stats-version:<user>; Set
// WATCHes it, so the check holds across server processes. Redis failures
// are logged and degrade to cache misses.
type RedisStatsCache struct {
	rdb *redis.Client
	ttl time.Duration
	log logging.Logger
}

var errStaleVersion = errors.New("stats version changed")

func NewRedisStatsCache(rdb *redis.Client, ttl time.Duration, log logging.Logger) *RedisStatsCache {
	return &RedisStatsCache{rdb: rdb, ttl: ttl, log: log}
}

func (c *RedisStatsCache) Get(ctx context.Context, userID string) (*model.DashboardStats, bool) {
	raw, err := c.rdb.Get(ctx, statsKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warningf("stats cache get for %s: %v", userID, err)
		}
		return nil, false
	}
	var stats model.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.log.Warningf("stats cache decode for %s: %v", userID, err)
		return nil, false
	}
	return &stats, true
}

func (c *RedisStatsCache) Version(ctx context.Context, userID string) uint64 {
	v, err := c.rdb.Get(ctx, versionKey(userID)).Uint64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warningf("stats cache version for %s: %v", userID, err)
	}
	return v
}

func (c *RedisStatsCache) Set(ctx context.Context, userID string, version uint64, stats model.DashboardStats) {
	if c.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		c.log.Errorf("stats cache encode for %s: %v", userID, err)
		return
	}

	vkey := versionKey(userID)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vkey).Uint64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleVersion
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, statsKey(userID), raw, c.ttl)
			return nil
		})
		return err
	}, vkey)
	switch {
	case err == nil:
	case errors.Is(err, errStaleVersion), errors.Is(err, redis.TxFailedErr):
		c.log.Debugf("stats cache set for %s skipped: invalidated meanwhile", userID)
	default:
		c.log.Warningf("stats cache set for %s: %v", userID, err)
	}
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, userID string) {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(userID))
		pipe.Expire(ctx, versionKey(userID), versionTTL)
		pipe.Del(ctx, statsKey(userID))
		return nil
	})
	if err != nil {
		c.log.Warningf("stats cache invalidate for %s: %v", userID, err)
	}
}

func CloseRedis(rdb *redis.Client, log logging.Logger) {
	if rdb != nil {
		rdb.Close()
		log.Infof("Redis connection closed")
	}
}
