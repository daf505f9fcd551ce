package redis

import (
	"context"
	"log"
	"time"

	"github.com/bsm/redislock"
	"github.com/proc-track/workflow-service/internal/config"
	"github.com/redis/go-redis/v9"
)

// MustInitLocker connects to redis and returns the distributed-lock client
// guarding the overdue sweep. Returns nil when no redis address is
// configured: a single-instance deployment runs the sweep unguarded.
func MustInitLocker(cfg *config.TrackerConfig) *redislock.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis at %s: %v", cfg.Redis.Addr, err)
	}

	return redislock.New(rdb)
}
