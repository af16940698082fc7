package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// NewRedisClient builds the visit-log store. The visit log is optional: with
// no REDIS_URL the tracking endpoints degrade instead of failing boot.
func NewRedisClient(config *koanf.Koanf, log *zap.Logger) *redis.Client {
	addr := config.String("REDIS_URL")
	if addr == "" {
		log.Info("REDIS_URL not set, visit log disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     "",
		DB:           0,
		MinIdleConns: 10,
		PoolSize:     100,
		PoolTimeout:  30 * time.Second,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,

		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	err := rdb.Ping(context.Background()).Err()
	if err != nil {
		// the client reconnects on its own, beacons degrade meanwhile
		log.Warn("redis unreachable at boot", zap.Error(err))
	}

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		log.Warn("failed to instrument redis tracing", zap.Error(err))
	}

	return rdb
}
