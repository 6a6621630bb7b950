// Package cache is a small key/value store with expiry. Redis backs it when
// configured; otherwise a process-local map does.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kompas/internal/config"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	// GetDel reads and removes a key in one step.
	GetDel(ctx context.Context, key string) ([]byte, error)
}

// New connects to Redis when REDIS_ADDR is set and answers a ping. Any
// other case falls back to memory, which only suits a single instance.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) Cache {
	if cfg.RedisAddr == "" {
		log.Info("cache: using in-memory store")
		return NewMemory()
	}
	rc := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		log.Warn("cache: redis unreachable, using in-memory store", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = rc.Close()
		return NewMemory()
	}
	log.Info("cache: using redis", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisDB))
	return NewRedis(rc)
}

func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	b, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, b, ttl)
}

// StatsPrefix namespaces the derived statistics of one user. Every write to
// the user's data drops the whole prefix.
func StatsPrefix(userID uuid.UUID) string {
	return "stats:" + userID.String() + ":"
}
