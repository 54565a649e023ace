package persistence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration. Connectivity
// problems are logged, not fatal; lock acquisition degrades to the
// in-process guard.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// SweepLock serializes SLA sweeps across instances. With Redis available it
// uses SET NX with a TTL; otherwise it falls back to an in-process mutex so
// single-instance deployments still get the single-active-sweep guarantee.
type SweepLock struct {
	redis *Redis
	key   string
	ttl   time.Duration

	mu   sync.Mutex
	held bool
}

// NewSweepLock constructs the lock. redis may carry a nil client.
func NewSweepLock(r *Redis, key string, ttl time.Duration) *SweepLock {
	if key == "" {
		key = "helpdesk:sla:sweep"
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &SweepLock{redis: r, key: key, ttl: ttl}
}

// Acquire attempts to take the lock. It returns false when another sweep
// holds it.
func (l *SweepLock) Acquire(ctx context.Context) (bool, error) {
	if l.redis != nil && l.redis.Client != nil {
		ok, err := l.redis.Client.SetNX(ctx, l.key, "1", l.ttl).Result()
		if err == nil {
			return ok, nil
		}
		// fall through to the local guard when redis is unreachable
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

// Release frees the lock. Safe to call after a failed Acquire.
func (l *SweepLock) Release(ctx context.Context) {
	if l.redis != nil && l.redis.Client != nil {
		_ = l.redis.Client.Del(ctx, l.key).Err()
	}

	l.mu.Lock()
	l.held = false
	l.mu.Unlock()
}
