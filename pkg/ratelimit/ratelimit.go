// Package ratelimit bounds how often one user may call the AI endpoints.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter reports whether key may perform one more call now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Config struct {
	PerMinute       int
	CleanupInterval time.Duration
}

type keyLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// LocalLimiter keeps one token bucket per key in process memory.
type LocalLimiter struct {
	config Config
	mu     sync.Mutex
	keys   map[string]*keyLimiter
	stopCh chan struct{}
}

// NewLocalLimiter starts a background sweep of idle keys; call Stop to end it.
func NewLocalLimiter(config Config) *LocalLimiter {
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	l := &LocalLimiter{
		config: config,
		keys:   make(map[string]*keyLimiter),
		stopCh: make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

func (l *LocalLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	kl, ok := l.keys[key]
	if !ok {
		kl = &keyLimiter{
			limiter: rate.NewLimiter(rate.Limit(float64(l.config.PerMinute)/60.0), l.config.PerMinute),
		}
		l.keys[key] = kl
	}
	kl.lastAccess = time.Now()
	l.mu.Unlock()

	return kl.limiter.Allow(), nil
}

func (l *LocalLimiter) Stop() {
	close(l.stopCh)
}

// Len is the number of tracked keys.
func (l *LocalLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}

func (l *LocalLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup(time.Now())
		case <-l.stopCh:
			return
		}
	}
}

// cleanup drops keys idle for more than two cleanup intervals.
func (l *LocalLimiter) cleanup(now time.Time) {
	ttl := l.config.CleanupInterval * 2

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, kl := range l.keys {
		if now.Sub(kl.lastAccess) > ttl {
			delete(l.keys, key)
		}
	}
}

// RedisLimiter is a fixed one-minute window shared by every instance that uses the same Redis.
type RedisLimiter struct {
	client    redis.UniversalClient
	perMinute int
	prefix    string
	now       func() time.Time
}

func NewRedisLimiter(client redis.UniversalClient, perMinute int) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		perMinute: perMinute,
		prefix:    "voicenotes:ratelimit:",
		now:       time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	window := l.now().Unix() / 60
	redisKey := fmt.Sprintf("%s%s:%d", l.prefix, key, window)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, 2*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}

	return incr.Val() <= int64(l.perMinute), nil
}
