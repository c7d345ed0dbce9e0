// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptStore tracks failed logins and lockouts per account key.
type AttemptStore interface {
	// Fail records a failure and returns the failures counted in window.
	Fail(ctx context.Context, key string, window time.Duration) (int, error)
	// Lock locks key for d and resets its failure count.
	Lock(ctx context.Context, key string, d time.Duration) error
	// LockedFor returns the remaining lockout, zero when unlocked.
	LockedFor(ctx context.Context, key string) (time.Duration, error)
	// Reset forgets failures and lockouts for key.
	Reset(ctx context.Context, key string) error
}

type attempt struct {
	count       int
	firstFailed time.Time
	lockedUntil time.Time
}

// MemoryAttempts is a process-local AttemptStore.
type MemoryAttempts struct {
	mu       sync.Mutex
	attempts map[string]*attempt
	now      func() time.Time
}

// NewMemoryAttempts returns an empty memory store.
func NewMemoryAttempts() *MemoryAttempts {
	return &MemoryAttempts{attempts: make(map[string]*attempt), now: time.Now}
}

// Fail implements AttemptStore.
func (m *MemoryAttempts) Fail(_ context.Context, key string, window time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	a, ok := m.attempts[key]
	if !ok {
		m.attempts[key] = &attempt{count: 1, firstFailed: now}
		return 1, nil
	}
	if a.count == 0 || now.Sub(a.firstFailed) > window {
		a.count = 1
		a.firstFailed = now
		return 1, nil
	}
	a.count++
	return a.count, nil
}

// Lock implements AttemptStore.
func (m *MemoryAttempts) Lock(_ context.Context, key string, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.attempts[key]
	if !ok {
		a = &attempt{}
		m.attempts[key] = a
	}
	a.lockedUntil = m.now().Add(d)
	a.count = 0
	return nil
}

// LockedFor implements AttemptStore.
func (m *MemoryAttempts) LockedFor(_ context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.attempts[key]
	if !ok {
		return 0, nil
	}
	if left := a.lockedUntil.Sub(m.now()); left > 0 {
		return left, nil
	}
	return 0, nil
}

// Reset implements AttemptStore.
func (m *MemoryAttempts) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.attempts, key)
	m.mu.Unlock()
	return nil
}

// Prune drops entries that are neither locked nor within window.
func (m *MemoryAttempts) Prune(window time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, a := range m.attempts {
		if now.After(a.lockedUntil) && now.Sub(a.firstFailed) > window {
			delete(m.attempts, k)
		}
	}
}

// RedisAttempts shares lockouts between server instances.
type RedisAttempts struct {
	client *redis.Client
	prefix string
}

// NewRedisAttempts connects to the Redis server at url.
func NewRedisAttempts(ctx context.Context, url, prefix string) (*RedisAttempts, error) {
	if url == "" {
		return nil, errors.New("redis URL is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisAttempts{client: client, prefix: prefix + "login:"}, nil
}

func (r *RedisAttempts) failKey(key string) string { return r.prefix + "fail:" + key }
func (r *RedisAttempts) lockKey(key string) string { return r.prefix + "lock:" + key }

// Fail implements AttemptStore.
func (r *RedisAttempts) Fail(ctx context.Context, key string, window time.Duration) (int, error) {
	k := r.failKey(key)
	n, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := r.client.PExpire(ctx, k, window).Err(); err != nil {
			return 0, err
		}
	}
	return int(n), nil
}

// Lock implements AttemptStore.
func (r *RedisAttempts) Lock(ctx context.Context, key string, d time.Duration) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.lockKey(key), "1", d)
	pipe.Del(ctx, r.failKey(key))
	_, err := pipe.Exec(ctx)
	return err
}

// LockedFor implements AttemptStore.
func (r *RedisAttempts) LockedFor(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := r.client.PTTL(ctx, r.lockKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	// Negative values mean the key is missing or has no expiry.
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// Reset implements AttemptStore.
func (r *RedisAttempts) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.failKey(key), r.lockKey(key)).Err()
}

// Close closes the Redis connection.
func (r *RedisAttempts) Close() error {
	return r.client.Close()
}
