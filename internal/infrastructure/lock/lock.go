// Package lock serializes the read-modify-write sections of the document
// flows. Every sale, purchase, return, payment and stock adjustment of a
// company runs under the company key so two requests cannot interleave their
// stock and balance reads and writes. Writes made outside the key are caught
// by the repositories' version check; RetryConflicts replays those.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/infrastructure/config"
	"github.com/tunerp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Locker runs fn while holding an exclusive lock on key
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// CompanyKey is the lock key guarding a company's stock and document balances
func CompanyKey(tenantID uuid.UUID) string {
	return "lock:company:" + tenantID.String()
}

// ConflictRetries bounds RetryConflicts
const ConflictRetries = 3

// RetryConflicts runs fn again while it fails with
// shared.ErrConcurrencyConflict, at most ConflictRetries times in all. fn
// must reload what it changes on every call.
func RetryConflicts(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= ConflictRetries; attempt++ {
		if err = fn(ctx); !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
		logger.L(ctx).Debug("Retrying after concurrent modification", zap.Int("attempt", attempt))
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}

// RedisLocker implements Locker with bsm/redislock so that every API
// instance shares the same locks.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

// NewRedisLocker creates a RedisLocker on a shared Redis client
func NewRedisLocker(client *redis.Client, cfg config.LockConfig) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(client),
		ttl:    cfg.TTL,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(cfg.RetryBackoff), cfg.RetryCount),
	}
}

// WithLock obtains key, runs fn and releases the lock. When the lock stays
// taken after every retry it returns shared.ErrLockNotObtained.
func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	held, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		logger.L(ctx).Warn("Lock not obtained", zap.String("key", key))
		return shared.ErrLockNotObtained
	}
	if err != nil {
		return fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}

	defer func() {
		// The request context may already be cancelled; release regardless.
		if err := held.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			logger.L(ctx).Error("Failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}()

	return fn(ctx)
}

// MemoryLocker implements Locker inside one process. It is used when Redis
// is disabled and in tests.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewMemoryLocker creates a MemoryLocker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: make(map[string]chan struct{})}
}

func (l *MemoryLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[key] = s
	}
	return s
}

// WithLock waits for key until ctx is done
func (l *MemoryLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	s := l.slot(key)
	select {
	case s <- struct{}{}:
	case <-ctx.Done():
		return shared.ErrLockNotObtained
	}
	defer func() { <-s }()
	return fn(ctx)
}

var (
	_ Locker = (*RedisLocker)(nil)
	_ Locker = (*MemoryLocker)(nil)
)
