package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore keeps tokens rejected before their expiry. Logout and
// refresh rotation revoke one token by JTI. Password resets, suspensions and
// deactivations revoke every token issued to a user up to now.
type RevocationStore interface {
	// RevokeToken rejects jti for ttl, the token's remaining lifetime
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	// RevokeUser rejects every token of userID issued before now. ttl should
	// cover the longest token lifetime.
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
	// Revoked reports whether a token is rejected by either rule. An empty jti
	// only checks the user rule.
	Revoked(ctx context.Context, jti, userID string, issuedAt time.Time) (bool, error)
}

const revocationPrefix = "auth:revoked:"

// RedisRevocationStore shares revocations across instances
type RedisRevocationStore struct {
	client *redis.Client
}

func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func tokenKey(jti string) string   { return revocationPrefix + "jti:" + jti }
func userKey(userID string) string { return revocationPrefix + "user:" + userID }

func (s *RedisRevocationStore) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, tokenKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *RedisRevocationStore) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, userKey(userID), time.Now().UnixNano(), ttl).Err(); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

// Revoked checks both keys in a single round trip
func (s *RedisRevocationStore) Revoked(ctx context.Context, jti, userID string, issuedAt time.Time) (bool, error) {
	var tokenHit *redis.IntCmd
	var userCut *redis.StringCmd
	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		if jti != "" {
			tokenHit = p.Exists(ctx, tokenKey(jti))
		}
		userCut = p.Get(ctx, userKey(userID))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	if tokenHit != nil && tokenHit.Val() > 0 {
		return true, nil
	}

	raw, err := userCut.Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	cut, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse revocation time %q: %w", raw, err)
	}
	return !issuedAt.After(time.Unix(0, cut)), nil
}

// MemoryRevocationStore is used when Redis is disabled. Revocations are
// local to the process and expired entries are dropped lazily.
type MemoryRevocationStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time // jti -> expiry
	users  map[string]revokedUser
}

type revokedUser struct {
	at, until time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		tokens: make(map[string]time.Time),
		users:  make(map[string]revokedUser),
	}
}

func (s *MemoryRevocationStore) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	s.tokens[jti] = time.Now().Add(ttl)
	s.mu.Unlock()
	return nil
}

func (s *MemoryRevocationStore) RevokeUser(_ context.Context, userID string, ttl time.Duration) error {
	now := time.Now()
	s.mu.Lock()
	s.users[userID] = revokedUser{at: now, until: now.Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryRevocationStore) Revoked(_ context.Context, jti, userID string, issuedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()

	if until, ok := s.tokens[jti]; ok {
		if now.Before(until) {
			return true, nil
		}
		delete(s.tokens, jti)
	}
	if u, ok := s.users[userID]; ok {
		if now.After(u.until) {
			delete(s.users, userID)
			return false, nil
		}
		return !issuedAt.After(u.at), nil
	}
	return false, nil
}

var (
	_ RevocationStore = (*RedisRevocationStore)(nil)
	_ RevocationStore = (*MemoryRevocationStore)(nil)
)
