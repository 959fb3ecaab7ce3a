package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/tunerp/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// LimitStore counts requests per key inside a fixed window
type LimitStore interface {
	// Take consumes one request for key and returns the requests left.
	// allowed is false once the window budget is spent.
	Take(ctx context.Context, key string) (remaining int, allowed bool, err error)
	Limit() int
}

// RateLimiter is an in-memory fixed window limiter
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	window  time.Duration
	now     func() time.Time
	stop    chan struct{}
}

type client struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter creates a new rate limiter and starts its cleanup loop
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		window:  window,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.cleanup(window * 2)
	return rl
}

// Close stops the cleanup loop
func (rl *RateLimiter) Close() {
	select {
	case <-rl.stop:
	default:
		close(rl.stop)
	}
}

func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, c := range rl.clients {
				if now.Sub(c.lastReset) > rl.window*2 {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Limit returns the number of requests allowed per window
func (rl *RateLimiter) Limit() int { return rl.limit }

// Take implements LimitStore
func (rl *RateLimiter) Take(_ context.Context, key string) (int, bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, exists := rl.clients[key]
	if !exists || now.Sub(c.lastReset) >= rl.window {
		rl.clients[key] = &client{tokens: rl.limit - 1, lastReset: now}
		return rl.limit - 1, rl.limit > 0, nil
	}
	if c.tokens > 0 {
		c.tokens--
		return c.tokens, true, nil
	}
	return 0, false, nil
}

// Allow reports whether a request from key is allowed
func (rl *RateLimiter) Allow(key string) bool {
	_, ok, _ := rl.Take(context.Background(), key)
	return ok
}

// RedisRateLimiter shares the window counters between API instances
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisRateLimiter creates a limiter backed by INCR/PEXPIRE counters
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *RedisRateLimiter {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisRateLimiter{client: client, limit: limit, window: window, prefix: prefix}
}

// Limit returns the number of requests allowed per window
func (r *RedisRateLimiter) Limit() int { return r.limit }

// Take implements LimitStore
func (r *RedisRateLimiter) Take(ctx context.Context, key string) (int, bool, error) {
	slot := time.Now().UnixNano() / int64(r.window)
	redisKey := r.prefix + key + ":" + strconv.FormatInt(slot, 10)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.PExpire(ctx, redisKey, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, false, err
	}

	count := int(incr.Val())
	if count > r.limit {
		return 0, false, nil
	}
	return r.limit - count, true, nil
}

// RateLimitConfig configures the rate limiting middleware
type RateLimitConfig struct {
	Store LimitStore
	// KeyFunc defaults to the company of the JWT, then the client IP
	KeyFunc func(*gin.Context) string
	Logger  *zap.Logger
}

// DefaultRateLimitKey keys authenticated requests by company and
// anonymous ones by client IP
func DefaultRateLimitKey(c *gin.Context) string {
	if companyID := GetJWTCompanyID(c); companyID != "" {
		return "company:" + companyID
	}
	if userID := GetJWTUserID(c); userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}

// RateLimit returns a rate limiting middleware
func RateLimit(store LimitStore) gin.HandlerFunc {
	return RateLimitWithConfig(RateLimitConfig{Store: store})
}

// RateLimitWithConfig returns a rate limiting middleware with custom config.
// Store errors let the request through.
func RateLimitWithConfig(cfg RateLimitConfig) gin.HandlerFunc {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = DefaultRateLimitKey
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := keyFunc(c)
		remaining, allowed, err := cfg.Store.Take(c.Request.Context(), key)
		if err != nil {
			log.Warn("Rate limit store unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Store.Limit()))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.Failure(
				dto.ErrCodeRateLimited, "Trop de requêtes, réessayez plus tard", c.GetString(RequestIDKey)))
			return
		}
		c.Next()
	}
}

// LoginRateLimit throttles credential attempts per client IP
func LoginRateLimit(store LimitStore) gin.HandlerFunc {
	return RateLimitWithConfig(RateLimitConfig{
		Store: store,
		KeyFunc: func(c *gin.Context) string {
			return "login:" + c.ClientIP()
		},
	})
}
