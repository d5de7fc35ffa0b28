package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yungbote/force-backend/internal/domain/apperr"
	"github.com/yungbote/force-backend/internal/http/response"
	"github.com/yungbote/force-backend/internal/observability"
)

type RateLimitConfig struct {
	RPS      float64
	Burst    int
	EntryTTL time.Duration
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// principalLimiter keeps one token bucket per caller. Idle buckets are
// dropped after EntryTTL.
type principalLimiter struct {
	mu          sync.Mutex
	limit       rate.Limit
	burst       int
	ttl         time.Duration
	entries     map[string]*limiterEntry
	lastCleanup time.Time
	now         func() time.Time
}

func newPrincipalLimiter(cfg RateLimitConfig) *principalLimiter {
	ttl := cfg.EntryTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &principalLimiter{
		limit:       rate.Limit(cfg.RPS),
		burst:       cfg.Burst,
		ttl:         ttl,
		entries:     map[string]*limiterEntry{},
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

func (l *principalLimiter) allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastCleanup) >= l.ttl {
		for k, e := range l.entries {
			if now.Sub(e.lastSeen) > l.ttl {
				delete(l.entries, k)
			}
		}
		l.lastCleanup = now
	}

	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// RateLimit must run after RequireAuth. Requests without a principal pass
// through untouched.
func RateLimit(cfg RateLimitConfig, m *observability.Metrics) gin.HandlerFunc {
	if cfg.RPS <= 0 || cfg.Burst <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	l := newPrincipalLimiter(cfg)
	return func(c *gin.Context) {
		p, ok := Principal(c)
		if ok && !l.allow(p.UserID.String()) {
			m.IncRateLimited(c.FullPath())
			c.Header("Retry-After", "1")
			response.RespondError(c, apperr.New(apperr.CodeRateLimited, "http.rate_limit", "too many generation requests, please slow down"))
			return
		}
		c.Next()
	}
}
