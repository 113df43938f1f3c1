package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/recordkit/errors"
)

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	// RequestsPerMinute caps requests per key in each clock minute. Zero
	// means 60.
	RequestsPerMinute int
	// KeyFunc picks the bucket for a request. Defaults to IPBasedKey.
	KeyFunc func(*gin.Context) string
	// Now defaults to time.Now.
	Now func() time.Time
}

// RateLimit counts requests per key in fixed one-minute windows and
// rejects the excess with RATE_LIMITED and a Retry-After header.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPBasedKey
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	w := &windows{limit: cfg.RequestsPerMinute, counts: map[string]int{}}

	return func(c *gin.Context) {
		now := cfg.Now()
		if w.take(cfg.KeyFunc(c), now) {
			c.Next()
			return
		}
		wait := now.Truncate(time.Minute).Add(time.Minute).Sub(now)
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		appErr := errors.RateLimited()
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
	}
}

// IPBasedKey buckets requests by client IP.
func IPBasedKey(c *gin.Context) string {
	return c.ClientIP()
}

// windows holds the counters of the current minute only; they are reset
// wholesale when the minute rolls over.
type windows struct {
	mu     sync.Mutex
	limit  int
	start  time.Time
	counts map[string]int
}

func (w *windows) take(key string, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if minute := now.Truncate(time.Minute); !minute.Equal(w.start) {
		w.start = minute
		clear(w.counts)
	}
	if w.counts[key] >= w.limit {
		return false
	}
	w.counts[key]++
	return true
}
