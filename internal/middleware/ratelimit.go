package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type bucket struct {
	count int
	start time.Time
}

// Limiter counts requests per key in fixed windows. Buckets older than one
// window are swept in the background.
type Limiter struct {
	mu     sync.Mutex
	keys   map[string]*bucket
	limit  int
	window time.Duration
}

func NewLimiter(limit int, window time.Duration) *Limiter {
	l := &Limiter{
		keys:   make(map[string]*bucket),
		limit:  limit,
		window: window,
	}
	go l.sweep()
	return l
}

func (l *Limiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	b := l.keys[key]
	if b == nil || now.Sub(b.start) >= l.window {
		l.keys[key] = &bucket{count: 1, start: now}
		return true
	}
	b.count++
	return b.count <= l.limit
}

func (l *Limiter) sweep() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		l.mu.Lock()
		for k, b := range l.keys {
			if time.Since(b.start) >= l.window {
				delete(l.keys, k)
			}
		}
		l.mu.Unlock()
	}
}

// rateKey prefers the authenticated user id: one account cannot dodge the
// limit by rotating IPs, and users behind one NAT do not share a bucket.
// Anonymous traffic falls back to the client IP.
func rateKey(c *gin.Context) string {
	if id := GetUserID(c); id != 0 {
		return "u:" + strconv.FormatUint(uint64(id), 10)
	}
	return "ip:" + c.ClientIP()
}

// RateLimit applies the limiter to every request. Mount a second, tighter
// Limiter after AuthRequired on balance-mutating routes so deposit,
// withdraw and bet submissions are throttled per account.
func RateLimit(l *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(rateKey(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
