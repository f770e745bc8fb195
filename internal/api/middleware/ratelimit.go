package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// maxTrackedClients caps the limiter map; past it the map is reset
// wholesale, which at worst re-grants one burst per client.
const maxTrackedClients = 10000

// clientLimiters hands out one token bucket per client IP, with a hard
// cap on how many clients are tracked at once.
type clientLimiters struct {
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
	max      int
	limiters map[string]*rate.Limiter
}

func newClientLimiters(rps rate.Limit, burst, max int) *clientLimiters {
	return &clientLimiters{
		rps:      rps,
		burst:    burst,
		max:      max,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *clientLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) >= l.max {
			l.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

// RateLimit applies a per-client-IP token bucket. Used on the auth
// endpoints to slow down code guessing and signup floods.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	clients := newClientLimiters(rps, burst, maxTrackedClients)

	return func(c *gin.Context) {
		if !clients.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
