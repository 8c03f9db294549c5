package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter keeps one token bucket per client key.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	r       rate.Limit
	burst   int
	stop    chan struct{}
	once    sync.Once
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		r:       rate.Limit(rps),
		burst:   burst,
		stop:    make(chan struct{}),
	}
	// cleanup stale entries every minute
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				rl.sweep(3 * time.Minute)
			case <-rl.stop:
				return
			}
		}
	}()
	return rl
}

func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) sweep(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, c := range rl.clients {
		if time.Since(c.seen) > maxIdle {
			delete(rl.clients, key)
		}
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	c, ok := rl.clients[key]
	if !ok {
		c = &client{lim: rate.NewLimiter(rl.r, rl.burst)}
		rl.clients[key] = c
	}
	c.seen = time.Now()
	return c.lim.Allow()
}

// RateLimit limits a route per client IP.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

// UnaryRateLimit is the gRPC flavour, keyed by peer address.
func UnaryRateLimit(rl *RateLimiter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		ip := "unknown"
		if p, ok := peer.FromContext(ctx); ok {
			ip = p.Addr.String()
		}
		if !rl.Allow(ip) {
			return nil, status.Error(codes.ResourceExhausted, "too many requests")
		}
		return next(ctx, req)
	}
}
