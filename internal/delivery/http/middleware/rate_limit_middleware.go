package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"clinic-directory/pkg/response"

	"golang.org/x/time/rate"
)

// clientIdleTTL is how long an unused client bucket is kept.
const clientIdleTTL = 5 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimitMiddleware struct {
	rps   rate.Limit
	burst int

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimitMiddleware gives every client address its own bucket of rps with
// the given burst. A non-positive rps disables limiting.
func NewRateLimitMiddleware(rps float64, burst int) *RateLimitMiddleware {
	if rps <= 0 {
		return &RateLimitMiddleware{}
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitMiddleware{
		rps:     rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

func (m *RateLimitMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.clients != nil && !m.allow(clientKey(r)) {
			w.Header().Set("Retry-After", "1")
			response.TooManyRequests(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *RateLimitMiddleware) allow(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) > clientIdleTTL {
		for k, c := range m.clients {
			if now.Sub(c.lastSeen) > clientIdleTTL {
				delete(m.clients, k)
			}
		}
		m.lastSweep = now
	}

	c, ok := m.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(m.rps, m.burst)}
		m.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// clientKey is the remote host without its port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
