package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type limiterClient struct {
	lim  *rate.Limiter
	seen time.Time
}

// loginLimiter throttles credential attempts per source IP.
type loginLimiter struct {
	mu      sync.Mutex
	clients map[string]*limiterClient
	r       rate.Limit
	burst   int
}

func newLoginLimiter(rps float64, burst int) *loginLimiter {
	l := &loginLimiter{
		clients: make(map[string]*limiterClient),
		r:       rate.Limit(rps),
		burst:   burst,
	}
	// cleanup stale entries every minute
	go func() {
		for {
			time.Sleep(time.Minute)
			l.mu.Lock()
			for ip, c := range l.clients {
				if time.Since(c.seen) > 3*time.Minute {
					delete(l.clients, ip)
				}
			}
			l.mu.Unlock()
		}
	}()
	return l
}

func (l *loginLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.clients[ip]; ok {
		c.seen = time.Now()
		return c.lim
	}
	lim := rate.NewLimiter(l.r, l.burst)
	l.clients[ip] = &limiterClient{lim: lim, seen: time.Now()}
	return lim
}

func (l *loginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !l.get(ip).Allow() {
			writeError(w, http.StatusTooManyRequests, "too_many_requests", "slow down and retry")
			return
		}
		next.ServeHTTP(w, r)
	})
}
