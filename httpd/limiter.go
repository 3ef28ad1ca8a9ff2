package httpd

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/uhppoted/uhppoted-app-sheets-pdf/log"
)

// limiter keeps one token bucket per client IP.
type limiter struct {
	sync.Mutex
	ips   map[string]*rate.Limiter
	limit rate.Limit
	burst int
}

func newLimiter(perSecond float64, burst int) *limiter {
	return &limiter{
		ips:   map[string]*rate.Limiter{},
		limit: rate.Limit(perSecond),
		burst: burst,
	}
}

func (l *limiter) get(ip string) *rate.Limiter {
	l.Lock()
	defer l.Unlock()

	bucket, ok := l.ips[ip]
	if !ok {
		bucket = rate.NewLimiter(l.limit, l.burst)
		l.ips[ip] = bucket
	}

	return bucket
}

func (l *limiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !l.get(ip).Allow() {
			log.Warnf("httpd", "rate limit exceeded for %v", ip)
			reply(w, http.StatusTooManyRequests, failure("rate limit exceeded"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
