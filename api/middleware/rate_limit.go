package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/chanderbhanswami/vardhman-mills-sub005/api/responses"
	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/logger"
)

type fixedWindowStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// IPLimiter applies a Redis-backed fixed window per client IP.
type IPLimiter struct {
	Store  fixedWindowStore
	Limit  int64
	Window time.Duration
}

// Allow reports whether the request's client IP is under the limit.
func (l *IPLimiter) Allow(r *http.Request) (bool, error) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	allowed, _, err := l.Store.FixedWindowAllow(r.Context(), "session_create:"+host, l.Limit, l.Window)
	return allowed, err
}

type requestLimiter interface {
	Allow(r *http.Request) (bool, error)
}

// SessionCreateLimit throttles anonymous session creation per client IP.
// A limiter outage fails open: losing Redis must not take checkout down.
func SessionCreateLimit(limiter requestLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r)
			if err != nil {
				if logg != nil {
					logg.Warn(r.Context(), "rate limit check failed, allowing request")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many sessions, slow down"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
