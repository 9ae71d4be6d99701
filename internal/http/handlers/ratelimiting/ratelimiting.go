package ratelimiting

import (
	e "natours/internal/core/domain/errors"
	"natours/internal/core/domain/logging"
	ratelimiter "natours/internal/core/domain/rate_limiter"
	"natours/internal/http/handlers/response"
	"net"
	"net/http"
)

// ByClientIP limits every request by the address of the client. Mount it after
// middleware.RealIP.
func ByClientIP(
	log logging.Logger,
	rateLimiter ratelimiter.RateLimiter,
	limit ratelimiter.Limit,
) func(http.Handler) http.Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if rateLimiter == nil {
		panic(e.NewNilArgumentError("rateLimiter"))
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			result := rateLimiter.CheckLimit(r.Context(), "api::"+ip, limit)
			if !result.IsAllowed {
				log.Warning(r.Context(), "API rate limit exceeded.", logging.Entry("ip", ip))
				response.RenderRateLimitExceeded(rw)
				return
			}
			next.ServeHTTP(rw, r)
		})
	}
}

func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
