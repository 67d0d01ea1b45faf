package http

import (
	"net"
	"net/http"

	"loan-calculator/logging"
)

func RateLimitMiddleware(
	limiter *RateLimiter,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !limiter.Allow(ip) {
			logging.FromContext(r.Context()).
				WithComponent(logging.ComponentRateLimit).
				Warn("rate limit exceeded", logging.FieldClientIP, ip, logging.FieldPath, r.URL.Path)
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
