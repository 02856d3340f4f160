package api

import (
	"github.com/labstack/echo/v4"

	"AgriPull/internal/service/ratelimit"
	xhttp "AgriPull/pkg/http"
)

// RateLimit rejects clients that exhaust their token bucket with 429.
// Clients are keyed by c.RealIP. A nil limiter lets everything through.
func RateLimit(l *ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if l == nil {
			return next
		}
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				c.Response().Header().Set("Retry-After", "1")
				return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limit exceeded"))
			}
			return next(c)
		}
	}
}
