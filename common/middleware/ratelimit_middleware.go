package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sproutly/greenhouse/common/ratelimit"
)

// UserRateLimitMiddleware checks per-user rate limits for a named operation.
// Requires the user id to be set in context by the session middleware.
func UserRateLimitMiddleware(rateLimiter *ratelimit.RateLimiter, operation string, limit int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Get user id from context (set by session middleware)
			var userID string
			switch v := c.Get("user_id").(type) {
			case string:
				userID = v
			case fmt.Stringer:
				userID = v.String()
			}
			if userID == "" {
				// No user, skip rate limiting (the auth middleware rejects first)
				return next(c)
			}

			result, err := rateLimiter.CheckUserLimit(c.Request().Context(), userID, operation, limit, 60)
			if err != nil {
				// On error, allow request (fail open for availability)
				return next(c)
			}

			if !result.Allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error": "rate_limit_exceeded",
					"details": map[string]interface{}{
						"operation":           operation,
						"limit":               result.Limit,
						"window":              "60 seconds",
						"current_count":       result.CurrentCount,
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}
