package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sproutly/greenhouse/cmd/greenhouse/models"
	"github.com/sproutly/greenhouse/cmd/greenhouse/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user's id
	UserIDKey ContextKey = "user_id"
	// UserKey is the context key for the authenticated user record
	UserKey ContextKey = "user"

	// SessionCookieName is the cookie fallback for clients that don't
	// send an Authorization header
	SessionCookieName = "greenhouse_session"
)

// RequireSession resolves the session token (Bearer header or cookie) and
// stores the user in the request context. Requests without a valid session
// get a 401 and never reach the handler.
func RequireSession(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "authentication required",
				})
			}

			user, err := auth.Resolve(c.Request().Context(), token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "invalid or expired session",
				})
			}

			c.Set(string(UserIDKey), user.ID)
			c.Set(string(UserKey), user)
			return next(c)
		}
	}
}

// ExtractToken pulls the session token off a request: Authorization Bearer
// first, session cookie second. Empty string when neither is present.
func ExtractToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	cookie, err := c.Cookie(SessionCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

// GetUserID retrieves the authenticated user's id from the request context.
// Returns uuid.Nil if not set.
func GetUserID(c echo.Context) uuid.UUID {
	id := c.Get(string(UserIDKey))
	if id == nil {
		return uuid.Nil
	}
	return id.(uuid.UUID)
}

// GetUser retrieves the authenticated user from the request context
func GetUser(c echo.Context) *models.User {
	user := c.Get(string(UserKey))
	if user == nil {
		return nil
	}
	return user.(*models.User)
}
