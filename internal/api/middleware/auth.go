package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/contacthub/contacts-api/internal/api/metrics"
	"github.com/contacthub/contacts-api/internal/core/ports"
)

// Context keys set by Auth for downstream handlers.
const (
	ContextUser   = "user"
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// Auth validates the bearer credential as an access token, resolves its
// subject to a user through the cache-backed user service, and injects the
// identity into the request context. Any failure yields 401.
func Auth(tokens ports.TokenService, users ports.UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorized("missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return unauthorized("invalid authorization header")
			}

			payload, err := tokens.Verify(parts[1], ports.PurposeAccess)
			if err != nil {
				return unauthorized("invalid token")
			}

			userID, err := strconv.ParseInt(payload.Subject, 10, 64)
			if err != nil {
				return unauthorized("invalid token")
			}

			user, err := users.CurrentUser(c.Request().Context(), userID)
			if err != nil {
				return unauthorized("unknown user")
			}

			metrics.AccessTokenChecksTotal.WithLabelValues("ok").Inc()
			c.Set(ContextUser, user)
			c.Set(ContextUserID, user.ID)
			c.Set(ContextRole, user.Role)

			return next(c)
		}
	}
}

func unauthorized(msg string) error {
	metrics.AccessTokenChecksTotal.WithLabelValues("unauthorized").Inc()
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}
