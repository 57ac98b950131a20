package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contacthub/contacts-api/internal/api/middleware"
	"github.com/contacthub/contacts-api/internal/core/domain"
)

// ctxUser extracts the identity injected by the Auth middleware. Its absence
// means the route was registered without the middleware, which is a wiring
// error surfaced as 401 rather than a panic.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.ContextUser).(*domain.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}
