package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxActor extracts the claims injected by the Auth middleware and performs
// a fast-fail check before any service call: a missing role claim proves the
// middleware did not run on this route.
func ctxActor(c echo.Context) (userID, role string, err error) {
	role, _ = c.Get("role").(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ = c.Get("user_id").(string)
	return userID, role, nil
}
