package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type route struct{ method, path string }

// publicRoutes are reachable without a bearer token. Matching is on the
// registered route path, so only the listed method opens a route.
var publicRoutes = map[route]bool{
	{http.MethodGet, "/health"}:               true,
	{http.MethodGet, "/health/db"}:            true,
	{http.MethodGet, "/metrics"}:              true,
	{http.MethodPost, "/api/v1/auth/sign-up"}: true,
	{http.MethodPost, "/api/v1/auth/sign-in"}: true,
}

func AuthSkipper(c echo.Context) bool {
	return IsPublicRoute(c.Request().Method, c.Path())
}

// IsPublicRoute reports whether method on path bypasses authentication.
func IsPublicRoute(method, path string) bool {
	return publicRoutes[route{method, path}]
}
