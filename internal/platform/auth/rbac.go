package auth

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
)

// Role is a member's role inside one organization.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleMember  Role = "member"
	RoleBilling Role = "billing"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleBilling:
		return true
	}
	return false
}

// Allows reports whether r satisfies one of roles. Admin satisfies every role.
func (r Role) Allows(roles ...Role) bool {
	if r == RoleAdmin {
		return true
	}
	for _, want := range roles {
		if r == want {
			return true
		}
	}
	return false
}

// RequireRole rejects requests whose tenant role is not one of roles. It runs
// after the tenant middleware, which stores the caller's role.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if RoleFromContext(c.Request().Context()).Allows(roles...) {
				return next(c)
			}
			names := make([]string, len(roles))
			for i, r := range roles {
				names[i] = string(r)
			}
			return apperr.Forbidden(fmt.Sprintf("required role: %s", strings.Join(names, " or ")))
		}
	}
}
