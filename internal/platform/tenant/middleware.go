package tenant

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
)

// OrganizationHeader selects one of the caller's organizations.
const OrganizationHeader = "X-Organization-ID"

type contextKey string

const membershipKey contextKey = "tenant_membership"

// Middleware resolves the tenant for every request and stores it in the
// request context. It must run after auth.JWTMiddleware.
func Middleware(r *Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			accountID, err := auth.RequireAccount(ctx)
			if err != nil {
				return err
			}

			var preferred *uuid.UUID
			if h := strings.TrimSpace(c.Request().Header.Get(OrganizationHeader)); h != "" {
				id, err := uuid.Parse(h)
				if err != nil {
					return apperr.Invalid("invalid %s header", OrganizationHeader)
				}
				preferred = &id
			}

			m, err := r.Resolve(ctx, accountID, preferred)
			if err != nil {
				return err
			}

			c.Set("organization_id", m.OrganizationID.String())
			c.SetRequest(c.Request().WithContext(WithMembership(ctx, m)))
			return next(c)
		}
	}
}

// WithMembership stores m and its role in ctx.
func WithMembership(ctx context.Context, m *Membership) context.Context {
	ctx = context.WithValue(ctx, membershipKey, m)
	return auth.WithRole(ctx, m.Role)
}

// FromContext returns the resolved membership, or nil outside tenant routes.
func FromContext(ctx context.Context) *Membership {
	m, _ := ctx.Value(membershipKey).(*Membership)
	return m
}

// OrgID returns the resolved organization id or NOT_FOUND when the request
// carries no tenant.
func OrgID(ctx context.Context) (uuid.UUID, error) {
	m := FromContext(ctx)
	if m == nil {
		return uuid.Nil, ErrNoOrganization
	}
	return m.OrganizationID, nil
}
