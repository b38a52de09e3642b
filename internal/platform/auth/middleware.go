package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
)

type contextKey string

const (
	AccountIDKey contextKey = "account_id"
	RoleKey      contextKey = "role"
)

// JWTMiddleware authenticates bearer tokens and stores the account id in the
// request context. Requests for which skipper returns true pass through.
func JWTMiddleware(tokens *Tokens, skipper func(echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return apperr.Unauthorized("missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return apperr.Unauthorized("invalid authorization format")
			}

			claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return err
			}
			accountID, _ := claims.AccountID()

			c.Set("account_id", accountID.String())
			c.SetRequest(c.Request().WithContext(WithAccountID(c.Request().Context(), accountID)))
			return next(c)
		}
	}
}

func WithAccountID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, AccountIDKey, id)
}

// AccountIDFromContext returns the authenticated account, or uuid.Nil.
func AccountIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(AccountIDKey).(uuid.UUID)
	return id
}

// RequireAccount returns the authenticated account or UNAUTHORIZED.
func RequireAccount(ctx context.Context) (uuid.UUID, error) {
	id := AccountIDFromContext(ctx)
	if id == uuid.Nil {
		return uuid.Nil, apperr.Unauthorized("authentication required")
	}
	return id, nil
}

func WithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, RoleKey, role)
}

func RoleFromContext(ctx context.Context) Role {
	r, _ := ctx.Value(RoleKey).(Role)
	return r
}
