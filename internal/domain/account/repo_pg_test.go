package account

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/guilherme-michels/clinic-up-sub000/internal/domain/organization"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db/dbtest"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/tenant"
)

func TestSignUp_Postgres(t *testing.T) {
	pool := dbtest.New(t)
	tx := db.NewTransactor(pool)
	orgs := organization.NewService(organization.NewRepoPG(pool), tenant.NewResolver(tenant.NewPGStore(pool)), tx)
	tokens := auth.NewTokens(auth.JWTConfig{Issuer: "test", SigningKey: []byte("test-secret"), TTL: time.Hour})
	svc := NewService(NewRepoPG(pool), NewProviderRepoPG(pool), orgs, tx, tokens, auth.NewPasswords(bcrypt.MinCost))
	ctx := context.Background()

	sess, err := svc.SignUp(ctx, validSignUp())
	require.NoError(t, err)
	require.NotNil(t, sess.Organization)
	assert.Equal(t, "acme-clinic", sess.Organization.Slug)

	t.Run("resolver sees admin membership", func(t *testing.T) {
		m, err := tenant.NewResolver(tenant.NewPGStore(pool)).Resolve(ctx, sess.Account.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, sess.Organization.ID, m.OrganizationID)
		assert.Equal(t, auth.RoleAdmin, m.Role)
	})

	t.Run("duplicate email leaves nothing behind", func(t *testing.T) {
		in := validSignUp()
		in.Email = "ADA@example.com"
		in.OrganizationName = "Second Clinic"
		_, err := svc.SignUp(ctx, in)
		assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)
		assert.Equal(t, 1, dbtest.Count(t, pool, "accounts"))
		assert.Equal(t, 1, dbtest.Count(t, pool, "organizations"))
		assert.Equal(t, 1, dbtest.Count(t, pool, "memberships"))
	})

	t.Run("failed organization rolls back the account", func(t *testing.T) {
		in := validSignUp()
		in.Email = "grace@example.com"
		in.OrganizationName = strings.Repeat("x", 121)
		_, err := svc.SignUp(ctx, in)
		assert.True(t, apperr.Is(err, apperr.KindInvalid), "got %v", err)
		assert.Equal(t, 1, dbtest.Count(t, pool, "accounts"))

		_, err = svc.SignIn(ctx, SignInInput{Email: in.Email, Password: in.Password})
		assert.True(t, apperr.Is(err, apperr.KindUnauthorized), "got %v", err)
	})

	t.Run("same organization name gets a suffixed slug", func(t *testing.T) {
		in := validSignUp()
		in.Email = "linus@example.com"
		sess, err := svc.SignUp(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "acme-clinic-2", sess.Organization.Slug)
	})

	t.Run("sign in is case insensitive on email", func(t *testing.T) {
		got, err := svc.SignIn(ctx, SignInInput{Email: "ada@EXAMPLE.com", Password: validSignUp().Password})
		require.NoError(t, err)
		assert.Equal(t, sess.Account.ID, got.Account.ID)
	})
}
