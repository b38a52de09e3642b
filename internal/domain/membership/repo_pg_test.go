package membership

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db/dbtest"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/tenant"
)

func TestMembership_Postgres(t *testing.T) {
	pool := dbtest.New(t)
	svc := NewService(NewRepoPG(pool), db.NewTransactor(pool))
	resolver := tenant.NewResolver(tenant.NewPGStore(pool))
	ctx := context.Background()

	owner := dbtest.Account(t, pool, "owner@clinic.test")
	staff := dbtest.Account(t, pool, "staff@clinic.test")
	orgID := dbtest.Organization(t, pool, "clinic", owner)
	otherOrg := dbtest.Organization(t, pool, "other", owner)

	m, err := svc.Create(ctx, orgID, CreateInput{Email: "STAFF@clinic.test"})
	require.NoError(t, err)
	assert.Equal(t, staff, m.AccountID)
	assert.Equal(t, auth.RoleMember, m.Role)
	assert.Equal(t, "staff@clinic.test", m.Email)

	t.Run("duplicate membership conflicts", func(t *testing.T) {
		_, err := svc.Create(ctx, orgID, CreateInput{Email: "staff@clinic.test"})
		assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		_, err := svc.Create(ctx, orgID, CreateInput{Email: "nobody@clinic.test"})
		assert.True(t, apperr.Is(err, apperr.KindNotFound), "got %v", err)
	})

	t.Run("other tenant cannot touch the membership", func(t *testing.T) {
		_, err := svc.Get(ctx, m.ID, otherOrg)
		assert.True(t, apperr.Is(err, apperr.KindNotFound), "get: %v", err)
		assert.True(t, apperr.Is(svc.Delete(ctx, m.ID, otherOrg), apperr.KindNotFound))
	})

	t.Run("last admin is protected", func(t *testing.T) {
		members, _, err := svc.List(ctx, orgID, 20, 0)
		require.NoError(t, err)
		var adminID = members[0].ID
		for _, mm := range members {
			if mm.Role == auth.RoleAdmin {
				adminID = mm.ID
			}
		}
		role := auth.RoleMember
		_, err = svc.Update(ctx, adminID, orgID, Patch{Role: &role})
		assert.True(t, apperr.Is(err, apperr.KindInvalid), "demote: %v", err)
		assert.True(t, apperr.Is(svc.Delete(ctx, adminID, orgID), apperr.KindInvalid))
	})

	t.Run("removal revokes tenant access", func(t *testing.T) {
		got, err := resolver.Resolve(ctx, staff, &orgID)
		require.NoError(t, err)
		assert.Equal(t, orgID, got.OrganizationID)

		require.NoError(t, svc.Delete(ctx, m.ID, orgID))

		_, err = resolver.Resolve(ctx, staff, &orgID)
		assert.ErrorIs(t, err, tenant.ErrNoOrganization)
		_, err = resolver.Resolve(ctx, staff, nil)
		assert.ErrorIs(t, err, tenant.ErrNoOrganization)
	})
}
