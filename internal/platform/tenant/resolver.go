// Package tenant resolves the organization a request acts on from the
// caller's membership records.
package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db"
)

// Membership is the resolved tenant context for one caller.
type Membership struct {
	ID             uuid.UUID
	AccountID      uuid.UUID
	OrganizationID uuid.UUID
	Role           auth.Role
	CreatedAt      time.Time
}

// ErrNoOrganization is returned when the caller belongs to no organization.
var ErrNoOrganization = apperr.NotFound("no organization for current user")

// Store reads memberships. Implementations must order List by join time.
type Store interface {
	// ListByAccount returns the account's memberships, first joined first.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Membership, error)
	// Get returns the account's membership in orgID, or a NOT_FOUND error.
	Get(ctx context.Context, accountID, orgID uuid.UUID) (*Membership, error)
}

// Resolver maps an authenticated account to its organization. It keeps no
// state between calls.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the caller's membership. With preferred set, the caller must
// be a member of that organization; otherwise the first-joined one is used.
func (r *Resolver) Resolve(ctx context.Context, accountID uuid.UUID, preferred *uuid.UUID) (*Membership, error) {
	if accountID == uuid.Nil {
		return nil, apperr.Unauthorized("authentication required")
	}

	if preferred != nil {
		m, err := r.store.Get(ctx, accountID, *preferred)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return nil, ErrNoOrganization
			}
			return nil, err
		}
		return m, nil
	}

	ms, err := r.store.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return nil, ErrNoOrganization
	}
	m := ms[0]
	return &m, nil
}

// ResolveOrganizationID returns the caller's current organization id.
func (r *Resolver) ResolveOrganizationID(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error) {
	m, err := r.Resolve(ctx, accountID, nil)
	if err != nil {
		return uuid.Nil, err
	}
	return m.OrganizationID, nil
}

// PGStore reads memberships from Postgres.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const membershipCols = `id, account_id, organization_id, role, created_at`

func (s *PGStore) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Membership, error) {
	rows, err := db.Conn(ctx, s.pool).Query(ctx, `
		SELECT `+membershipCols+` FROM memberships
		WHERE account_id = $1
		ORDER BY created_at ASC, id ASC`, accountID)
	if err != nil {
		return nil, db.MapError(err, "membership")
	}
	defer rows.Close()

	var out []Membership
	for rows.Next() {
		var m Membership
		if err := rows.Scan(&m.ID, &m.AccountID, &m.OrganizationID, &m.Role, &m.CreatedAt); err != nil {
			return nil, db.MapError(err, "membership")
		}
		out = append(out, m)
	}
	return out, db.MapError(rows.Err(), "membership")
}

func (s *PGStore) Get(ctx context.Context, accountID, orgID uuid.UUID) (*Membership, error) {
	var m Membership
	err := db.Conn(ctx, s.pool).QueryRow(ctx, `
		SELECT `+membershipCols+` FROM memberships
		WHERE account_id = $1 AND organization_id = $2`, accountID, orgID).
		Scan(&m.ID, &m.AccountID, &m.OrganizationID, &m.Role, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoOrganization
	}
	if err != nil {
		return nil, db.MapError(err, "membership")
	}
	return &m, nil
}
