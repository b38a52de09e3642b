package organization

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

var orgCols = []string{"id", "name", "slug", "avatar_url", "created_at", "updated_at"}

func scanOrg(row pgx.Row) (*Organization, error) {
	var o Organization
	if err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.AvatarURL, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, db.MapError(err, "organization")
	}
	return &o, nil
}

func (r *repoPG) Create(ctx context.Context, org *Organization) error {
	org.ID = uuid.New()
	q := db.SQL.Insert("organizations").
		Columns("id", "name", "slug", "avatar_url").
		Values(org.ID, org.Name, org.Slug, org.AvatarURL).
		Suffix("RETURNING created_at, updated_at")
	if err := db.QueryRow(ctx, r.conn(ctx), q).Scan(&org.CreatedAt, &org.UpdatedAt); err != nil {
		return db.MapError(err, "organization")
	}
	return nil
}

func (r *repoPG) CreateIfSlugFree(ctx context.Context, org *Organization) (bool, error) {
	id := uuid.New()
	q := db.SQL.Insert("organizations").
		Columns("id", "name", "slug", "avatar_url").
		Values(id, org.Name, org.Slug, org.AvatarURL).
		Suffix("ON CONFLICT (slug) DO NOTHING RETURNING created_at, updated_at")
	err := db.QueryRow(ctx, r.conn(ctx), q).Scan(&org.CreatedAt, &org.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, db.MapError(err, "organization")
	}
	org.ID = id
	return true, nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Organization, error) {
	q := db.SQL.Select(orgCols...).From("organizations").Where(sq.Eq{"id": id})
	return scanOrg(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *repoPG) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Organization, error) {
	set := patch.setMap()
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	set["updated_at"] = sq.Expr("NOW()")
	q := db.SQL.Update("organizations").SetMap(set).Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, name, slug, avatar_url, created_at, updated_at")
	return scanOrg(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Exec(ctx, r.conn(ctx), db.SQL.Delete("organizations").Where(sq.Eq{"id": id}))
	if err != nil {
		return db.MapError(err, "organization")
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows, "organization")
	}
	return nil
}

func (r *repoPG) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Membership, int, error) {
	total, err := db.Count(ctx, r.conn(ctx),
		db.SQL.Select("COUNT(*)").From("memberships").Where(sq.Eq{"account_id": accountID}))
	if err != nil {
		return nil, 0, db.MapError(err, "organization")
	}

	q := db.SQL.Select("o.id", "o.name", "o.slug", "o.avatar_url", "o.created_at", "o.updated_at", "m.role", "m.created_at").
		From("memberships m").
		Join("organizations o ON o.id = m.organization_id").
		Where(sq.Eq{"m.account_id": accountID}).
		OrderBy("m.created_at ASC", "m.id ASC")
	q = db.Page(q, limit, offset)
	rows, err := db.Query(ctx, r.conn(ctx), q)
	if err != nil {
		return nil, 0, db.MapError(err, "organization")
	}
	defer rows.Close()

	var items []*Membership
	for rows.Next() {
		var m Membership
		if err := rows.Scan(&m.ID, &m.Name, &m.Slug, &m.AvatarURL, &m.CreatedAt, &m.UpdatedAt, &m.Role, &m.JoinedAt); err != nil {
			return nil, 0, db.MapError(err, "organization")
		}
		items = append(items, &m)
	}
	return items, total, db.MapError(rows.Err(), "organization")
}

func (r *repoPG) SlugsLike(ctx context.Context, base string) ([]string, error) {
	q := db.SQL.Select("slug").From("organizations").
		Where(sq.Or{sq.Eq{"slug": base}, sq.Like{"slug": base + "-%"}})
	rows, err := db.Query(ctx, r.conn(ctx), q)
	if err != nil {
		return nil, db.MapError(err, "organization")
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, db.MapError(err, "organization")
		}
		slugs = append(slugs, s)
	}
	return slugs, db.MapError(rows.Err(), "organization")
}

func (r *repoPG) AddMember(ctx context.Context, orgID, accountID uuid.UUID, role auth.Role) error {
	q := db.SQL.Insert("memberships").
		Columns("id", "account_id", "organization_id", "role").
		Values(uuid.New(), accountID, orgID, string(role))
	if _, err := db.Exec(ctx, r.conn(ctx), q); err != nil {
		return db.MapError(err, "membership")
	}
	return nil
}
