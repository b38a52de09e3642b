package membership

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func memberSelect(orgID uuid.UUID) sq.SelectBuilder {
	return db.SQL.Select("m.id", "m.organization_id", "m.account_id", "m.role", "a.name", "a.email", "m.created_at").
		From("memberships m").
		Join("accounts a ON a.id = m.account_id").
		Where(sq.Eq{"m.organization_id": orgID})
}

func scanMember(row pgx.Row) (*Member, error) {
	var m Member
	if err := row.Scan(&m.ID, &m.OrganizationID, &m.AccountID, &m.Role, &m.Name, &m.Email, &m.CreatedAt); err != nil {
		return nil, db.MapError(err, "member")
	}
	return &m, nil
}

func (r *repoPG) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Member, int, error) {
	total, err := db.Count(ctx, r.conn(ctx), db.ScopedCount("memberships", orgID))
	if err != nil {
		return nil, 0, db.MapError(err, "member")
	}

	q := memberSelect(orgID).OrderBy("m.created_at ASC", "m.id ASC")
	q = db.Page(q, limit, offset)
	rows, err := db.Query(ctx, r.conn(ctx), q)
	if err != nil {
		return nil, 0, db.MapError(err, "member")
	}
	defer rows.Close()

	var items []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, db.MapError(rows.Err(), "member")
}

func (r *repoPG) GetByID(ctx context.Context, id, orgID uuid.UUID) (*Member, error) {
	return scanMember(db.QueryRow(ctx, r.conn(ctx), memberSelect(orgID).Where(sq.Eq{"m.id": id})))
}

const insertByEmail = `
INSERT INTO memberships (id, account_id, organization_id, role)
SELECT $1, a.id, $2, $3 FROM accounts a WHERE lower(a.email) = $4
RETURNING id`

func (r *repoPG) CreateByEmail(ctx context.Context, orgID uuid.UUID, email string, role auth.Role) (*Member, error) {
	var id uuid.UUID
	err := r.conn(ctx).QueryRow(ctx, insertByEmail, uuid.New(), orgID, string(role), strings.ToLower(email)).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("account not found")
	}
	if err != nil {
		return nil, db.MapError(err, "member")
	}
	return r.GetByID(ctx, id, orgID)
}

func (r *repoPG) UpdateRole(ctx context.Context, id, orgID uuid.UUID, role auth.Role) (*Member, error) {
	q := db.ScopedUpdate("memberships", orgID).Set("role", string(role)).Where(sq.Eq{"id": id})
	tag, err := db.Exec(ctx, r.conn(ctx), q)
	if err != nil {
		return nil, db.MapError(err, "member")
	}
	if tag.RowsAffected() == 0 {
		return nil, db.MapError(pgx.ErrNoRows, "member")
	}
	return r.GetByID(ctx, id, orgID)
}

func (r *repoPG) Delete(ctx context.Context, id, orgID uuid.UUID) error {
	tag, err := db.Exec(ctx, r.conn(ctx), db.ScopedDelete("memberships", orgID).Where(sq.Eq{"id": id}))
	if err != nil {
		return db.MapError(err, "member")
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows, "member")
	}
	return nil
}

func (r *repoPG) LockAdmins(ctx context.Context, orgID uuid.UUID) ([]uuid.UUID, error) {
	q := db.ScopedSelect("memberships", orgID, "id").
		Where(sq.Eq{"role": string(auth.RoleAdmin)}).
		OrderBy("id").
		Suffix("FOR UPDATE")
	rows, err := db.Query(ctx, r.conn(ctx), q)
	if err != nil {
		return nil, db.MapError(err, "member")
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, db.MapError(err, "member")
		}
		ids = append(ids, id)
	}
	return ids, db.MapError(rows.Err(), "member")
}
