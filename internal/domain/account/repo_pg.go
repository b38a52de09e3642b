package account

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db"
)

const accountCols = "id, name, email, password_hash, avatar_url, created_at, updated_at"

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, db.MapError(err, "account")
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Account) error {
	a.ID = uuid.New()
	q := db.SQL.Insert("accounts").
		Columns("id", "name", "email", "password_hash", "avatar_url").
		Values(a.ID, a.Name, a.Email, a.PasswordHash, a.AvatarURL).
		Suffix("RETURNING created_at, updated_at")
	if err := db.QueryRow(ctx, r.conn(ctx), q).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return db.MapError(err, "account")
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	q := db.SQL.Select(accountCols).From("accounts").Where(sq.Eq{"id": id})
	return scanAccount(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Account, error) {
	q := db.SQL.Select(accountCols).From("accounts").Where(sq.Expr("lower(email) = ?", strings.ToLower(email)))
	return scanAccount(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *repoPG) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Account, error) {
	set := patch.setMap()
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	set["updated_at"] = sq.Expr("NOW()")
	q := db.SQL.Update("accounts").SetMap(set).Where(sq.Eq{"id": id}).Suffix("RETURNING " + accountCols)
	return scanAccount(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Exec(ctx, r.conn(ctx), db.SQL.Delete("accounts").Where(sq.Eq{"id": id}))
	if err != nil {
		return db.MapError(err, "account")
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows, "account")
	}
	return nil
}

func (r *repoPG) SoleAdminCount(ctx context.Context, id uuid.UUID) (int, error) {
	q := db.SQL.Select("COUNT(*)").From("memberships m").
		Where(sq.Eq{"m.account_id": id, "m.role": "admin"}).
		Where(`NOT EXISTS (SELECT 1 FROM memberships o
			WHERE o.organization_id = m.organization_id AND o.role = 'admin' AND o.account_id <> m.account_id)`)
	n, err := db.Count(ctx, r.conn(ctx), q)
	if err != nil {
		return 0, db.MapError(err, "membership")
	}
	return n, nil
}

type providerRepoPG struct{ pool *pgxpool.Pool }

func NewProviderRepoPG(pool *pgxpool.Pool) ProviderRepository { return &providerRepoPG{pool: pool} }

func (r *providerRepoPG) List(ctx context.Context, accountID uuid.UUID) ([]*ProviderLink, error) {
	q := db.SQL.Select("id", "account_id", "provider", "provider_account_id", "created_at").
		From("provider_links").
		Where(sq.Eq{"account_id": accountID}).
		OrderBy("created_at ASC")
	rows, err := db.Query(ctx, db.Conn(ctx, r.pool), q)
	if err != nil {
		return nil, db.MapError(err, "provider link")
	}
	defer rows.Close()

	var links []*ProviderLink
	for rows.Next() {
		var l ProviderLink
		if err := rows.Scan(&l.ID, &l.AccountID, &l.Provider, &l.ProviderAccountID, &l.CreatedAt); err != nil {
			return nil, db.MapError(err, "provider link")
		}
		links = append(links, &l)
	}
	return links, db.MapError(rows.Err(), "provider link")
}

func (r *providerRepoPG) Create(ctx context.Context, l *ProviderLink) error {
	l.ID = uuid.New()
	q := db.SQL.Insert("provider_links").
		Columns("id", "account_id", "provider", "provider_account_id").
		Values(l.ID, l.AccountID, l.Provider, l.ProviderAccountID).
		Suffix("RETURNING created_at")
	if err := db.QueryRow(ctx, db.Conn(ctx, r.pool), q).Scan(&l.CreatedAt); err != nil {
		return db.MapError(err, "provider link")
	}
	return nil
}

func (r *providerRepoPG) Delete(ctx context.Context, id, accountID uuid.UUID) error {
	q := db.SQL.Delete("provider_links").Where(sq.Eq{"id": id, "account_id": accountID})
	tag, err := db.Exec(ctx, db.Conn(ctx, r.pool), q)
	if err != nil {
		return db.MapError(err, "provider link")
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows, "provider link")
	}
	return nil
}
