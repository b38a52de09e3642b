package patient

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db"
)

const table = "patients"

var cols = []string{"id", "organization_id", "name", "email", "phone", "document",
	"birth_date", "gender", "address", "notes", "created_at", "updated_at"}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func scan(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.OrganizationID, &p.Name, &p.Email, &p.Phone, &p.Document,
		&p.BirthDate, &p.Gender, &p.Address, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, db.MapError(err, "patient")
	}
	return &p, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f Filter) apply(b sq.SelectBuilder) sq.SelectBuilder {
	if f.Q != nil && strings.TrimSpace(*f.Q) != "" {
		pattern := "%" + likeEscaper.Replace(strings.TrimSpace(*f.Q)) + "%"
		b = b.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"phone": pattern},
			sq.ILike{"document": pattern},
		})
	}
	return b
}

func (r *repoPG) List(ctx context.Context, orgID uuid.UUID, f Filter, limit, offset int) ([]*Patient, int, error) {
	total, err := db.Count(ctx, r.conn(ctx), f.apply(db.ScopedCount(table, orgID)))
	if err != nil {
		return nil, 0, db.MapError(err, "patient")
	}

	q := f.apply(db.ScopedSelect(table, orgID, cols...)).
		OrderBy("name ASC", "id ASC")
	q = db.Page(q, limit, offset)
	rows, err := db.Query(ctx, r.conn(ctx), q)
	if err != nil {
		return nil, 0, db.MapError(err, "patient")
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, db.MapError(rows.Err(), "patient")
}

func (r *repoPG) GetByID(ctx context.Context, id, orgID uuid.UUID) (*Patient, error) {
	q := db.ScopedSelect(table, orgID, cols...).Where(sq.Eq{"id": id})
	return scan(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *repoPG) Create(ctx context.Context, orgID uuid.UUID, p *Patient) error {
	p.ID = uuid.New()
	p.OrganizationID = orgID
	q := db.SQL.Insert(table).
		Columns("id", "organization_id", "name", "email", "phone", "document", "birth_date", "gender", "address", "notes").
		Values(p.ID, orgID, p.Name, p.Email, p.Phone, p.Document, p.BirthDate, p.Gender, p.Address, p.Notes).
		Suffix("RETURNING created_at, updated_at")
	if err := db.QueryRow(ctx, r.conn(ctx), q).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return db.MapError(err, "patient")
	}
	return nil
}

func (r *repoPG) Update(ctx context.Context, id, orgID uuid.UUID, patch Patch) (*Patient, error) {
	set := patch.setMap()
	if len(set) == 0 {
		return r.GetByID(ctx, id, orgID)
	}
	set["updated_at"] = sq.Expr("NOW()")
	q := db.ScopedUpdate(table, orgID).SetMap(set).Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(cols, ", "))
	return scan(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *repoPG) Delete(ctx context.Context, id, orgID uuid.UUID) error {
	tag, err := db.Exec(ctx, r.conn(ctx), db.ScopedDelete(table, orgID).Where(sq.Eq{"id": id}))
	if err != nil {
		return db.MapError(err, "patient")
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows, "patient")
	}
	return nil
}

func (r *repoPG) Metrics(ctx context.Context, orgID uuid.UUID, thisMonth, lastMonth time.Time) (*Metrics, error) {
	q := db.ScopedSelect(table, orgID, "COUNT(*)").
		Column(sq.Expr("COUNT(*) FILTER (WHERE created_at >= ?)", thisMonth)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE created_at >= ? AND created_at < ?)", lastMonth, thisMonth))
	var m Metrics
	if err := db.QueryRow(ctx, r.conn(ctx), q).Scan(&m.Total, &m.NewThisMonth, &m.NewLastMonth); err != nil {
		return nil, db.MapError(err, "patient")
	}
	return &m, nil
}
