package financial

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db"
)

// =========== Category Repository ===========

const categoriesTable = "transaction_categories"

var categoryCols = []string{"id", "organization_id", "name", "type", "color", "created_at", "updated_at"}

type categoryRepoPG struct{ pool *pgxpool.Pool }

func NewCategoryRepoPG(pool *pgxpool.Pool) CategoryRepository { return &categoryRepoPG{pool: pool} }

func (r *categoryRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func scanCategory(row pgx.Row) (*Category, error) {
	var c Category
	if err := row.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Type, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, db.MapError(err, "transaction category")
	}
	return &c, nil
}

func (r *categoryRepoPG) List(ctx context.Context, orgID uuid.UUID, typ *string, limit, offset int) ([]*Category, int, error) {
	where := func(b sq.SelectBuilder) sq.SelectBuilder {
		if typ != nil {
			return b.Where(sq.Eq{"type": *typ})
		}
		return b
	}
	total, err := db.Count(ctx, r.conn(ctx), where(db.ScopedCount(categoriesTable, orgID)))
	if err != nil {
		return nil, 0, db.MapError(err, "transaction category")
	}

	q := where(db.ScopedSelect(categoriesTable, orgID, categoryCols...)).
		OrderBy("type ASC", "name ASC")
	q = db.Page(q, limit, offset)
	rows, err := db.Query(ctx, r.conn(ctx), q)
	if err != nil {
		return nil, 0, db.MapError(err, "transaction category")
	}
	defer rows.Close()

	var items []*Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, db.MapError(rows.Err(), "transaction category")
}

func (r *categoryRepoPG) GetByID(ctx context.Context, id, orgID uuid.UUID) (*Category, error) {
	q := db.ScopedSelect(categoriesTable, orgID, categoryCols...).Where(sq.Eq{"id": id})
	return scanCategory(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *categoryRepoPG) Create(ctx context.Context, orgID uuid.UUID, c *Category) error {
	c.ID = uuid.New()
	c.OrganizationID = orgID
	q := db.SQL.Insert(categoriesTable).
		Columns("id", "organization_id", "name", "type", "color").
		Values(c.ID, orgID, c.Name, c.Type, c.Color).
		Suffix("RETURNING created_at, updated_at")
	if err := db.QueryRow(ctx, r.conn(ctx), q).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return db.MapError(err, "transaction category")
	}
	return nil
}

func (r *categoryRepoPG) Update(ctx context.Context, id, orgID uuid.UUID, patch CategoryPatch) (*Category, error) {
	set := patch.setMap()
	if len(set) == 0 {
		return r.GetByID(ctx, id, orgID)
	}
	set["updated_at"] = sq.Expr("NOW()")
	q := db.ScopedUpdate(categoriesTable, orgID).SetMap(set).Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(categoryCols, ", "))
	return scanCategory(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *categoryRepoPG) Delete(ctx context.Context, id, orgID uuid.UUID) error {
	tag, err := db.Exec(ctx, r.conn(ctx), db.ScopedDelete(categoriesTable, orgID).Where(sq.Eq{"id": id}))
	if err != nil {
		return db.MapError(err, "transaction category")
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows, "transaction category")
	}
	return nil
}

// =========== Transaction Repository ===========

const transactionsTable = "transactions"

var transactionCols = []string{"id", "organization_id", "category_id", "patient_id", "description",
	"amount_cents", "type", "status", "due_date", "paid_at", "payment_method", "created_at", "updated_at"}

type transactionRepoPG struct{ pool *pgxpool.Pool }

func NewTransactionRepoPG(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepoPG{pool: pool}
}

func (r *transactionRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.OrganizationID, &t.CategoryID, &t.PatientID, &t.Description,
		&t.AmountCents, &t.Type, &t.Status, &t.DueDate, &t.PaidAt, &t.PaymentMethod, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, db.MapError(err, "transaction")
	}
	return &t, nil
}

func (f TransactionFilter) dates(b sq.SelectBuilder) sq.SelectBuilder {
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"due_date": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.LtOrEq{"due_date": *f.To})
	}
	return b
}

func (f TransactionFilter) apply(b sq.SelectBuilder) sq.SelectBuilder {
	if f.Type != nil {
		b = b.Where(sq.Eq{"type": *f.Type})
	}
	if f.Status != nil {
		b = b.Where(sq.Eq{"status": *f.Status})
	}
	if f.CategoryID != nil {
		b = b.Where(sq.Eq{"category_id": *f.CategoryID})
	}
	if f.PatientID != nil {
		b = b.Where(sq.Eq{"patient_id": *f.PatientID})
	}
	return f.dates(b)
}

func (r *transactionRepoPG) List(ctx context.Context, orgID uuid.UUID, f TransactionFilter, limit, offset int) ([]*Transaction, int, error) {
	total, err := db.Count(ctx, r.conn(ctx), f.apply(db.ScopedCount(transactionsTable, orgID)))
	if err != nil {
		return nil, 0, db.MapError(err, "transaction")
	}

	q := f.apply(db.ScopedSelect(transactionsTable, orgID, transactionCols...)).
		OrderBy("due_date DESC", "created_at DESC", "id ASC")
	q = db.Page(q, limit, offset)
	rows, err := db.Query(ctx, r.conn(ctx), q)
	if err != nil {
		return nil, 0, db.MapError(err, "transaction")
	}
	defer rows.Close()

	var items []*Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, db.MapError(rows.Err(), "transaction")
}

func (r *transactionRepoPG) GetByID(ctx context.Context, id, orgID uuid.UUID) (*Transaction, error) {
	q := db.ScopedSelect(transactionsTable, orgID, transactionCols...).Where(sq.Eq{"id": id})
	return scanTransaction(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *transactionRepoPG) GetForUpdate(ctx context.Context, id, orgID uuid.UUID) (*Transaction, error) {
	q := db.ScopedSelect(transactionsTable, orgID, transactionCols...).Where(sq.Eq{"id": id}).Suffix("FOR UPDATE")
	return scanTransaction(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *transactionRepoPG) Create(ctx context.Context, orgID uuid.UUID, t *Transaction) error {
	t.ID = uuid.New()
	t.OrganizationID = orgID
	q := db.SQL.Insert(transactionsTable).
		Columns("id", "organization_id", "category_id", "patient_id", "description",
			"amount_cents", "type", "status", "due_date", "paid_at", "payment_method").
		Values(t.ID, orgID, t.CategoryID, t.PatientID, t.Description,
			t.AmountCents, t.Type, t.Status, t.DueDate, t.PaidAt, t.PaymentMethod).
		Suffix("RETURNING created_at, updated_at")
	if err := db.QueryRow(ctx, r.conn(ctx), q).Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return db.MapError(err, "transaction")
	}
	return nil
}

func (r *transactionRepoPG) Update(ctx context.Context, orgID uuid.UUID, t *Transaction) error {
	q := db.ScopedUpdate(transactionsTable, orgID).
		SetMap(map[string]any{
			"category_id":    t.CategoryID,
			"patient_id":     t.PatientID,
			"description":    t.Description,
			"amount_cents":   t.AmountCents,
			"type":           t.Type,
			"status":         t.Status,
			"due_date":       t.DueDate,
			"paid_at":        t.PaidAt,
			"payment_method": t.PaymentMethod,
			"updated_at":     sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": t.ID}).
		Suffix("RETURNING updated_at")
	if err := db.QueryRow(ctx, r.conn(ctx), q).Scan(&t.UpdatedAt); err != nil {
		return db.MapError(err, "transaction")
	}
	return nil
}

func (r *transactionRepoPG) Delete(ctx context.Context, id, orgID uuid.UUID) error {
	tag, err := db.Exec(ctx, r.conn(ctx), db.ScopedDelete(transactionsTable, orgID).Where(sq.Eq{"id": id}))
	if err != nil {
		return db.MapError(err, "transaction")
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows, "transaction")
	}
	return nil
}

func (r *transactionRepoPG) Balance(ctx context.Context, orgID uuid.UUID, f TransactionFilter) (*Balance, error) {
	q := f.dates(db.ScopedSelect(transactionsTable, orgID,
		sumOf(TypeIncome, StatusPaid),
		sumOf(TypeExpense, StatusPaid),
		sumOf(TypeIncome, StatusPending),
		sumOf(TypeExpense, StatusPending),
	))
	var b Balance
	err := db.QueryRow(ctx, r.conn(ctx), q).
		Scan(&b.IncomeCents, &b.ExpenseCents, &b.PendingIncomeCents, &b.PendingExpenseCents)
	if err != nil {
		return nil, db.MapError(err, "transaction")
	}
	b.BalanceCents = b.IncomeCents - b.ExpenseCents
	return &b, nil
}

// sumOf renders a filtered SUM over constant type and status values. SUM of a
// bigint is numeric in Postgres, hence the cast.
func sumOf(typ, status string) string {
	return fmt.Sprintf("COALESCE(SUM(amount_cents) FILTER (WHERE type = '%s' AND status = '%s'), 0)::bigint", typ, status)
}
