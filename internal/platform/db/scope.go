package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/guilherme-michels/clinic-up-sub000/pkg/pagination"
)

// OrgColumn is the tenant column carried by every tenant-owned table.
const OrgColumn = "organization_id"

// SQL is a squirrel builder using $n placeholders.
var SQL = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ScopedSelect starts a SELECT already filtered by organization.
func ScopedSelect(table string, orgID uuid.UUID, columns ...string) sq.SelectBuilder {
	return SQL.Select(columns...).From(table).Where(sq.Eq{OrgColumn: orgID})
}

// ScopedCount starts a SELECT COUNT(*) already filtered by organization.
func ScopedCount(table string, orgID uuid.UUID) sq.SelectBuilder {
	return SQL.Select("COUNT(*)").From(table).Where(sq.Eq{OrgColumn: orgID})
}

// ScopedUpdate starts an UPDATE restricted to one organization's rows.
func ScopedUpdate(table string, orgID uuid.UUID) sq.UpdateBuilder {
	return SQL.Update(table).Where(sq.Eq{OrgColumn: orgID})
}

// ScopedDelete starts a DELETE restricted to one organization's rows.
func ScopedDelete(table string, orgID uuid.UUID) sq.DeleteBuilder {
	return SQL.Delete(table).Where(sq.Eq{OrgColumn: orgID})
}

// Page applies a limit/offset window to b.
func Page(b sq.SelectBuilder, limit, offset int) sq.SelectBuilder {
	l, o := pagination.Params{Limit: limit, Offset: offset}.Uint64()
	return b.Limit(l).Offset(o)
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// QueryRow renders b and runs it on q.
func QueryRow(ctx context.Context, q Querier, b sq.Sqlizer) pgx.Row {
	query, args, err := b.ToSql()
	if err != nil {
		return errRow{err: err}
	}
	return q.QueryRow(ctx, query, args...)
}

// Query renders b and runs it on q.
func Query(ctx context.Context, q Querier, b sq.Sqlizer) (pgx.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return q.Query(ctx, query, args...)
}

// Exec renders b and executes it on q.
func Exec(ctx context.Context, q Querier, b sq.Sqlizer) (pgconn.CommandTag, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return q.Exec(ctx, query, args...)
}

// Count runs a COUNT(*) builder.
func Count(ctx context.Context, q Querier, b sq.Sqlizer) (int, error) {
	var n int
	err := QueryRow(ctx, q, b).Scan(&n)
	return n, err
}
