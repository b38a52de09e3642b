package db

import (
	"context"
	"errors"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopedBuilders(t *testing.T) {
	orgID := uuid.New()
	id := uuid.New()

	tests := []struct {
		name     string
		b        sq.Sqlizer
		wantSQL  string
		wantArgs []any
	}{
		{
			"select",
			ScopedSelect("patients", orgID, "id", "name").Where(sq.Eq{"id": id}),
			"SELECT id, name FROM patients WHERE organization_id = $1 AND id = $2",
			[]any{orgID.String(), id.String()},
		},
		{
			"count",
			ScopedCount("patients", orgID),
			"SELECT COUNT(*) FROM patients WHERE organization_id = $1",
			[]any{orgID.String()},
		},
		{
			"update",
			ScopedUpdate("patients", orgID).Set("name", "Ana").Where(sq.Eq{"id": id}),
			"UPDATE patients SET name = $1 WHERE organization_id = $2 AND id = $3",
			[]any{"Ana", orgID.String(), id.String()},
		},
		{
			"delete",
			ScopedDelete("patients", orgID).Where(sq.Eq{"id": id}),
			"DELETE FROM patients WHERE organization_id = $1 AND id = $2",
			[]any{orgID.String(), id.String()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := tt.b.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestPage(t *testing.T) {
	query, args, err := Page(SQL.Select("id").From("patients"), 10, 20).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM patients LIMIT 10 OFFSET 20", query)
	assert.Empty(t, args)
}

type brokenSqlizer struct{}

func (brokenSqlizer) ToSql() (string, []any, error) { return "", nil, errors.New("bad builder") }

func TestQueryHelpers_BuilderError(t *testing.T) {
	ctx := context.Background()

	err := QueryRow(ctx, nil, brokenSqlizer{}).Scan()
	assert.EqualError(t, err, "bad builder")

	_, err = Query(ctx, nil, brokenSqlizer{})
	assert.EqualError(t, err, "bad builder")

	_, err = Exec(ctx, nil, brokenSqlizer{})
	assert.EqualError(t, err, "bad builder")

	_, err = Count(ctx, nil, brokenSqlizer{})
	assert.EqualError(t, err, "bad builder")
}

func TestTxFromContext_Missing(t *testing.T) {
	assert.Nil(t, TxFromContext(context.Background()))
	assert.Nil(t, TxFromContext(context.WithValue(context.Background(), DBTxKey, "not a tx")))
}

func TestNoopTransactor(t *testing.T) {
	called := false
	err := NoopTransactor{}.WithinTx(context.Background(), func(ctx context.Context) error {
		called = true
		return errors.New("boom")
	})
	assert.True(t, called)
	assert.EqualError(t, err, "boom")
}
