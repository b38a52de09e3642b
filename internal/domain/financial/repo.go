package financial

import (
	"context"

	"github.com/google/uuid"
)

type CategoryRepository interface {
	List(ctx context.Context, orgID uuid.UUID, typ *string, limit, offset int) ([]*Category, int, error)
	GetByID(ctx context.Context, id, orgID uuid.UUID) (*Category, error)
	Create(ctx context.Context, orgID uuid.UUID, c *Category) error
	Update(ctx context.Context, id, orgID uuid.UUID, patch CategoryPatch) (*Category, error)
	Delete(ctx context.Context, id, orgID uuid.UUID) error
}

type TransactionRepository interface {
	List(ctx context.Context, orgID uuid.UUID, f TransactionFilter, limit, offset int) ([]*Transaction, int, error)
	GetByID(ctx context.Context, id, orgID uuid.UUID) (*Transaction, error)
	// GetForUpdate is GetByID holding a row lock until the surrounding tx ends.
	GetForUpdate(ctx context.Context, id, orgID uuid.UUID) (*Transaction, error)
	Create(ctx context.Context, orgID uuid.UUID, t *Transaction) error
	// Update writes every mutable column of t, scoped to orgID.
	Update(ctx context.Context, orgID uuid.UUID, t *Transaction) error
	Delete(ctx context.Context, id, orgID uuid.UUID) error
	// Balance aggregates the transactions matching f's date bounds.
	Balance(ctx context.Context, orgID uuid.UUID, f TransactionFilter) (*Balance, error)
}
