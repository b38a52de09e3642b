package account

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SoleAdminCount counts organizations where id is the only admin.
	SoleAdminCount(ctx context.Context, id uuid.UUID) (int, error)
}

// ProviderRepository stores provider links. Every call is scoped to one account.
type ProviderRepository interface {
	List(ctx context.Context, accountID uuid.UUID) ([]*ProviderLink, error)
	Create(ctx context.Context, link *ProviderLink) error
	Delete(ctx context.Context, id, accountID uuid.UUID) error
}
