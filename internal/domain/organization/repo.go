package organization

import (
	"context"

	"github.com/google/uuid"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
)

type Repository interface {
	Create(ctx context.Context, org *Organization) error
	// CreateIfSlugFree inserts org unless its slug is taken, reporting whether it did.
	CreateIfSlugFree(ctx context.Context, org *Organization) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Organization, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByAccount returns the organizations accountID belongs to, first joined first.
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Membership, int, error)
	// SlugsLike returns base and every base-N slug already taken.
	SlugsLike(ctx context.Context, base string) ([]string, error)
	AddMember(ctx context.Context, orgID, accountID uuid.UUID, role auth.Role) error
}
