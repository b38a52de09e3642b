package membership

import (
	"context"

	"github.com/google/uuid"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
)

type Repository interface {
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Member, int, error)
	GetByID(ctx context.Context, id, orgID uuid.UUID) (*Member, error)
	// CreateByEmail adds the account registered under email. An unknown email is NOT_FOUND.
	CreateByEmail(ctx context.Context, orgID uuid.UUID, email string, role auth.Role) (*Member, error)
	UpdateRole(ctx context.Context, id, orgID uuid.UUID, role auth.Role) (*Member, error)
	Delete(ctx context.Context, id, orgID uuid.UUID) error
	// LockAdmins returns the organization's admin membership ids and, inside a
	// transaction, holds row locks on them until it ends.
	LockAdmins(ctx context.Context, orgID uuid.UUID) ([]uuid.UUID, error)
}
