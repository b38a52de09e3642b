package patient

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is scoped by organization on every call.
type Repository interface {
	List(ctx context.Context, orgID uuid.UUID, f Filter, limit, offset int) ([]*Patient, int, error)
	GetByID(ctx context.Context, id, orgID uuid.UUID) (*Patient, error)
	Create(ctx context.Context, orgID uuid.UUID, p *Patient) error
	Update(ctx context.Context, id, orgID uuid.UUID, patch Patch) (*Patient, error)
	Delete(ctx context.Context, id, orgID uuid.UUID) error
	// Metrics counts all patients plus those created in [lastMonth, thisMonth)
	// and from thisMonth on.
	Metrics(ctx context.Context, orgID uuid.UUID, thisMonth, lastMonth time.Time) (*Metrics, error)
}
