package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AppointmentRepository is scoped by organization on every call.
type AppointmentRepository interface {
	List(ctx context.Context, orgID uuid.UUID, f Filter, limit, offset int) ([]*Appointment, int, error)
	GetByID(ctx context.Context, id, orgID uuid.UUID) (*Appointment, error)
	Create(ctx context.Context, orgID uuid.UUID, a *Appointment) error
	Update(ctx context.Context, id, orgID uuid.UUID, ch Changes) (*Appointment, error)
	Delete(ctx context.Context, id, orgID uuid.UUID) error
	// CompletedStartsSince returns start_at of completed appointments starting at or after since.
	CompletedStartsSince(ctx context.Context, orgID uuid.UUID, since time.Time) ([]time.Time, error)
}
