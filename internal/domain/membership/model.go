package membership

import (
	"time"

	"github.com/google/uuid"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
)

// Member is a membership row joined with the member's account.
type Member struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OrganizationID uuid.UUID `db:"organization_id" json:"organization_id"`
	AccountID      uuid.UUID `db:"account_id" json:"account_id"`
	Role           auth.Role `db:"role" json:"role"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// CreateInput adds an existing account, found by email, to the organization.
type CreateInput struct {
	Email string    `json:"email"`
	Role  auth.Role `json:"role"`
}

type Patch struct {
	Role *auth.Role `json:"role"`
}
