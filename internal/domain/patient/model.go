package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/guilherme-michels/clinic-up-sub000/pkg/civil"
)

type Patient struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	OrganizationID uuid.UUID  `db:"organization_id" json:"organization_id"`
	Name           string     `db:"name" json:"name"`
	Email          *string    `db:"email" json:"email,omitempty"`
	Phone          *string    `db:"phone" json:"phone,omitempty"`
	Document       *string    `db:"document" json:"document,omitempty"`
	BirthDate      civil.Date `db:"birth_date" json:"birth_date"`
	Gender         *string    `db:"gender" json:"gender,omitempty"`
	Address        *string    `db:"address" json:"address,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Patch holds the fields PUT /patients/:id may change. Nil fields are kept.
type Patch struct {
	Name      *string     `json:"name"`
	Email     *string     `json:"email"`
	Phone     *string     `json:"phone"`
	Document  *string     `json:"document"`
	BirthDate *civil.Date `json:"birth_date"`
	Gender    *string     `json:"gender"`
	Address   *string     `json:"address"`
	Notes     *string     `json:"notes"`
}

func (p Patch) setMap() map[string]any {
	m := map[string]any{}
	opt := func(col string, v *string) {
		if v != nil {
			m[col] = *v
		}
	}
	opt("name", p.Name)
	opt("email", p.Email)
	opt("phone", p.Phone)
	opt("document", p.Document)
	opt("gender", p.Gender)
	opt("address", p.Address)
	opt("notes", p.Notes)
	if p.BirthDate != nil {
		m["birth_date"] = *p.BirthDate
	}
	return m
}

// Filter narrows List. Q matches name, email, phone or document.
type Filter struct {
	Q *string
}

// Metrics summarizes patient registrations for the dashboard.
type Metrics struct {
	Total        int `json:"total"`
	NewThisMonth int `json:"new_this_month"`
	NewLastMonth int `json:"new_last_month"`
}
