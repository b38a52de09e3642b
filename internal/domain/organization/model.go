package organization

import (
	"time"

	"github.com/google/uuid"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
)

// Organization is a tenant: a clinic and everything it owns.
type Organization struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	AvatarURL *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Membership is an organization as seen by one of its members.
type Membership struct {
	Organization
	Role     auth.Role `db:"role" json:"role"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

type CreateInput struct {
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	AvatarURL *string `json:"avatar_url"`
}

// Patch holds the fields PUT /organizations/:id may change. Nil fields are kept.
type Patch struct {
	Name      *string `json:"name"`
	Slug      *string `json:"slug"`
	AvatarURL *string `json:"avatar_url"`
}

func (p Patch) setMap() map[string]any {
	m := map[string]any{}
	if p.Name != nil {
		m["name"] = *p.Name
	}
	if p.Slug != nil {
		m["slug"] = *p.Slug
	}
	if p.AvatarURL != nil {
		m["avatar_url"] = *p.AvatarURL
	}
	return m
}
