package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/guilherme-michels/clinic-up-sub000/internal/domain/organization"
)

// Account is a person who can sign in. It may belong to several organizations.
type Account struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	AvatarURL    *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ProviderLink pairs an account with an identity at an external sign-in provider.
type ProviderLink struct {
	ID                uuid.UUID `db:"id" json:"id"`
	AccountID         uuid.UUID `db:"account_id" json:"account_id"`
	Provider          string    `db:"provider" json:"provider"`
	ProviderAccountID string    `db:"provider_account_id" json:"provider_account_id"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

type SignUpInput struct {
	OrganizationName string `json:"organization_name"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by sign-up and sign-in.
type Session struct {
	Token        string                     `json:"token"`
	ExpiresAt    time.Time                  `json:"expires_at"`
	Account      *Account                   `json:"account"`
	Organization *organization.Organization `json:"organization,omitempty"`
}

// Patch holds the fields PUT /accounts/me may change. Password arrives in
// plain text and is hashed by the service before it reaches the repository.
type Patch struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	AvatarURL *string `json:"avatar_url"`
	Password  *string `json:"password"`

	passwordHash *string
}

func (p Patch) setMap() map[string]any {
	m := map[string]any{}
	if p.Name != nil {
		m["name"] = *p.Name
	}
	if p.Email != nil {
		m["email"] = *p.Email
	}
	if p.AvatarURL != nil {
		m["avatar_url"] = *p.AvatarURL
	}
	if p.passwordHash != nil {
		m["password_hash"] = *p.passwordHash
	}
	return m
}

type ProviderInput struct {
	Provider          string `json:"provider"`
	ProviderAccountID string `json:"provider_account_id"`
}
