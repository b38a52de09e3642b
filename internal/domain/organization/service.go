package organization

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/tenant"
)

// MembershipResolver is satisfied by *tenant.Resolver.
type MembershipResolver interface {
	Resolve(ctx context.Context, accountID uuid.UUID, preferred *uuid.UUID) (*tenant.Membership, error)
}

const maxSlugAttempts = 5

type Service struct {
	repo    Repository
	members MembershipResolver
	tx      db.Transactor
}

func NewService(repo Repository, members MembershipResolver, tx db.Transactor) *Service {
	return &Service{repo: repo, members: members, tx: tx}
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Invalid("name is required")
	}
	if len(name) > 120 {
		return apperr.Invalid("name must be at most 120 characters")
	}
	return nil
}

// CreateWithOwner creates an organization with ownerID as its admin. Without an
// explicit slug one is derived from the name and suffixed until it is free; an
// explicit slug that is taken fails CONFLICT.
func (s *Service) CreateWithOwner(ctx context.Context, ownerID uuid.UUID, in CreateInput) (*Organization, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug != "" && !ValidSlug(in.Slug) {
		return nil, apperr.Invalid("slug may only contain lowercase letters, digits and dashes")
	}

	org := &Organization{Name: in.Name, Slug: in.Slug, AvatarURL: in.AvatarURL}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if org.Slug == "" {
			if err := s.createDerived(ctx, org); err != nil {
				return err
			}
		} else if err := s.repo.Create(ctx, org); err != nil {
			return err
		}
		return s.repo.AddMember(ctx, org.ID, ownerID, auth.RoleAdmin)
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

// createDerived inserts org under a slug derived from its name. A candidate
// claimed by a concurrent writer between the lookup and the insert is skipped
// in favor of the next suffix.
func (s *Service) createDerived(ctx context.Context, org *Organization) error {
	base := Slugify(org.Name)
	taken, err := s.repo.SlugsLike(ctx, base)
	if err != nil {
		return err
	}
	for range maxSlugAttempts {
		org.Slug = uniqueSlug(base, taken)
		ok, err := s.repo.CreateIfSlugFree(ctx, org)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		taken = append(taken, org.Slug)
	}
	return apperr.Conflict("could not derive a free slug, try again")
}

func (s *Service) ListForAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Membership, int, error) {
	return s.repo.ListByAccount(ctx, accountID, limit, offset)
}

// Get returns an organization the caller belongs to. Non-members get NOT_FOUND.
func (s *Service) Get(ctx context.Context, accountID, id uuid.UUID) (*Organization, auth.Role, error) {
	m, err := s.members.Resolve(ctx, accountID, &id)
	if err != nil {
		return nil, "", notFound(err)
	}
	org, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return org, m.Role, nil
}

// GetByID loads an organization already resolved by the tenant middleware.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Organization, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) requireAdmin(ctx context.Context, accountID, id uuid.UUID) error {
	m, err := s.members.Resolve(ctx, accountID, &id)
	if err != nil {
		return notFound(err)
	}
	if m.Role != auth.RoleAdmin {
		return apperr.Forbidden("only organization admins can change the organization")
	}
	return nil
}

func (s *Service) Update(ctx context.Context, accountID, id uuid.UUID, patch Patch) (*Organization, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	if patch.Slug != nil && !ValidSlug(*patch.Slug) {
		return nil, apperr.Invalid("slug may only contain lowercase letters, digits and dashes")
	}
	if err := s.requireAdmin(ctx, accountID, id); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, patch)
}

// Delete removes the organization and, by cascade, every row it owns.
func (s *Service) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	if err := s.requireAdmin(ctx, accountID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func notFound(err error) error {
	if apperr.Is(err, apperr.KindNotFound) {
		return apperr.NotFound("organization not found")
	}
	return err
}
