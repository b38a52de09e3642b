package membership

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db"
)

var errLastAdmin = apperr.Invalid("an organization must keep at least one admin")

type Service struct {
	repo Repository
	tx   db.Transactor
}

func NewService(repo Repository, tx db.Transactor) *Service {
	return &Service{repo: repo, tx: tx}
}

func validateRole(r auth.Role) error {
	if !r.Valid() {
		return apperr.Invalid("role must be one of admin, member, billing")
	}
	return nil
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Member, int, error) {
	return s.repo.List(ctx, orgID, limit, offset)
}

func (s *Service) Get(ctx context.Context, id, orgID uuid.UUID) (*Member, error) {
	return s.repo.GetByID(ctx, id, orgID)
}

func (s *Service) Create(ctx context.Context, orgID uuid.UUID, in CreateInput) (*Member, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, apperr.Invalid("email is required")
	}
	if in.Role == "" {
		in.Role = auth.RoleMember
	}
	if err := validateRole(in.Role); err != nil {
		return nil, err
	}
	return s.repo.CreateByEmail(ctx, orgID, email, in.Role)
}

// Update changes a member's role. Demoting the only admin fails INVALID.
func (s *Service) Update(ctx context.Context, id, orgID uuid.UUID, patch Patch) (*Member, error) {
	if patch.Role == nil {
		return s.repo.GetByID(ctx, id, orgID)
	}
	if err := validateRole(*patch.Role); err != nil {
		return nil, err
	}

	var out *Member
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if *patch.Role != auth.RoleAdmin {
			if err := s.guardLastAdmin(ctx, id, orgID); err != nil {
				return err
			}
		}
		m, err := s.repo.UpdateRole(ctx, id, orgID, *patch.Role)
		out = m
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a membership. The account loses access to the organization on
// its next request. Removing the only admin fails INVALID.
func (s *Service) Delete(ctx context.Context, id, orgID uuid.UUID) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.guardLastAdmin(ctx, id, orgID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id, orgID)
	})
}

func (s *Service) guardLastAdmin(ctx context.Context, id, orgID uuid.UUID) error {
	admins, err := s.repo.LockAdmins(ctx, orgID)
	if err != nil {
		return err
	}
	if len(admins) == 1 && admins[0] == id {
		return errLastAdmin
	}
	return nil
}
