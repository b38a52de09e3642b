package account

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/guilherme-michels/clinic-up-sub000/internal/domain/organization"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/auth"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db"
)

const minPasswordLen = 8

var errBadCredentials = apperr.Unauthorized("invalid email or password")

// OrganizationCreator is satisfied by *organization.Service.
type OrganizationCreator interface {
	CreateWithOwner(ctx context.Context, ownerID uuid.UUID, in organization.CreateInput) (*organization.Organization, error)
}

type Service struct {
	repo      Repository
	providers ProviderRepository
	orgs      OrganizationCreator
	tx        db.Transactor
	tokens    *auth.Tokens
	passwords *auth.Passwords
}

func NewService(repo Repository, providers ProviderRepository, orgs OrganizationCreator,
	tx db.Transactor, tokens *auth.Tokens, passwords *auth.Passwords) *Service {
	return &Service{repo: repo, providers: providers, orgs: orgs, tx: tx, tokens: tokens, passwords: passwords}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", apperr.Invalid("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperr.Invalid("email is invalid")
	}
	return email, nil
}

func validatePassword(pw string) error {
	if len(pw) < minPasswordLen {
		return apperr.Invalid("password must be at least %d characters", minPasswordLen)
	}
	if len(pw) > 72 {
		return apperr.Invalid("password must be at most 72 bytes")
	}
	return nil
}

// SignUp creates the account, its first organization and the admin membership
// in one transaction. A taken email fails CONFLICT and leaves nothing behind.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Invalid("name is required")
	}
	if strings.TrimSpace(in.OrganizationName) == "" {
		return nil, apperr.Invalid("organization_name is required")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	acc := &Account{Name: name, Email: email, PasswordHash: hash}
	var org *organization.Organization
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, acc); err != nil {
			return err
		}
		org, err = s.orgs.CreateWithOwner(ctx, acc.ID, organization.CreateInput{Name: in.OrganizationName})
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.session(acc, org)
}

// SignIn verifies credentials. Unknown emails and wrong passwords fail with the
// same error after the same amount of bcrypt work.
func (s *Service) SignIn(ctx context.Context, in SignInInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, apperr.Invalid("email and password are required")
	}

	acc, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.passwords.CompareDummy(in.Password)
			return nil, errBadCredentials
		}
		return nil, err
	}
	ok, err := s.passwords.Compare(acc.PasswordHash, in.Password)
	if err != nil {
		return nil, apperr.Internal("compare password", err)
	}
	if !ok {
		return nil, errBadCredentials
	}
	return s.session(acc, nil)
}

func (s *Service) session(acc *Account, org *organization.Organization) (*Session, error) {
	token, exp, err := s.tokens.Issue(acc.ID)
	if err != nil {
		return nil, apperr.Internal("issue token", err)
	}
	return &Session{Token: token, ExpiresAt: exp, Account: acc, Organization: org}, nil
}

func (s *Service) Me(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateMe(ctx context.Context, id uuid.UUID, patch Patch) (*Account, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperr.Invalid("name must not be empty")
		}
		patch.Name = &name
	}
	if patch.Email != nil {
		email, err := normalizeEmail(*patch.Email)
		if err != nil {
			return nil, err
		}
		patch.Email = &email
	}
	if patch.Password != nil {
		if err := validatePassword(*patch.Password); err != nil {
			return nil, err
		}
		hash, err := s.passwords.Hash(*patch.Password)
		if err != nil {
			return nil, apperr.Internal("hash password", err)
		}
		patch.passwordHash = &hash
	}
	return s.repo.Update(ctx, id, patch)
}

// DeleteMe removes the account and its memberships. It is refused while the
// account is the only admin of an organization.
func (s *Service) DeleteMe(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.repo.SoleAdminCount(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperr.Invalid("account is the last admin of %d organization(s); transfer or delete them first", n)
		}
		return s.repo.Delete(ctx, id)
	})
}

func (s *Service) ListProviders(ctx context.Context, accountID uuid.UUID) ([]*ProviderLink, error) {
	return s.providers.List(ctx, accountID)
}

func (s *Service) LinkProvider(ctx context.Context, accountID uuid.UUID, in ProviderInput) (*ProviderLink, error) {
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return nil, apperr.Invalid("provider is required")
	}
	if strings.TrimSpace(in.ProviderAccountID) == "" {
		return nil, apperr.Invalid("provider_account_id is required")
	}
	link := &ProviderLink{AccountID: accountID, Provider: provider, ProviderAccountID: strings.TrimSpace(in.ProviderAccountID)}
	if err := s.providers.Create(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *Service) UnlinkProvider(ctx context.Context, accountID, id uuid.UUID) error {
	return s.providers.Delete(ctx, id, accountID)
}
