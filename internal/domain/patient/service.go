package patient

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
)

type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

// NewService builds a patient service. loc decides month boundaries for Metrics.
func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, loc: loc, now: time.Now}
}

func validateEmail(email *string) error {
	if email == nil || *email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(*email); err != nil {
		return apperr.Invalid("email is invalid")
	}
	return nil
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, f Filter, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, orgID, f, limit, offset)
}

func (s *Service) Get(ctx context.Context, id, orgID uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id, orgID)
}

func (s *Service) Create(ctx context.Context, orgID uuid.UUID, p *Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return apperr.Invalid("name is required")
	}
	if err := validateEmail(p.Email); err != nil {
		return err
	}
	return s.repo.Create(ctx, orgID, p)
}

func (s *Service) Update(ctx context.Context, id, orgID uuid.UUID, patch Patch) (*Patient, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperr.Invalid("name must not be empty")
		}
		patch.Name = &name
	}
	if err := validateEmail(patch.Email); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, orgID, patch)
}

func (s *Service) Delete(ctx context.Context, id, orgID uuid.UUID) error {
	return s.repo.Delete(ctx, id, orgID)
}

// Metrics reports the total and the registrations of the current and the
// previous calendar month.
func (s *Service) Metrics(ctx context.Context, orgID uuid.UUID) (*Metrics, error) {
	now := s.now().In(s.loc)
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	lastMonth := thisMonth.AddDate(0, -1, 0)
	return s.repo.Metrics(ctx, orgID, thisMonth, lastMonth)
}
