package financial

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db"
)

type Service struct {
	categories   CategoryRepository
	transactions TransactionRepository
	tx           db.Transactor
	now          func() time.Time
}

func NewService(cats CategoryRepository, txns TransactionRepository, tx db.Transactor) *Service {
	return &Service{categories: cats, transactions: txns, tx: tx, now: time.Now}
}

func validateType(t string) error {
	if !validTypes[t] {
		return apperr.Invalid("type must be income or expense")
	}
	return nil
}

func validateStatus(s string) error {
	if !validStatuses[s] {
		return apperr.Invalid("status must be pending, paid or canceled")
	}
	return nil
}

// -- Categories --

func (s *Service) ListCategories(ctx context.Context, orgID uuid.UUID, typ *string, limit, offset int) ([]*Category, int, error) {
	if typ != nil {
		if err := validateType(*typ); err != nil {
			return nil, 0, err
		}
	}
	return s.categories.List(ctx, orgID, typ, limit, offset)
}

func (s *Service) GetCategory(ctx context.Context, id, orgID uuid.UUID) (*Category, error) {
	return s.categories.GetByID(ctx, id, orgID)
}

func (s *Service) CreateCategory(ctx context.Context, orgID uuid.UUID, c *Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return apperr.Invalid("name is required")
	}
	if err := validateType(c.Type); err != nil {
		return err
	}
	return s.categories.Create(ctx, orgID, c)
}

func (s *Service) UpdateCategory(ctx context.Context, id, orgID uuid.UUID, patch CategoryPatch) (*Category, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperr.Invalid("name must not be empty")
		}
		patch.Name = &name
	}
	return s.categories.Update(ctx, id, orgID, patch)
}

// DeleteCategory removes a category. Its transactions are kept uncategorized.
func (s *Service) DeleteCategory(ctx context.Context, id, orgID uuid.UUID) error {
	return s.categories.Delete(ctx, id, orgID)
}

// -- Transactions --

// checkTransaction validates t as it will be stored. A category must belong to
// the organization and carry the same type; a paid transaction without a
// payment time is stamped with the current time.
func (s *Service) checkTransaction(ctx context.Context, orgID uuid.UUID, t *Transaction) error {
	t.Description = strings.TrimSpace(t.Description)
	if t.Description == "" {
		return apperr.Invalid("description is required")
	}
	if t.AmountCents <= 0 {
		return apperr.Invalid("amount_cents must be positive")
	}
	if err := validateType(t.Type); err != nil {
		return err
	}
	if err := validateStatus(t.Status); err != nil {
		return err
	}
	if t.DueDate.IsZero() {
		return apperr.Invalid("due_date is required")
	}

	if t.CategoryID != nil {
		cat, err := s.categories.GetByID(ctx, *t.CategoryID, orgID)
		if err != nil {
			return err
		}
		if cat.Type != t.Type {
			return apperr.Invalid("category %q is for %s transactions", cat.Name, cat.Type)
		}
	}

	switch {
	case t.Status == StatusPaid && t.PaidAt == nil:
		now := s.now()
		t.PaidAt = &now
	case t.Status != StatusPaid:
		t.PaidAt = nil
	}
	return nil
}

func (s *Service) ListTransactions(ctx context.Context, orgID uuid.UUID, f TransactionFilter, limit, offset int) ([]*Transaction, int, error) {
	if f.Type != nil {
		if err := validateType(*f.Type); err != nil {
			return nil, 0, err
		}
	}
	if f.Status != nil {
		if err := validateStatus(*f.Status); err != nil {
			return nil, 0, err
		}
	}
	return s.transactions.List(ctx, orgID, f, limit, offset)
}

func (s *Service) GetTransaction(ctx context.Context, id, orgID uuid.UUID) (*Transaction, error) {
	return s.transactions.GetByID(ctx, id, orgID)
}

func (s *Service) CreateTransaction(ctx context.Context, orgID uuid.UUID, t *Transaction) error {
	if t.Status == "" {
		t.Status = StatusPending
	}
	if err := s.checkTransaction(ctx, orgID, t); err != nil {
		return err
	}
	return s.transactions.Create(ctx, orgID, t)
}

var clearable = map[string]bool{"category_id": true, "patient_id": true, "payment_method": true}

// UpdateTransaction merges patch into the locked stored transaction and
// revalidates the result as a whole.
func (s *Service) UpdateTransaction(ctx context.Context, id, orgID uuid.UUID, patch TransactionPatch) (*Transaction, error) {
	for _, f := range patch.Clear {
		if !clearable[f] {
			return nil, apperr.Invalid("field %q cannot be cleared", f)
		}
	}
	var out *Transaction
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.transactions.GetForUpdate(ctx, id, orgID)
		if err != nil {
			return err
		}
		applyPatch(t, patch)
		if err := s.checkTransaction(ctx, orgID, t); err != nil {
			return err
		}
		if err := s.transactions.Update(ctx, orgID, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func applyPatch(t *Transaction, p TransactionPatch) {
	if p.CategoryID != nil {
		t.CategoryID = p.CategoryID
	}
	if p.PatientID != nil {
		t.PatientID = p.PatientID
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.AmountCents != nil {
		t.AmountCents = *p.AmountCents
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.PaidAt != nil {
		t.PaidAt = p.PaidAt
	}
	if p.PaymentMethod != nil {
		t.PaymentMethod = p.PaymentMethod
	}
	for _, f := range p.Clear {
		switch f {
		case "category_id":
			t.CategoryID = nil
		case "patient_id":
			t.PatientID = nil
		case "payment_method":
			t.PaymentMethod = nil
		}
	}
}

func (s *Service) DeleteTransaction(ctx context.Context, id, orgID uuid.UUID) error {
	return s.transactions.Delete(ctx, id, orgID)
}

// Balance totals paid and pending amounts, optionally bounded by due date.
func (s *Service) Balance(ctx context.Context, orgID uuid.UUID, f TransactionFilter) (*Balance, error) {
	return s.transactions.Balance(ctx, orgID, TransactionFilter{From: f.From, To: f.To})
}
