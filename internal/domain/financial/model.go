package financial

import (
	"time"

	"github.com/google/uuid"

	"github.com/guilherme-michels/clinic-up-sub000/pkg/civil"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"

	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusCanceled = "canceled"
)

var validTypes = map[string]bool{TypeIncome: true, TypeExpense: true}

var validStatuses = map[string]bool{StatusPending: true, StatusPaid: true, StatusCanceled: true}

// Category groups transactions of one type, e.g. "Consultations" (income).
type Category struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OrganizationID uuid.UUID `db:"organization_id" json:"organization_id"`
	Name           string    `db:"name" json:"name"`
	Type           string    `db:"type" json:"type"`
	Color          *string   `db:"color" json:"color,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// CategoryPatch may rename or recolor a category. Its type is fixed once
// transactions can reference it.
type CategoryPatch struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (p CategoryPatch) setMap() map[string]any {
	m := map[string]any{}
	if p.Name != nil {
		m["name"] = *p.Name
	}
	if p.Color != nil {
		m["color"] = *p.Color
	}
	return m
}

type Transaction struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	OrganizationID uuid.UUID  `db:"organization_id" json:"organization_id"`
	CategoryID     *uuid.UUID `db:"category_id" json:"category_id,omitempty"`
	PatientID      *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	Description    string     `db:"description" json:"description"`
	AmountCents    int64      `db:"amount_cents" json:"amount_cents"`
	Type           string     `db:"type" json:"type"`
	Status         string     `db:"status" json:"status"`
	DueDate        civil.Date `db:"due_date" json:"due_date"`
	PaidAt         *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	PaymentMethod  *string    `db:"payment_method" json:"payment_method,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// TransactionPatch holds the fields PUT /transactions/:id may change.
type TransactionPatch struct {
	CategoryID    *uuid.UUID  `json:"category_id"`
	PatientID     *uuid.UUID  `json:"patient_id"`
	Description   *string     `json:"description"`
	AmountCents   *int64      `json:"amount_cents"`
	Type          *string     `json:"type"`
	Status        *string     `json:"status"`
	DueDate       *civil.Date `json:"due_date"`
	PaidAt        *time.Time  `json:"paid_at"`
	PaymentMethod *string     `json:"payment_method"`
	// Clear lists nullable fields to reset: category_id, patient_id, payment_method.
	Clear []string `json:"clear"`
}

// TransactionFilter narrows List. From and To bound due_date inclusively.
type TransactionFilter struct {
	Type       *string
	Status     *string
	CategoryID *uuid.UUID
	PatientID  *uuid.UUID
	From       *civil.Date
	To         *civil.Date
}

// Balance sums amounts in cents. Canceled transactions are excluded.
type Balance struct {
	IncomeCents         int64 `json:"income_cents"`
	ExpenseCents        int64 `json:"expense_cents"`
	BalanceCents        int64 `json:"balance_cents"`
	PendingIncomeCents  int64 `json:"pending_income_cents"`
	PendingExpenseCents int64 `json:"pending_expense_cents"`
}
