package anamnesis

import (
	"context"

	"github.com/google/uuid"
)

type TemplateRepository interface {
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Template, int, error)
	GetByID(ctx context.Context, id, orgID uuid.UUID) (*Template, error)
	Create(ctx context.Context, orgID uuid.UUID, t *Template) error
	Update(ctx context.Context, id, orgID uuid.UUID, patch TemplatePatch) (*Template, error)
	Delete(ctx context.Context, id, orgID uuid.UUID) error
}

type QuestionRepository interface {
	List(ctx context.Context, orgID uuid.UUID, templateID *uuid.UUID, limit, offset int) ([]*Question, int, error)
	// ListByTemplate returns every question of a template in position order.
	ListByTemplate(ctx context.Context, templateID, orgID uuid.UUID) ([]*Question, error)
	GetByID(ctx context.Context, id, orgID uuid.UUID) (*Question, error)
	Create(ctx context.Context, orgID uuid.UUID, q *Question) error
	// Update writes every mutable column of q, scoped to orgID.
	Update(ctx context.Context, orgID uuid.UUID, q *Question) error
	Delete(ctx context.Context, id, orgID uuid.UUID) error
}

type PatientAnamnesisRepository interface {
	List(ctx context.Context, orgID uuid.UUID, patientID *uuid.UUID, limit, offset int) ([]*PatientAnamnesis, int, error)
	GetByID(ctx context.Context, id, orgID uuid.UUID) (*PatientAnamnesis, error)
	Create(ctx context.Context, orgID uuid.UUID, pa *PatientAnamnesis) error
	UpdateAnswers(ctx context.Context, id, orgID uuid.UUID, answers map[string]any) (*PatientAnamnesis, error)
	Delete(ctx context.Context, id, orgID uuid.UUID) error
}
