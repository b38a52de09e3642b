package anamnesis

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db"
)

type Service struct {
	templates TemplateRepository
	questions QuestionRepository
	records   PatientAnamnesisRepository
	tx        db.Transactor
}

func NewService(templates TemplateRepository, questions QuestionRepository, records PatientAnamnesisRepository, tx db.Transactor) *Service {
	return &Service{templates: templates, questions: questions, records: records, tx: tx}
}

// -- Templates --

func (s *Service) ListTemplates(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Template, int, error) {
	return s.templates.List(ctx, orgID, limit, offset)
}

func (s *Service) GetTemplate(ctx context.Context, id, orgID uuid.UUID) (*Template, error) {
	return s.templates.GetByID(ctx, id, orgID)
}

func (s *Service) CreateTemplate(ctx context.Context, orgID uuid.UUID, t *Template) error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return apperr.Invalid("title is required")
	}
	return s.templates.Create(ctx, orgID, t)
}

func (s *Service) UpdateTemplate(ctx context.Context, id, orgID uuid.UUID, patch TemplatePatch) (*Template, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperr.Invalid("title must not be empty")
		}
		patch.Title = &title
	}
	return s.templates.Update(ctx, id, orgID, patch)
}

// DeleteTemplate removes a template together with its questions and filled records.
func (s *Service) DeleteTemplate(ctx context.Context, id, orgID uuid.UUID) error {
	return s.templates.Delete(ctx, id, orgID)
}

// -- Questions --

func checkQuestion(q *Question) error {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return apperr.Invalid("text is required")
	}
	if !validQuestionTypes[q.Type] {
		return apperr.Invalid("type must be text, boolean, number or select")
	}
	if q.Options == nil {
		q.Options = []string{}
	}
	if q.Type == QuestionSelect {
		if len(q.Options) == 0 {
			return apperr.Invalid("select questions need at least one option")
		}
		for _, o := range q.Options {
			if strings.TrimSpace(o) == "" {
				return apperr.Invalid("options must not be empty")
			}
		}
	} else if len(q.Options) > 0 {
		return apperr.Invalid("options are only allowed on select questions")
	}
	if q.Position < 0 {
		return apperr.Invalid("position must not be negative")
	}
	return nil
}

func (s *Service) ListQuestions(ctx context.Context, orgID uuid.UUID, templateID *uuid.UUID, limit, offset int) ([]*Question, int, error) {
	return s.questions.List(ctx, orgID, templateID, limit, offset)
}

func (s *Service) GetQuestion(ctx context.Context, id, orgID uuid.UUID) (*Question, error) {
	return s.questions.GetByID(ctx, id, orgID)
}

func (s *Service) CreateQuestion(ctx context.Context, orgID uuid.UUID, q *Question) error {
	if q.TemplateID == uuid.Nil {
		return apperr.Invalid("template_id is required")
	}
	if err := checkQuestion(q); err != nil {
		return err
	}
	if _, err := s.templates.GetByID(ctx, q.TemplateID, orgID); err != nil {
		return err
	}
	return s.questions.Create(ctx, orgID, q)
}

func (s *Service) UpdateQuestion(ctx context.Context, id, orgID uuid.UUID, patch QuestionPatch) (*Question, error) {
	var out *Question
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		q, err := s.questions.GetByID(ctx, id, orgID)
		if err != nil {
			return err
		}
		if patch.Text != nil {
			q.Text = *patch.Text
		}
		if patch.Type != nil {
			q.Type = *patch.Type
			// Switching away from select drops the old options unless new ones are sent.
			if q.Type != QuestionSelect && patch.Options == nil {
				q.Options = []string{}
			}
		}
		if patch.Options != nil {
			q.Options = *patch.Options
		}
		if patch.Required != nil {
			q.Required = *patch.Required
		}
		if patch.Position != nil {
			q.Position = *patch.Position
		}
		if err := checkQuestion(q); err != nil {
			return err
		}
		if err := s.questions.Update(ctx, orgID, q); err != nil {
			return err
		}
		out = q
		return nil
	})
	return out, err
}

func (s *Service) DeleteQuestion(ctx context.Context, id, orgID uuid.UUID) error {
	return s.questions.Delete(ctx, id, orgID)
}

// -- Patient anamneses --

// validateAnswers checks answers against the template's questions. Keys are
// question ids; values must match the question type.
func validateAnswers(questions []*Question, answers map[string]any) error {
	byID := make(map[string]*Question, len(questions))
	for _, q := range questions {
		byID[q.ID.String()] = q
	}

	for key, v := range answers {
		id, err := uuid.Parse(key)
		if err != nil {
			return apperr.Invalid("answer key %q is not a question id", key)
		}
		q, ok := byID[id.String()]
		if !ok {
			return apperr.Invalid("question %s does not belong to the template", key)
		}
		if v == nil {
			continue
		}
		if err := checkAnswer(q, v); err != nil {
			return err
		}
	}

	for _, q := range questions {
		if !q.Required {
			continue
		}
		v, ok := answers[q.ID.String()]
		if s, isStr := v.(string); !ok || v == nil || (isStr && strings.TrimSpace(s) == "") {
			return apperr.Invalid("question %q is required", q.Text)
		}
	}
	return nil
}

func checkAnswer(q *Question, v any) error {
	bad := apperr.Invalid("answer to %q must be a %s", q.Text, q.Type)
	switch q.Type {
	case QuestionText:
		if _, ok := v.(string); !ok {
			return bad
		}
	case QuestionBoolean:
		if _, ok := v.(bool); !ok {
			return bad
		}
	case QuestionNumber:
		if _, ok := v.(float64); !ok {
			return bad
		}
	case QuestionSelect:
		s, ok := v.(string)
		if !ok || !slices.Contains(q.Options, s) {
			return apperr.Invalid("answer to %q must be one of its options", q.Text)
		}
	}
	return nil
}

func (s *Service) ListPatientAnamneses(ctx context.Context, orgID uuid.UUID, patientID *uuid.UUID, limit, offset int) ([]*PatientAnamnesis, int, error) {
	return s.records.List(ctx, orgID, patientID, limit, offset)
}

func (s *Service) GetPatientAnamnesis(ctx context.Context, id, orgID uuid.UUID) (*PatientAnamnesis, error) {
	return s.records.GetByID(ctx, id, orgID)
}

func (s *Service) CreatePatientAnamnesis(ctx context.Context, orgID uuid.UUID, pa *PatientAnamnesis) error {
	if pa.PatientID == uuid.Nil {
		return apperr.Invalid("patient_id is required")
	}
	if pa.TemplateID == uuid.Nil {
		return apperr.Invalid("template_id is required")
	}
	if pa.Answers == nil {
		pa.Answers = map[string]any{}
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.templates.GetByID(ctx, pa.TemplateID, orgID); err != nil {
			return err
		}
		questions, err := s.questions.ListByTemplate(ctx, pa.TemplateID, orgID)
		if err != nil {
			return err
		}
		if err := validateAnswers(questions, pa.Answers); err != nil {
			return err
		}
		return s.records.Create(ctx, orgID, pa)
	})
}

// UpdatePatientAnamnesis replaces the stored answers after revalidating them
// against the template's current questions.
func (s *Service) UpdatePatientAnamnesis(ctx context.Context, id, orgID uuid.UUID, patch PatientAnamnesisPatch) (*PatientAnamnesis, error) {
	var out *PatientAnamnesis
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		pa, err := s.records.GetByID(ctx, id, orgID)
		if err != nil {
			return err
		}
		if patch.Answers == nil {
			out = pa
			return nil
		}
		questions, err := s.questions.ListByTemplate(ctx, pa.TemplateID, orgID)
		if err != nil {
			return err
		}
		if err := validateAnswers(questions, patch.Answers); err != nil {
			return err
		}
		out, err = s.records.UpdateAnswers(ctx, id, orgID, patch.Answers)
		return err
	})
	return out, err
}

func (s *Service) DeletePatientAnamnesis(ctx context.Context, id, orgID uuid.UUID) error {
	return s.records.Delete(ctx, id, orgID)
}
