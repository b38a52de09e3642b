package anamnesis

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db"
)

func deleteScoped(ctx context.Context, q db.Querier, table, entity string, id, orgID uuid.UUID) error {
	tag, err := db.Exec(ctx, q, db.ScopedDelete(table, orgID).Where(sq.Eq{"id": id}))
	if err != nil {
		return db.MapError(err, entity)
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows, entity)
	}
	return nil
}

// =========== Template Repository ===========

const templatesTable = "anamnesis_templates"

var templateCols = []string{"id", "organization_id", "title", "description", "created_at", "updated_at"}

type templateRepoPG struct{ pool *pgxpool.Pool }

func NewTemplateRepoPG(pool *pgxpool.Pool) TemplateRepository { return &templateRepoPG{pool: pool} }

func (r *templateRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func scanTemplate(row pgx.Row) (*Template, error) {
	var t Template
	if err := row.Scan(&t.ID, &t.OrganizationID, &t.Title, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, db.MapError(err, "anamnesis template")
	}
	return &t, nil
}

func (r *templateRepoPG) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Template, int, error) {
	total, err := db.Count(ctx, r.conn(ctx), db.ScopedCount(templatesTable, orgID))
	if err != nil {
		return nil, 0, db.MapError(err, "anamnesis template")
	}
	q := db.ScopedSelect(templatesTable, orgID, templateCols...).
		OrderBy("title ASC", "id ASC")
	q = db.Page(q, limit, offset)
	rows, err := db.Query(ctx, r.conn(ctx), q)
	if err != nil {
		return nil, 0, db.MapError(err, "anamnesis template")
	}
	defer rows.Close()

	var items []*Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, db.MapError(rows.Err(), "anamnesis template")
}

func (r *templateRepoPG) GetByID(ctx context.Context, id, orgID uuid.UUID) (*Template, error) {
	q := db.ScopedSelect(templatesTable, orgID, templateCols...).Where(sq.Eq{"id": id})
	return scanTemplate(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *templateRepoPG) Create(ctx context.Context, orgID uuid.UUID, t *Template) error {
	t.ID = uuid.New()
	t.OrganizationID = orgID
	q := db.SQL.Insert(templatesTable).
		Columns("id", "organization_id", "title", "description").
		Values(t.ID, orgID, t.Title, t.Description).
		Suffix("RETURNING created_at, updated_at")
	if err := db.QueryRow(ctx, r.conn(ctx), q).Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return db.MapError(err, "anamnesis template")
	}
	return nil
}

func (r *templateRepoPG) Update(ctx context.Context, id, orgID uuid.UUID, patch TemplatePatch) (*Template, error) {
	set := patch.setMap()
	if len(set) == 0 {
		return r.GetByID(ctx, id, orgID)
	}
	set["updated_at"] = sq.Expr("NOW()")
	q := db.ScopedUpdate(templatesTable, orgID).SetMap(set).Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(templateCols, ", "))
	return scanTemplate(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *templateRepoPG) Delete(ctx context.Context, id, orgID uuid.UUID) error {
	return deleteScoped(ctx, r.conn(ctx), templatesTable, "anamnesis template", id, orgID)
}

// =========== Question Repository ===========

const questionsTable = "anamnesis_questions"

var questionCols = []string{"id", "organization_id", "template_id", "text", "type", "options",
	"required", "position", "created_at", "updated_at"}

type questionRepoPG struct{ pool *pgxpool.Pool }

func NewQuestionRepoPG(pool *pgxpool.Pool) QuestionRepository { return &questionRepoPG{pool: pool} }

func (r *questionRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func scanQuestion(row pgx.Row) (*Question, error) {
	var q Question
	err := row.Scan(&q.ID, &q.OrganizationID, &q.TemplateID, &q.Text, &q.Type, &q.Options,
		&q.Required, &q.Position, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, db.MapError(err, "anamnesis question")
	}
	return &q, nil
}

func (r *questionRepoPG) collect(ctx context.Context, b sq.Sqlizer) ([]*Question, error) {
	rows, err := db.Query(ctx, r.conn(ctx), b)
	if err != nil {
		return nil, db.MapError(err, "anamnesis question")
	}
	defer rows.Close()

	var items []*Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, q)
	}
	return items, db.MapError(rows.Err(), "anamnesis question")
}

func (r *questionRepoPG) List(ctx context.Context, orgID uuid.UUID, templateID *uuid.UUID, limit, offset int) ([]*Question, int, error) {
	where := func(b sq.SelectBuilder) sq.SelectBuilder {
		if templateID != nil {
			return b.Where(sq.Eq{"template_id": *templateID})
		}
		return b
	}
	total, err := db.Count(ctx, r.conn(ctx), where(db.ScopedCount(questionsTable, orgID)))
	if err != nil {
		return nil, 0, db.MapError(err, "anamnesis question")
	}
	q := where(db.ScopedSelect(questionsTable, orgID, questionCols...)).
		OrderBy("template_id", "position ASC", "created_at ASC")
	q = db.Page(q, limit, offset)
	items, err := r.collect(ctx, q)
	return items, total, err
}

func (r *questionRepoPG) ListByTemplate(ctx context.Context, templateID, orgID uuid.UUID) ([]*Question, error) {
	q := db.ScopedSelect(questionsTable, orgID, questionCols...).
		Where(sq.Eq{"template_id": templateID}).
		OrderBy("position ASC", "created_at ASC")
	return r.collect(ctx, q)
}

func (r *questionRepoPG) GetByID(ctx context.Context, id, orgID uuid.UUID) (*Question, error) {
	q := db.ScopedSelect(questionsTable, orgID, questionCols...).Where(sq.Eq{"id": id})
	return scanQuestion(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *questionRepoPG) Create(ctx context.Context, orgID uuid.UUID, q *Question) error {
	q.ID = uuid.New()
	q.OrganizationID = orgID
	b := db.SQL.Insert(questionsTable).
		Columns("id", "organization_id", "template_id", "text", "type", "options", "required", "position").
		Values(q.ID, orgID, q.TemplateID, q.Text, q.Type, q.Options, q.Required, q.Position).
		Suffix("RETURNING created_at, updated_at")
	if err := db.QueryRow(ctx, r.conn(ctx), b).Scan(&q.CreatedAt, &q.UpdatedAt); err != nil {
		return db.MapError(err, "anamnesis question")
	}
	return nil
}

func (r *questionRepoPG) Update(ctx context.Context, orgID uuid.UUID, q *Question) error {
	b := db.ScopedUpdate(questionsTable, orgID).
		SetMap(map[string]any{
			"text":       q.Text,
			"type":       q.Type,
			"options":    q.Options,
			"required":   q.Required,
			"position":   q.Position,
			"updated_at": sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": q.ID}).
		Suffix("RETURNING updated_at")
	if err := db.QueryRow(ctx, r.conn(ctx), b).Scan(&q.UpdatedAt); err != nil {
		return db.MapError(err, "anamnesis question")
	}
	return nil
}

func (r *questionRepoPG) Delete(ctx context.Context, id, orgID uuid.UUID) error {
	return deleteScoped(ctx, r.conn(ctx), questionsTable, "anamnesis question", id, orgID)
}

// =========== Patient Anamnesis Repository ===========

const patientAnamnesesTable = "patient_anamneses"

var patientAnamnesisCols = []string{"id", "organization_id", "patient_id", "template_id", "answers", "created_at", "updated_at"}

type patientAnamnesisRepoPG struct{ pool *pgxpool.Pool }

func NewPatientAnamnesisRepoPG(pool *pgxpool.Pool) PatientAnamnesisRepository {
	return &patientAnamnesisRepoPG{pool: pool}
}

func (r *patientAnamnesisRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func scanPatientAnamnesis(row pgx.Row) (*PatientAnamnesis, error) {
	var pa PatientAnamnesis
	if err := row.Scan(&pa.ID, &pa.OrganizationID, &pa.PatientID, &pa.TemplateID, &pa.Answers, &pa.CreatedAt, &pa.UpdatedAt); err != nil {
		return nil, db.MapError(err, "patient anamnesis")
	}
	return &pa, nil
}

func (r *patientAnamnesisRepoPG) List(ctx context.Context, orgID uuid.UUID, patientID *uuid.UUID, limit, offset int) ([]*PatientAnamnesis, int, error) {
	where := func(b sq.SelectBuilder) sq.SelectBuilder {
		if patientID != nil {
			return b.Where(sq.Eq{"patient_id": *patientID})
		}
		return b
	}
	total, err := db.Count(ctx, r.conn(ctx), where(db.ScopedCount(patientAnamnesesTable, orgID)))
	if err != nil {
		return nil, 0, db.MapError(err, "patient anamnesis")
	}
	q := where(db.ScopedSelect(patientAnamnesesTable, orgID, patientAnamnesisCols...)).
		OrderBy("created_at DESC", "id ASC")
	q = db.Page(q, limit, offset)
	rows, err := db.Query(ctx, r.conn(ctx), q)
	if err != nil {
		return nil, 0, db.MapError(err, "patient anamnesis")
	}
	defer rows.Close()

	var items []*PatientAnamnesis
	for rows.Next() {
		pa, err := scanPatientAnamnesis(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, pa)
	}
	return items, total, db.MapError(rows.Err(), "patient anamnesis")
}

func (r *patientAnamnesisRepoPG) GetByID(ctx context.Context, id, orgID uuid.UUID) (*PatientAnamnesis, error) {
	q := db.ScopedSelect(patientAnamnesesTable, orgID, patientAnamnesisCols...).Where(sq.Eq{"id": id})
	return scanPatientAnamnesis(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *patientAnamnesisRepoPG) Create(ctx context.Context, orgID uuid.UUID, pa *PatientAnamnesis) error {
	pa.ID = uuid.New()
	pa.OrganizationID = orgID
	q := db.SQL.Insert(patientAnamnesesTable).
		Columns("id", "organization_id", "patient_id", "template_id", "answers").
		Values(pa.ID, orgID, pa.PatientID, pa.TemplateID, pa.Answers).
		Suffix("RETURNING created_at, updated_at")
	if err := db.QueryRow(ctx, r.conn(ctx), q).Scan(&pa.CreatedAt, &pa.UpdatedAt); err != nil {
		return db.MapError(err, "patient anamnesis")
	}
	return nil
}

func (r *patientAnamnesisRepoPG) UpdateAnswers(ctx context.Context, id, orgID uuid.UUID, answers map[string]any) (*PatientAnamnesis, error) {
	q := db.ScopedUpdate(patientAnamnesesTable, orgID).
		Set("answers", answers).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(patientAnamnesisCols, ", "))
	return scanPatientAnamnesis(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *patientAnamnesisRepoPG) Delete(ctx context.Context, id, orgID uuid.UUID) error {
	return deleteScoped(ctx, r.conn(ctx), patientAnamnesesTable, "patient anamnesis", id, orgID)
}
