package anamnesis

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db"
	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db/dbtest"
)

func TestRepoPG(t *testing.T) {
	pool := dbtest.New(t)
	svc := NewService(NewTemplateRepoPG(pool), NewQuestionRepoPG(pool), NewPatientAnamnesisRepoPG(pool), db.NewTransactor(pool))
	ctx := context.Background()

	owner := dbtest.Account(t, pool, "owner@clinic.test")
	orgA := dbtest.Organization(t, pool, "clinic-a", owner)
	orgB := dbtest.Organization(t, pool, "clinic-b", owner)

	var patientA, patientB uuid.UUID
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO patients (organization_id, name) VALUES ($1, 'Ana') RETURNING id`, orgA).Scan(&patientA))
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO patients (organization_id, name) VALUES ($1, 'Bia') RETURNING id`, orgB).Scan(&patientB))

	tpl := &Template{Title: "First visit"}
	require.NoError(t, svc.CreateTemplate(ctx, orgA, tpl))

	pain := &Question{TemplateID: tpl.ID, Text: "Pain level", Type: QuestionSelect, Options: []string{"none", "mild"}, Required: true, Position: 1}
	require.NoError(t, svc.CreateQuestion(ctx, orgA, pain))
	smoker := &Question{TemplateID: tpl.ID, Text: "Smoker", Type: QuestionBoolean}
	require.NoError(t, svc.CreateQuestion(ctx, orgA, smoker))

	t.Run("questions keep position order and options", func(t *testing.T) {
		qs, err := NewQuestionRepoPG(pool).ListByTemplate(ctx, tpl.ID, orgA)
		require.NoError(t, err)
		require.Len(t, qs, 2)
		assert.Equal(t, smoker.ID, qs[0].ID)
		assert.Empty(t, qs[0].Options)
		assert.Equal(t, []string{"none", "mild"}, qs[1].Options)
	})

	t.Run("answers round trip as json", func(t *testing.T) {
		pa := &PatientAnamnesis{PatientID: patientA, TemplateID: tpl.ID, Answers: map[string]any{
			pain.ID.String():   "mild",
			smoker.ID.String(): true,
		}}
		require.NoError(t, svc.CreatePatientAnamnesis(ctx, orgA, pa))

		got, err := svc.GetPatientAnamnesis(ctx, pa.ID, orgA)
		require.NoError(t, err)
		assert.Equal(t, "mild", got.Answers[pain.ID.String()])
		assert.Equal(t, true, got.Answers[smoker.ID.String()])

		_, err = svc.GetPatientAnamnesis(ctx, pa.ID, orgB)
		assert.True(t, apperr.Is(err, apperr.KindNotFound), "got %v", err)
	})

	t.Run("patient of another tenant is not found", func(t *testing.T) {
		pa := &PatientAnamnesis{PatientID: patientB, TemplateID: tpl.ID, Answers: map[string]any{pain.ID.String(): "none"}}
		err := svc.CreatePatientAnamnesis(ctx, orgA, pa)
		assert.True(t, apperr.Is(err, apperr.KindNotFound), "got %v", err)
		assert.Equal(t, "patient not found", apperr.Message(err))
	})

	t.Run("deleting the template cascades", func(t *testing.T) {
		require.NoError(t, svc.DeleteTemplate(ctx, tpl.ID, orgA))
		assert.Equal(t, 0, dbtest.Count(t, pool, "anamnesis_questions"))
		assert.Equal(t, 0, dbtest.Count(t, pool, "patient_anamneses"))
	})
}
