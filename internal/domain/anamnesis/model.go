package anamnesis

import (
	"time"

	"github.com/google/uuid"
)

const (
	QuestionText    = "text"
	QuestionBoolean = "boolean"
	QuestionNumber  = "number"
	QuestionSelect  = "select"
)

var validQuestionTypes = map[string]bool{
	QuestionText: true, QuestionBoolean: true, QuestionNumber: true, QuestionSelect: true,
}

// Template is a named questionnaire, e.g. "First visit".
type Template struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OrganizationID uuid.UUID `db:"organization_id" json:"organization_id"`
	Title          string    `db:"title" json:"title"`
	Description    *string   `db:"description" json:"description,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type TemplatePatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (p TemplatePatch) setMap() map[string]any {
	m := map[string]any{}
	if p.Title != nil {
		m["title"] = *p.Title
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	return m
}

// Question belongs to one template. Options apply to select questions only.
type Question struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OrganizationID uuid.UUID `db:"organization_id" json:"organization_id"`
	TemplateID     uuid.UUID `db:"template_id" json:"template_id"`
	Text           string    `db:"text" json:"text"`
	Type           string    `db:"type" json:"type"`
	Options        []string  `db:"options" json:"options"`
	Required       bool      `db:"required" json:"required"`
	Position       int       `db:"position" json:"position"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// QuestionPatch cannot move a question to another template.
type QuestionPatch struct {
	Text     *string   `json:"text"`
	Type     *string   `json:"type"`
	Options  *[]string `json:"options"`
	Required *bool     `json:"required"`
	Position *int      `json:"position"`
}

// PatientAnamnesis is a filled-in template. Answers maps question ids to values.
type PatientAnamnesis struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	OrganizationID uuid.UUID      `db:"organization_id" json:"organization_id"`
	PatientID      uuid.UUID      `db:"patient_id" json:"patient_id"`
	TemplateID     uuid.UUID      `db:"template_id" json:"template_id"`
	Answers        map[string]any `db:"answers" json:"answers"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

type PatientAnamnesisPatch struct {
	Answers map[string]any `json:"answers"`
}
