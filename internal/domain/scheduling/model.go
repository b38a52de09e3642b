package scheduling

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
	StatusNoShow    = "no_show"
)

var validStatuses = map[string]bool{
	StatusScheduled: true, StatusConfirmed: true, StatusCompleted: true,
	StatusCanceled: true, StatusNoShow: true,
}

type Appointment struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OrganizationID uuid.UUID `db:"organization_id" json:"organization_id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	Title          string    `db:"title" json:"title"`
	Notes          *string   `db:"notes" json:"notes,omitempty"`
	StartAt        time.Time `db:"start_at" json:"start_at"`
	EndAt          time.Time `db:"end_at" json:"end_at"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// CreateInput carries the day and wall-clock times separately, as the
// scheduling UI collects them.
type CreateInput struct {
	PatientID uuid.UUID `json:"patient_id"`
	Title     string    `json:"title"`
	Notes     *string   `json:"notes"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Status    string    `json:"status"`
}

// Patch holds the fields PUT /appointments/:id may change. Missing time parts
// are taken from the stored appointment.
type Patch struct {
	PatientID *uuid.UUID `json:"patient_id"`
	Title     *string    `json:"title"`
	Notes     *string    `json:"notes"`
	Date      *string    `json:"date"`
	StartTime *string    `json:"start_time"`
	EndTime   *string    `json:"end_time"`
	Status    *string    `json:"status"`
}

func (p Patch) touchesTime() bool {
	return p.Date != nil || p.StartTime != nil || p.EndTime != nil
}

// Changes is a validated Patch in storage terms.
type Changes struct {
	PatientID *uuid.UUID
	Title     *string
	Notes     *string
	Status    *string
	StartAt   *time.Time
	EndAt     *time.Time
}

func (c Changes) setMap() map[string]any {
	m := map[string]any{}
	if c.PatientID != nil {
		m["patient_id"] = *c.PatientID
	}
	if c.Title != nil {
		m["title"] = *c.Title
	}
	if c.Notes != nil {
		m["notes"] = *c.Notes
	}
	if c.Status != nil {
		m["status"] = *c.Status
	}
	if c.StartAt != nil {
		m["start_at"] = *c.StartAt
	}
	if c.EndAt != nil {
		m["end_at"] = *c.EndAt
	}
	return m
}

// Filter narrows List. From and To bound start_at as [From, To).
type Filter struct {
	PatientID *uuid.UUID
	Status    *string
	From      *time.Time
	To        *time.Time
}
