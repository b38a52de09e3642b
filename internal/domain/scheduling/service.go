package scheduling

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

type Service struct {
	appointments AppointmentRepository
	loc          *time.Location
	now          func() time.Time
}

// NewService builds the scheduling service. Wall-clock input and the monthly
// report are interpreted in loc.
func NewService(appt AppointmentRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{appointments: appt, loc: loc, now: time.Now}
}

// Location is the zone wall-clock input is read in.
func (s *Service) Location() *time.Location { return s.loc }

func validateStatus(status string) error {
	if !validStatuses[status] {
		return apperr.Invalid("invalid appointment status: %s", status)
	}
	return nil
}

func (s *Service) ListAppointments(ctx context.Context, orgID uuid.UUID, f Filter, limit, offset int) ([]*Appointment, int, error) {
	if f.Status != nil {
		if err := validateStatus(*f.Status); err != nil {
			return nil, 0, err
		}
	}
	return s.appointments.List(ctx, orgID, f, limit, offset)
}

func (s *Service) GetAppointment(ctx context.Context, id, orgID uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id, orgID)
}

func (s *Service) CreateAppointment(ctx context.Context, orgID uuid.UUID, in CreateInput) (*Appointment, error) {
	if in.PatientID == uuid.Nil {
		return nil, apperr.Invalid("patient_id is required")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Invalid("title is required")
	}
	if in.Status == "" {
		in.Status = StatusScheduled
	}
	if err := validateStatus(in.Status); err != nil {
		return nil, err
	}
	start, end, err := ComposeTimes(in.Date, in.StartTime, in.EndTime, s.loc)
	if err != nil {
		return nil, err
	}

	a := &Appointment{
		PatientID: in.PatientID,
		Title:     title,
		Notes:     in.Notes,
		StartAt:   start,
		EndAt:     end,
		Status:    in.Status,
	}
	if err := s.appointments.Create(ctx, orgID, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAppointment applies patch. When any of date, start_time or end_time is
// given, the missing parts come from the stored appointment and the times are
// recomposed and revalidated.
func (s *Service) UpdateAppointment(ctx context.Context, id, orgID uuid.UUID, patch Patch) (*Appointment, error) {
	ch := Changes{PatientID: patch.PatientID, Notes: patch.Notes, Status: patch.Status}
	if patch.PatientID != nil && *patch.PatientID == uuid.Nil {
		return nil, apperr.Invalid("patient_id must not be empty")
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperr.Invalid("title must not be empty")
		}
		ch.Title = &title
	}
	if patch.Status != nil {
		if err := validateStatus(*patch.Status); err != nil {
			return nil, err
		}
	}

	if patch.touchesTime() {
		current, err := s.appointments.GetByID(ctx, id, orgID)
		if err != nil {
			return nil, err
		}
		startLocal, endLocal := current.StartAt.In(s.loc), current.EndAt.In(s.loc)
		date := pick(patch.Date, startLocal.Format(dateLayout))
		startClock := pick(patch.StartTime, startLocal.Format(clockLayout))
		endClock := pick(patch.EndTime, endLocal.Format(clockLayout))

		start, end, err := ComposeTimes(date, startClock, endClock, s.loc)
		if err != nil {
			return nil, err
		}
		ch.StartAt, ch.EndAt = &start, &end
	}
	return s.appointments.Update(ctx, id, orgID, ch)
}

func pick(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}

func (s *Service) DeleteAppointment(ctx context.Context, id, orgID uuid.UUID) error {
	return s.appointments.Delete(ctx, id, orgID)
}

// CompletedByMonth returns completed appointment counts for the last six
// calendar months, oldest first.
func (s *Service) CompletedByMonth(ctx context.Context, orgID uuid.UUID) ([]MonthCount, error) {
	now := s.now().In(s.loc)
	dates, err := s.appointments.CompletedStartsSince(ctx, orgID, reportStart(now))
	if err != nil {
		return nil, err
	}
	return BucketCompletedByMonth(now, dates), nil
}
