package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
)

// -- Mock Repository --

type mockAppointmentRepo struct {
	items    map[uuid.UUID]*Appointment
	patients map[uuid.UUID]uuid.UUID // patient id -> organization id
	since    time.Time
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{items: make(map[uuid.UUID]*Appointment), patients: make(map[uuid.UUID]uuid.UUID)}
}

func (m *mockAppointmentRepo) addPatient(orgID uuid.UUID) uuid.UUID {
	id := uuid.New()
	m.patients[id] = orgID
	return id
}

func (m *mockAppointmentRepo) owned(id, orgID uuid.UUID) (*Appointment, error) {
	a, ok := m.items[id]
	if !ok || a.OrganizationID != orgID {
		return nil, apperr.NotFound("appointment not found")
	}
	return a, nil
}

func (m *mockAppointmentRepo) List(_ context.Context, orgID uuid.UUID, f Filter, limit, offset int) ([]*Appointment, int, error) {
	var out []*Appointment
	for _, a := range m.items {
		if a.OrganizationID != orgID {
			continue
		}
		if f.PatientID != nil && a.PatientID != *f.PatientID {
			continue
		}
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		if f.From != nil && a.StartAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !a.StartAt.Before(*f.To) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id, orgID uuid.UUID) (*Appointment, error) {
	a, err := m.owned(id, orgID)
	if err != nil {
		return nil, err
	}
	cp := *a
	return &cp, nil
}

func (m *mockAppointmentRepo) Create(_ context.Context, orgID uuid.UUID, a *Appointment) error {
	if m.patients[a.PatientID] != orgID {
		return apperr.NotFound("patient not found")
	}
	a.ID = uuid.New()
	a.OrganizationID = orgID
	a.CreatedAt = time.Now()
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *mockAppointmentRepo) Update(ctx context.Context, id, orgID uuid.UUID, ch Changes) (*Appointment, error) {
	a, err := m.owned(id, orgID)
	if err != nil {
		return nil, err
	}
	if ch.PatientID != nil {
		if m.patients[*ch.PatientID] != orgID {
			return nil, apperr.NotFound("patient not found")
		}
		a.PatientID = *ch.PatientID
	}
	if ch.Title != nil {
		a.Title = *ch.Title
	}
	if ch.Status != nil {
		a.Status = *ch.Status
	}
	if ch.StartAt != nil {
		a.StartAt = *ch.StartAt
	}
	if ch.EndAt != nil {
		a.EndAt = *ch.EndAt
	}
	return m.GetByID(ctx, id, orgID)
}

func (m *mockAppointmentRepo) Delete(_ context.Context, id, orgID uuid.UUID) error {
	if _, err := m.owned(id, orgID); err != nil {
		return err
	}
	delete(m.items, id)
	return nil
}

func (m *mockAppointmentRepo) CompletedStartsSince(_ context.Context, orgID uuid.UUID, since time.Time) ([]time.Time, error) {
	m.since = since
	var out []time.Time
	for _, a := range m.items {
		if a.OrganizationID == orgID && a.Status == StatusCompleted && !a.StartAt.Before(since) {
			out = append(out, a.StartAt)
		}
	}
	return out, nil
}

var testLoc = time.FixedZone("BRT", -3*60*60)

func newTestService() (*Service, *mockAppointmentRepo) {
	repo := newMockAppointmentRepo()
	return NewService(repo, testLoc), repo
}

func strPtr(s string) *string { return &s }

func TestCreateAppointment(t *testing.T) {
	svc, repo := newTestService()
	orgID := uuid.New()
	patientID := repo.addPatient(orgID)

	a, err := svc.CreateAppointment(context.Background(), orgID, CreateInput{
		PatientID: patientID, Title: "Checkup", Date: "2024-03-10", StartTime: "09:30", EndTime: "10:15",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("expected default status scheduled, got %s", a.Status)
	}
	if got := a.StartAt.In(testLoc).Format("2006-01-02T15:04"); got != "2024-03-10T09:30" {
		t.Errorf("unexpected start %s", got)
	}
}

func TestCreateAppointment_Validation(t *testing.T) {
	svc, repo := newTestService()
	orgID := uuid.New()
	patientID := repo.addPatient(orgID)
	base := CreateInput{PatientID: patientID, Title: "Checkup", Date: "2024-03-10", StartTime: "09:30", EndTime: "10:15"}

	tests := []struct {
		name   string
		mutate func(in *CreateInput)
	}{
		{"no patient", func(in *CreateInput) { in.PatientID = uuid.Nil }},
		{"no title", func(in *CreateInput) { in.Title = " " }},
		{"bad status", func(in *CreateInput) { in.Status = "done" }},
		{"end before start", func(in *CreateInput) { in.EndTime = "09:00" }},
		{"bad clock", func(in *CreateInput) { in.StartTime = "9h30" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			if _, err := svc.CreateAppointment(context.Background(), orgID, in); !apperr.Is(err, apperr.KindInvalid) {
				t.Fatalf("expected INVALID, got %v", err)
			}
		})
	}
}

func TestCreateAppointment_CrossTenantPatient(t *testing.T) {
	svc, repo := newTestService()
	orgA, orgB := uuid.New(), uuid.New()
	foreignPatient := repo.addPatient(orgB)

	_, err := svc.CreateAppointment(context.Background(), orgA, CreateInput{
		PatientID: foreignPatient, Title: "x", Date: "2024-03-10", StartTime: "09:00", EndTime: "10:00",
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpdateAppointment_RecomposesFromStoredValues(t *testing.T) {
	svc, repo := newTestService()
	orgID := uuid.New()
	a, _ := svc.CreateAppointment(context.Background(), orgID, CreateInput{
		PatientID: repo.addPatient(orgID), Title: "Checkup", Date: "2024-03-10", StartTime: "09:30", EndTime: "10:15",
	})

	got, err := svc.UpdateAppointment(context.Background(), a.ID, orgID, Patch{Date: strPtr("2024-03-12")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := got.StartAt.In(testLoc).Format("2006-01-02T15:04"); s != "2024-03-12T09:30" {
		t.Errorf("unexpected start %s", s)
	}
	if e := got.EndAt.In(testLoc).Format("2006-01-02T15:04"); e != "2024-03-12T10:15" {
		t.Errorf("unexpected end %s", e)
	}

	if _, err := svc.UpdateAppointment(context.Background(), a.ID, orgID, Patch{EndTime: strPtr("09:00")}); !apperr.Is(err, apperr.KindInvalid) {
		t.Errorf("expected INVALID when end moves before start, got %v", err)
	}

	got, err = svc.UpdateAppointment(context.Background(), a.ID, orgID, Patch{Status: strPtr(StatusCompleted)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}
}

func TestAppointments_CrossTenantIsNotFound(t *testing.T) {
	svc, repo := newTestService()
	orgA, orgB := uuid.New(), uuid.New()
	a, _ := svc.CreateAppointment(context.Background(), orgA, CreateInput{
		PatientID: repo.addPatient(orgA), Title: "Private", Date: "2024-03-10", StartTime: "09:00", EndTime: "10:00",
	})

	if _, err := svc.GetAppointment(context.Background(), a.ID, orgB); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("get: expected NOT_FOUND, got %v", err)
	}
	if _, err := svc.UpdateAppointment(context.Background(), a.ID, orgB, Patch{Title: strPtr("x")}); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("update: expected NOT_FOUND, got %v", err)
	}
	if _, err := svc.UpdateAppointment(context.Background(), a.ID, orgB, Patch{Date: strPtr("2024-03-11")}); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("update with time: expected NOT_FOUND, got %v", err)
	}
	if err := svc.DeleteAppointment(context.Background(), a.ID, orgB); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("delete: expected NOT_FOUND, got %v", err)
	}
	if repo.items[a.ID].Title != "Private" {
		t.Error("record was mutated")
	}
}

func TestListAppointments_InvalidStatus(t *testing.T) {
	svc, _ := newTestService()
	if _, _, err := svc.ListAppointments(context.Background(), uuid.New(), Filter{Status: strPtr("nope")}, 20, 0); !apperr.Is(err, apperr.KindInvalid) {
		t.Errorf("expected INVALID, got %v", err)
	}
}

func TestCompletedByMonth(t *testing.T) {
	svc, repo := newTestService()
	orgID := uuid.New()
	patientID := repo.addPatient(orgID)
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, testLoc) }

	for _, d := range []string{"2023-10-05", "2024-01-10", "2024-03-01", "2024-03-02"} {
		_, err := svc.CreateAppointment(context.Background(), orgID, CreateInput{
			PatientID: patientID, Title: "Visit", Date: d, StartTime: "09:00", EndTime: "09:30", Status: StatusCompleted,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	_, _ = svc.CreateAppointment(context.Background(), orgID, CreateInput{
		PatientID: patientID, Title: "Pending", Date: "2024-03-03", StartTime: "09:00", EndTime: "09:30",
	})

	months, err := svc.CompletedByMonth(context.Background(), orgID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantSince := time.Date(2023, 10, 1, 0, 0, 0, 0, testLoc)
	if !repo.since.Equal(wantSince) {
		t.Errorf("expected query from %s, got %s", wantSince, repo.since)
	}
	counts := []int{1, 0, 0, 1, 0, 2}
	for i, m := range months {
		if m.Count != counts[i] {
			t.Errorf("bucket %d (%d-%02d): want %d, got %d", i, m.Year, m.Month, counts[i], m.Count)
		}
	}
}
