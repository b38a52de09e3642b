package scheduling

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/db"
)

const appointmentsTable = "appointments"

var appointmentCols = []string{"id", "organization_id", "patient_id", "title", "notes",
	"start_at", "end_at", "status", "created_at", "updated_at"}

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.OrganizationID, &a.PatientID, &a.Title, &a.Notes,
		&a.StartAt, &a.EndAt, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, db.MapError(err, "appointment")
	}
	return &a, nil
}

func (f Filter) apply(b sq.SelectBuilder) sq.SelectBuilder {
	if f.PatientID != nil {
		b = b.Where(sq.Eq{"patient_id": *f.PatientID})
	}
	if f.Status != nil {
		b = b.Where(sq.Eq{"status": *f.Status})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"start_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.Lt{"start_at": *f.To})
	}
	return b
}

func (r *appointmentRepoPG) List(ctx context.Context, orgID uuid.UUID, f Filter, limit, offset int) ([]*Appointment, int, error) {
	total, err := db.Count(ctx, r.conn(ctx), f.apply(db.ScopedCount(appointmentsTable, orgID)))
	if err != nil {
		return nil, 0, db.MapError(err, "appointment")
	}

	q := f.apply(db.ScopedSelect(appointmentsTable, orgID, appointmentCols...)).
		OrderBy("start_at ASC", "id ASC")
	q = db.Page(q, limit, offset)
	rows, err := db.Query(ctx, r.conn(ctx), q)
	if err != nil {
		return nil, 0, db.MapError(err, "appointment")
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, db.MapError(rows.Err(), "appointment")
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id, orgID uuid.UUID) (*Appointment, error) {
	q := db.ScopedSelect(appointmentsTable, orgID, appointmentCols...).Where(sq.Eq{"id": id})
	return scanAppointment(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *appointmentRepoPG) Create(ctx context.Context, orgID uuid.UUID, a *Appointment) error {
	a.ID = uuid.New()
	a.OrganizationID = orgID
	q := db.SQL.Insert(appointmentsTable).
		Columns("id", "organization_id", "patient_id", "title", "notes", "start_at", "end_at", "status").
		Values(a.ID, orgID, a.PatientID, a.Title, a.Notes, a.StartAt, a.EndAt, a.Status).
		Suffix("RETURNING created_at, updated_at")
	if err := db.QueryRow(ctx, r.conn(ctx), q).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return db.MapError(err, "appointment")
	}
	return nil
}

func (r *appointmentRepoPG) Update(ctx context.Context, id, orgID uuid.UUID, ch Changes) (*Appointment, error) {
	set := ch.setMap()
	if len(set) == 0 {
		return r.GetByID(ctx, id, orgID)
	}
	set["updated_at"] = sq.Expr("NOW()")
	q := db.ScopedUpdate(appointmentsTable, orgID).SetMap(set).Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(appointmentCols, ", "))
	return scanAppointment(db.QueryRow(ctx, r.conn(ctx), q))
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id, orgID uuid.UUID) error {
	tag, err := db.Exec(ctx, r.conn(ctx), db.ScopedDelete(appointmentsTable, orgID).Where(sq.Eq{"id": id}))
	if err != nil {
		return db.MapError(err, "appointment")
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows, "appointment")
	}
	return nil
}

func (r *appointmentRepoPG) CompletedStartsSince(ctx context.Context, orgID uuid.UUID, since time.Time) ([]time.Time, error) {
	q := db.ScopedSelect(appointmentsTable, orgID, "start_at").
		Where(sq.Eq{"status": StatusCompleted}).
		Where(sq.GtOrEq{"start_at": since})
	rows, err := db.Query(ctx, r.conn(ctx), q)
	if err != nil {
		return nil, db.MapError(err, "appointment")
	}
	starts, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, db.MapError(err, "appointment")
	}
	return starts, nil
}
