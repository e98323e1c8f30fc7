package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/users"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const appointmentSelect = `
	SELECT a.id, a.patient_id, pt.custom_id, pt.first_name, pt.last_name, pt.username,
	       a.provider_id, pr.first_name, pr.last_name, pr.username,
	       a.appointment_type, a.appointment_date, a.notes, a.status, a.created_by, a.created_at
	FROM appointments a
	JOIN users pt ON pt.id = a.patient_id
	LEFT JOIN users pr ON pr.id = a.provider_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*Appointment, error) {
	var a Appointment
	var providerID, createdBy sql.NullInt64
	var providerFirst, providerLast, providerUsername, notes sql.NullString

	err := row.Scan(
		&a.ID, &a.PatientID, &a.PatientCustomID, &a.Patient.FirstName, &a.Patient.LastName, &a.Patient.Username,
		&providerID, &providerFirst, &providerLast, &providerUsername,
		&a.AppointmentType, &a.AppointmentDate, &notes, &a.Status, &createdBy, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if providerID.Valid {
		a.ProviderID = &providerID.Int64
		a.Provider = &users.Person{FirstName: providerFirst.String, LastName: providerLast.String, Username: providerUsername.String}
	}
	if notes.Valid {
		a.Notes = &notes.String
	}
	if createdBy.Valid {
		a.CreatedBy = &createdBy.Int64
	}
	a.resolveNames(users.DefaultNameChain)
	return &a, nil
}

func (r *Repository) queryAppointments(ctx context.Context, query string, args ...interface{}) ([]Appointment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	appointments := []Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointments: %w", err)
	}
	return appointments, nil
}

func (r *Repository) Create(ctx context.Context, a *Appointment) (*Appointment, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO appointments (patient_id, provider_id, appointment_type, appointment_date, notes, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, a.PatientID, a.ProviderID, a.AppointmentType, a.AppointmentDate, a.Notes, StatusPending, a.CreatedBy).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert appointment: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Get(ctx context.Context, id int64) (*Appointment, error) {
	a, err := scanAppointment(r.db.QueryRowContext(ctx, appointmentSelect+` WHERE a.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return a, nil
}

// List returns appointments latest first, searching type and both names.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]Appointment, int, error) {
	where := ""
	args := []interface{}{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = ` WHERE (a.appointment_type ILIKE $1
			OR pt.first_name ILIKE $1 OR pt.last_name ILIKE $1 OR pt.custom_id ILIKE $1
			OR pr.first_name ILIKE $1 OR pr.last_name ILIKE $1)`
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM appointments a
		JOIN users pt ON pt.id = a.patient_id
		LEFT JOIN users pr ON pr.id = a.provider_id` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	query := appointmentSelect + where + fmt.Sprintf(` ORDER BY a.appointment_date DESC, a.id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)
	appointments, err := r.queryAppointments(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

// Recent returns the limit latest appointments by date.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Appointment, error) {
	return r.queryAppointments(ctx, appointmentSelect+` ORDER BY a.appointment_date DESC, a.id DESC LIMIT $1`, limit)
}

// ListByPatient returns every appointment of one patient, or of everyone when patientID is nil.
func (r *Repository) ListByPatient(ctx context.Context, patientID *int64) ([]Appointment, error) {
	if patientID == nil {
		return r.queryAppointments(ctx, appointmentSelect+` ORDER BY a.id`)
	}
	return r.queryAppointments(ctx, appointmentSelect+` WHERE a.patient_id = $1 ORDER BY a.id`, *patientID)
}

// ScheduledExaminations returns active examinations with a next appointment,
// for one mother or for everyone when motherID is nil.
func (r *Repository) ScheduledExaminations(ctx context.Context, motherID *int64) ([]ScheduledExamination, error) {
	query := `
		SELECT e.id, e.mother_id, m.first_name, m.last_name, m.username,
		       e.provider_id, p.first_name, p.last_name, p.username,
		       to_char(e.next_appointment, 'YYYY-MM-DD'), e.notes, e.status, e.created_at
		FROM examinations e
		JOIN users m ON m.id = e.mother_id
		LEFT JOIN users p ON p.id = e.provider_id
		WHERE e.is_active = true AND e.next_appointment IS NOT NULL`
	args := []interface{}{}
	if motherID != nil {
		query += ` AND e.mother_id = $1`
		args = append(args, *motherID)
	}
	query += ` ORDER BY e.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled examinations: %w", err)
	}
	defer rows.Close()

	exams := []ScheduledExamination{}
	for rows.Next() {
		var e ScheduledExamination
		var providerID sql.NullInt64
		var providerFirst, providerLast, providerUsername, notes sql.NullString
		if err := rows.Scan(
			&e.ID, &e.MotherID, &e.Mother.FirstName, &e.Mother.LastName, &e.Mother.Username,
			&providerID, &providerFirst, &providerLast, &providerUsername,
			&e.NextAppointment, &notes, &e.Status, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan scheduled examination: %w", err)
		}
		if providerID.Valid {
			e.Provider = &users.Person{FirstName: providerFirst.String, LastName: providerLast.String, Username: providerUsername.String}
		}
		if notes.Valid {
			e.Notes = &notes.String
		}
		exams = append(exams, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scheduled examinations: %w", err)
	}
	return exams, nil
}

// SetStatus changes only the status column of the row in the table named by source.
func (r *Repository) SetStatus(ctx context.Context, source Source, id int64, status Status) error {
	var query string
	switch source {
	case SourceAdmin:
		query = `UPDATE appointments SET status = $1 WHERE id = $2`
	case SourceProvider:
		query = `UPDATE examinations SET status = $1, updated_at = NOW() WHERE id = $2 AND is_active = true`
	default:
		return ErrInvalidSource
	}

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update %s appointment status: %w", source, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
