package examination

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/appointment"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/db"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/users"
)

// detailColumns is ordered like Details.targets.
var detailColumns = []string{
	"gestational_age_weeks",
	"bp_systolic", "bp_diastolic", "weight_kg", "temperature_c", "pulse_rate",
	"respiratory_rate", "fundal_height_cm", "fetal_heart_rate",
	"urine_protein", "urine_glucose", "oedema",
	"presentation", "lie", "problem_list", "delivery_plan", "admission_instructions", "notes",
	"next_appointment",
}

func (d *Details) targets() []interface{} {
	return []interface{}{
		&d.GestationalAgeWeeks,
		&d.BPSystolic, &d.BPDiastolic, &d.WeightKg, &d.TemperatureC, &d.PulseRate,
		&d.RespiratoryRate, &d.FundalHeightCm, &d.FetalHeartRate,
		&d.UrineProtein, &d.UrineGlucose, &d.Oedema,
		&d.Presentation, &d.Lie, &d.ProblemList, &d.DeliveryPlan, &d.AdmissionInstructions, &d.Notes,
		&d.NextAppointment,
	}
}

func (d *Details) values() []interface{} {
	return []interface{}{
		d.GestationalAgeWeeks,
		d.BPSystolic, d.BPDiastolic, d.WeightKg, d.TemperatureC, d.PulseRate,
		d.RespiratoryRate, d.FundalHeightCm, d.FetalHeartRate,
		d.UrineProtein, d.UrineGlucose, d.Oedema,
		d.Presentation, d.Lie, d.ProblemList, d.DeliveryPlan, d.AdmissionInstructions, d.Notes,
		d.NextAppointment,
	}
}

func (d *Details) assign(a *db.Assignments) {
	db.Optional(a, "gestational_age_weeks", d.GestationalAgeWeeks)
	db.Optional(a, "bp_systolic", d.BPSystolic)
	db.Optional(a, "bp_diastolic", d.BPDiastolic)
	db.Optional(a, "weight_kg", d.WeightKg)
	db.Optional(a, "temperature_c", d.TemperatureC)
	db.Optional(a, "pulse_rate", d.PulseRate)
	db.Optional(a, "respiratory_rate", d.RespiratoryRate)
	db.Optional(a, "fundal_height_cm", d.FundalHeightCm)
	db.Optional(a, "fetal_heart_rate", d.FetalHeartRate)
	db.Optional(a, "urine_protein", d.UrineProtein)
	db.Optional(a, "urine_glucose", d.UrineGlucose)
	db.Optional(a, "oedema", d.Oedema)
	db.Optional(a, "presentation", d.Presentation)
	db.Optional(a, "lie", d.Lie)
	db.Optional(a, "problem_list", d.ProblemList)
	db.Optional(a, "delivery_plan", d.DeliveryPlan)
	db.Optional(a, "admission_instructions", d.AdmissionInstructions)
	db.Optional(a, "notes", d.Notes)
	db.Optional(a, "next_appointment", d.NextAppointment)
}

func detailSelect() string {
	parts := make([]string, len(detailColumns))
	for i, c := range detailColumns {
		if c == "next_appointment" {
			parts[i] = "to_char(e.next_appointment, 'YYYY-MM-DD')"
		} else {
			parts[i] = "e." + c
		}
	}
	return strings.Join(parts, ", ")
}

var examinationSelect = fmt.Sprintf(`
	SELECT e.id, e.mother_id, m.custom_id, m.first_name, m.last_name, m.username,
	       e.provider_id, p.first_name, p.last_name, p.username,
	       to_char(e.visit_date, 'YYYY-MM-DD'), %s, e.status, e.created_at, e.updated_at
	FROM examinations e
	JOIN users m ON m.id = e.mother_id
	LEFT JOIN users p ON p.id = e.provider_id`, detailSelect())

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExamination(row rowScanner) (*Examination, error) {
	var e Examination
	var motherFirst, motherLast, motherUsername string
	var providerID sql.NullInt64
	var providerFirst, providerLast, providerUsername sql.NullString
	var updatedAt sql.NullTime

	dest := []interface{}{
		&e.ID, &e.MotherID, &e.MotherCustomID, &motherFirst, &motherLast, &motherUsername,
		&providerID, &providerFirst, &providerLast, &providerUsername,
		&e.VisitDate,
	}
	dest = append(dest, e.Details.targets()...)
	dest = append(dest, &e.Status, &e.CreatedAt, &updatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	e.MotherName = users.DisplayName(motherFirst, motherLast, motherUsername)
	if providerID.Valid {
		e.ProviderID = &providerID.Int64
		name := users.DisplayName(providerFirst.String, providerLast.String, providerUsername.String)
		e.ProviderName = &name
	}
	if updatedAt.Valid {
		e.UpdatedAt = &updatedAt.Time
	}
	e.RiskStatus = AssessRisk(e.Vitals)
	return &e, nil
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, motherID int64, providerID *int64, req CreateExaminationRequest) (*Examination, error) {
	placeholders := make([]string, len(detailColumns))
	for i := range detailColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+5)
	}
	query := fmt.Sprintf(`
		INSERT INTO examinations (mother_id, provider_id, visit_date, status, %s)
		VALUES ($1, $2, $3, $4, %s)
		RETURNING id
	`, strings.Join(detailColumns, ", "), strings.Join(placeholders, ", "))

	args := append([]interface{}{motherID, providerID, req.VisitDate, appointment.StatusPending}, req.Details.values()...)
	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to insert examination: %w", err)
	}
	return r.Get(ctx, motherID, id)
}

// List returns a mother's active examinations, most recent visit first.
func (r *Repository) List(ctx context.Context, motherID int64, limit, offset int) ([]Examination, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM examinations WHERE mother_id = $1 AND is_active = true
	`, motherID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count examinations: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, examinationSelect+`
		WHERE e.mother_id = $1 AND e.is_active = true
		ORDER BY e.visit_date DESC, e.id DESC
		LIMIT $2 OFFSET $3
	`, motherID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list examinations: %w", err)
	}
	defer rows.Close()

	exams := []Examination{}
	for rows.Next() {
		e, err := scanExamination(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan examination: %w", err)
		}
		exams = append(exams, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating examinations: %w", err)
	}
	return exams, total, nil
}

func (r *Repository) Get(ctx context.Context, motherID, id int64) (*Examination, error) {
	e, err := scanExamination(r.db.QueryRowContext(ctx, examinationSelect+`
		WHERE e.id = $1 AND e.mother_id = $2 AND e.is_active = true
	`, id, motherID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExaminationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get examination: %w", err)
	}
	return e, nil
}

// Latest returns the most recent active examination of a mother.
func (r *Repository) Latest(ctx context.Context, motherID int64) (*Examination, error) {
	e, err := scanExamination(r.db.QueryRowContext(ctx, examinationSelect+`
		WHERE e.mother_id = $1 AND e.is_active = true
		ORDER BY e.visit_date DESC, e.id DESC
		LIMIT 1
	`, motherID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExaminationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest examination: %w", err)
	}
	return e, nil
}

func (r *Repository) Update(ctx context.Context, motherID, id int64, req UpdateExaminationRequest) (*Examination, error) {
	var a db.Assignments
	db.Optional(&a, "visit_date", req.VisitDate)
	db.Optional(&a, "status", req.Status)
	req.Details.assign(&a)
	if a.Len() == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	a.SetRaw("updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE examinations SET %s WHERE id = %s AND mother_id = %s AND is_active = true`,
		a.Clause(), a.Arg(id), a.Arg(motherID))
	result, err := r.db.ExecContext(ctx, query, a.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to update examination: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrExaminationNotFound
	}
	return r.Get(ctx, motherID, id)
}

func (r *Repository) Delete(ctx context.Context, motherID, id int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE examinations SET is_active = false, updated_at = NOW()
		WHERE id = $1 AND mother_id = $2 AND is_active = true
	`, id, motherID)
	if err != nil {
		return fmt.Errorf("failed to delete examination: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrExaminationNotFound
	}
	return nil
}

// RepositoryInterface defines the contract for examination data access
type RepositoryInterface interface {
	Create(ctx context.Context, motherID int64, providerID *int64, req CreateExaminationRequest) (*Examination, error)
	List(ctx context.Context, motherID int64, limit, offset int) ([]Examination, int, error)
	Get(ctx context.Context, motherID, id int64) (*Examination, error)
	Latest(ctx context.Context, motherID int64) (*Examination, error)
	Update(ctx context.Context, motherID, id int64, req UpdateExaminationRequest) (*Examination, error)
	Delete(ctx context.Context, motherID, id int64) error
}

var _ RepositoryInterface = (*Repository)(nil)
