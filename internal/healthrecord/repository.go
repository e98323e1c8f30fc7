package healthrecord

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/db"
)

type column struct {
	name string
	date bool
}

// recordColumns is ordered like the fields of Fields.
var recordColumns = []column{
	{"blood_group", false}, {"genotype", false}, {"height_cm", false}, {"allergies", false},
	{"chronic_conditions", false}, {"gravidity", false}, {"parity", false}, {"lmp", true}, {"edd", true},
	{"medications", false}, {"family_planning", false}, {"previous_illness", false}, {"previous_surgery", false},
	{"family_history", false}, {"infertility_status", false}, {"father_blood_group", false},
	{"mother_rhesus", false}, {"father_rhesus", false}, {"hepatitis_b_status", false}, {"vdrl_status", false},
	{"rvs_status", false}, {"hb_booking", false}, {"hb_28_weeks", false}, {"hb_36_weeks", false},
	{"ultrasound1_date", true}, {"ultrasound1_result", false}, {"ultrasound2_date", true},
	{"ultrasound2_result", false}, {"pap_smear_date", true}, {"pap_smear_comments", false},
}

func (f *Fields) targets() []interface{} {
	return []interface{}{
		&f.BloodGroup, &f.Genotype, &f.HeightCm, &f.Allergies,
		&f.ChronicConditions, &f.Gravidity, &f.Parity, &f.LMP, &f.EDD,
		&f.Medications, &f.FamilyPlanning, &f.PreviousIllness, &f.PreviousSurgery,
		&f.FamilyHistory, &f.InfertilityStatus, &f.FatherBloodGroup,
		&f.MotherRhesus, &f.FatherRhesus, &f.HepatitisBStatus, &f.VDRLStatus,
		&f.RVSStatus, &f.HbBooking, &f.Hb28Weeks, &f.Hb36Weeks,
		&f.Ultrasound1Date, &f.Ultrasound1Result, &f.Ultrasound2Date,
		&f.Ultrasound2Result, &f.PapSmearDate, &f.PapSmearComments,
	}
}

func (f *Fields) values() []interface{} {
	targets := f.targets()
	values := make([]interface{}, len(targets))
	for i, t := range targets {
		switch p := t.(type) {
		case **string:
			values[i] = *p
		case **float64:
			values[i] = *p
		case **int:
			values[i] = *p
		}
	}
	return values
}

func selectList(cols []column, alias string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		if c.date {
			parts[i] = fmt.Sprintf("to_char(%s.%s, 'YYYY-MM-DD')", alias, c.name)
		} else {
			parts[i] = alias + "." + c.name
		}
	}
	return strings.Join(parts, ", ")
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanRecord(row *sql.Row) (*HealthRecord, error) {
	var rec HealthRecord
	var updatedAt sql.NullTime
	dest := append([]interface{}{&rec.ID, &rec.MotherID}, rec.Fields.targets()...)
	dest = append(dest, &rec.CreatedAt, &updatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		rec.UpdatedAt = &updatedAt.Time
	}
	return &rec, nil
}

func (r *Repository) Get(ctx context.Context, motherID int64) (*HealthRecord, error) {
	query := fmt.Sprintf(`
		SELECT h.id, h.mother_id, %s, h.created_at, h.updated_at
		FROM health_records h
		WHERE h.mother_id = $1 AND h.is_active = true
	`, selectList(recordColumns, "h"))

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, motherID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get health record: %w", err)
	}
	return rec, nil
}

// Save replaces every field of the mother's active record, creating it if needed.
func (r *Repository) Save(ctx context.Context, motherID int64, f Fields) (*HealthRecord, error) {
	names := make([]string, len(recordColumns))
	placeholders := make([]string, len(recordColumns))
	updates := make([]string, len(recordColumns))
	for i, c := range recordColumns {
		names[i] = c.name
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		updates[i] = fmt.Sprintf("%s = EXCLUDED.%s", c.name, c.name)
	}

	query := fmt.Sprintf(`
		INSERT INTO health_records AS h (mother_id, %s)
		VALUES ($1, %s)
		ON CONFLICT (mother_id) WHERE is_active
		DO UPDATE SET %s, updated_at = NOW()
		RETURNING h.id, h.mother_id, %s, h.created_at, h.updated_at
	`, strings.Join(names, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "), selectList(recordColumns, "h"))

	args := append([]interface{}{motherID}, f.values()...)
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to save health record: %w", err)
	}
	return rec, nil
}

var pregnancyColumns = []column{
	{"year", false}, {"place_of_birth", false}, {"gestation_weeks", false}, {"mode_of_delivery", false},
	{"labour_duration", false}, {"outcome", false}, {"birth_weight_kg", false}, {"complications", false},
}

func (f *PregnancyFields) targets() []interface{} {
	return []interface{}{
		&f.Year, &f.PlaceOfBirth, &f.GestationWeeks, &f.ModeOfDelivery,
		&f.LabourDuration, &f.Outcome, &f.BirthWeightKg, &f.Complications,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPregnancy(row rowScanner) (*Pregnancy, error) {
	var p Pregnancy
	var updatedAt sql.NullTime
	dest := append([]interface{}{&p.ID, &p.MotherID}, p.PregnancyFields.targets()...)
	dest = append(dest, &p.CreatedAt, &updatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}
	return &p, nil
}

var pregnancySelect = fmt.Sprintf(`SELECT p.id, p.mother_id, %s, p.created_at, p.updated_at FROM previous_pregnancies p`,
	selectList(pregnancyColumns, "p"))

func (r *Repository) ListPregnancies(ctx context.Context, motherID int64) ([]Pregnancy, error) {
	rows, err := r.db.QueryContext(ctx, pregnancySelect+`
		WHERE p.mother_id = $1 AND p.is_active = true
		ORDER BY p.year DESC NULLS LAST, p.id DESC
	`, motherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pregnancies: %w", err)
	}
	defer rows.Close()

	pregnancies := []Pregnancy{}
	for rows.Next() {
		p, err := scanPregnancy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pregnancy: %w", err)
		}
		pregnancies = append(pregnancies, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pregnancies: %w", err)
	}
	return pregnancies, nil
}

func (r *Repository) CreatePregnancy(ctx context.Context, motherID int64, f PregnancyFields) (*Pregnancy, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO previous_pregnancies
		(mother_id, year, place_of_birth, gestation_weeks, mode_of_delivery, labour_duration, outcome, birth_weight_kg, complications)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, motherID, f.Year, f.PlaceOfBirth, f.GestationWeeks, f.ModeOfDelivery, f.LabourDuration, f.Outcome, f.BirthWeightKg, f.Complications).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert pregnancy: %w", err)
	}
	return r.GetPregnancy(ctx, motherID, id)
}

func (r *Repository) GetPregnancy(ctx context.Context, motherID, id int64) (*Pregnancy, error) {
	p, err := scanPregnancy(r.db.QueryRowContext(ctx, pregnancySelect+`
		WHERE p.id = $1 AND p.mother_id = $2 AND p.is_active = true
	`, id, motherID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPregnancyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pregnancy: %w", err)
	}
	return p, nil
}

func (r *Repository) UpdatePregnancy(ctx context.Context, motherID, id int64, f PregnancyFields) (*Pregnancy, error) {
	var a db.Assignments
	db.Optional(&a, "year", f.Year)
	db.Optional(&a, "place_of_birth", f.PlaceOfBirth)
	db.Optional(&a, "gestation_weeks", f.GestationWeeks)
	db.Optional(&a, "mode_of_delivery", f.ModeOfDelivery)
	db.Optional(&a, "labour_duration", f.LabourDuration)
	db.Optional(&a, "outcome", f.Outcome)
	db.Optional(&a, "birth_weight_kg", f.BirthWeightKg)
	db.Optional(&a, "complications", f.Complications)
	if a.Len() == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	a.SetRaw("updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE previous_pregnancies SET %s WHERE id = %s AND mother_id = %s AND is_active = true`,
		a.Clause(), a.Arg(id), a.Arg(motherID))
	result, err := r.db.ExecContext(ctx, query, a.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to update pregnancy: %w", err)
	}
	if rows, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	} else if rows == 0 {
		return nil, ErrPregnancyNotFound
	}
	return r.GetPregnancy(ctx, motherID, id)
}

func (r *Repository) DeletePregnancy(ctx context.Context, motherID, id int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE previous_pregnancies SET is_active = false, updated_at = NOW()
		WHERE id = $1 AND mother_id = $2 AND is_active = true
	`, id, motherID)
	if err != nil {
		return fmt.Errorf("failed to delete pregnancy: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrPregnancyNotFound
	}
	return nil
}

// RepositoryInterface defines the contract for health record data access
type RepositoryInterface interface {
	Get(ctx context.Context, motherID int64) (*HealthRecord, error)
	Save(ctx context.Context, motherID int64, f Fields) (*HealthRecord, error)
	ListPregnancies(ctx context.Context, motherID int64) ([]Pregnancy, error)
	CreatePregnancy(ctx context.Context, motherID int64, f PregnancyFields) (*Pregnancy, error)
	GetPregnancy(ctx context.Context, motherID, id int64) (*Pregnancy, error)
	UpdatePregnancy(ctx context.Context, motherID, id int64, f PregnancyFields) (*Pregnancy, error)
	DeletePregnancy(ctx context.Context, motherID, id int64) error
}

var _ RepositoryInterface = (*Repository)(nil)
