package mothers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/db"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/users"
)

// AccountWriter creates and updates the user row behind a mother.
type AccountWriter interface {
	CreateWith(ctx context.Context, q db.Querier, u *users.User) error
	UpdateWith(ctx context.Context, q db.Querier, id int64, req users.UpdateUserRequest) (*users.User, error)
}

type Repository struct {
	db       *sql.DB
	accounts AccountWriter
}

func NewRepository(db *sql.DB, accounts AccountWriter) *Repository {
	return &Repository{db: db, accounts: accounts}
}

const motherSelect = `
	SELECT u.id, u.custom_id, u.username, u.first_name, u.last_name, u.email, u.phone_number, u.address,
		u.is_active, u.created_by, u.created_at, u.updated_at,
		to_char(p.date_of_birth, 'YYYY-MM-DD'), p.religion, p.ethnic_group, p.marital_status, p.education_level, p.occupation,
		p.nok_name, p.nok_relationship, p.nok_address, p.nok_phone, p.nok_occupation, p.nok_education_level
	FROM users u
	LEFT JOIN mother_profiles p ON p.user_id = u.id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMother(row rowScanner) (*Mother, error) {
	var m Mother
	var email, phone, address sql.NullString
	var createdBy sql.NullInt64
	var updatedAt sql.NullTime
	var dob, religion, ethnic, marital, education, occupation sql.NullString
	var nokName, nokRel, nokAddr, nokPhone, nokOcc, nokEdu sql.NullString

	err := row.Scan(
		&m.ID, &m.CustomID, &m.Username, &m.FirstName, &m.LastName, &email, &phone, &address,
		&m.IsActive, &createdBy, &m.CreatedAt, &updatedAt,
		&dob, &religion, &ethnic, &marital, &education, &occupation,
		&nokName, &nokRel, &nokAddr, &nokPhone, &nokOcc, &nokEdu,
	)
	if err != nil {
		return nil, err
	}

	m.Name = users.DisplayName(m.FirstName, m.LastName, m.Username)
	m.Email = email.String
	m.PhoneNumber = phone.String
	m.Address = address.String
	if createdBy.Valid {
		m.CreatedBy = &createdBy.Int64
	}
	if updatedAt.Valid {
		m.UpdatedAt = &updatedAt.Time
	}
	if dob.Valid {
		m.DateOfBirth = &dob.String
	}
	m.Religion = religion.String
	m.EthnicGroup = ethnic.String
	m.MaritalStatus = marital.String
	m.EducationLevel = education.String
	m.Occupation = occupation.String
	m.NextOfKin = NextOfKin{
		Name:           nokName.String,
		Relationship:   nokRel.String,
		Address:        nokAddr.String,
		PhoneNumber:    nokPhone.String,
		Occupation:     nokOcc.String,
		EducationLevel: nokEdu.String,
	}
	return &m, nil
}

// Create inserts the account and profile in one transaction.
func (r *Repository) Create(ctx context.Context, req CreateMotherRequest, createdBy *int64) (*Mother, error) {
	var id int64
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		u := &users.User{
			Username:    req.Username,
			Email:       req.Email,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			PhoneNumber: req.PhoneNumber,
			Address:     req.Address,
			Role:        users.RoleMother,
			Sex:         "female",
			CreatedBy:   createdBy,
		}
		if err := r.accounts.CreateWith(ctx, tx, u); err != nil {
			return err
		}
		id = u.ID

		_, err := tx.ExecContext(ctx, `
			INSERT INTO mother_profiles
			(user_id, date_of_birth, religion, ethnic_group, marital_status, education_level, occupation,
			 nok_name, nok_relationship, nok_address, nok_phone, nok_occupation, nok_education_level)
			VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
			 NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''), NULLIF($13, ''))
		`,
			id,
			req.DateOfBirth,
			req.Religion,
			req.EthnicGroup,
			req.MaritalStatus,
			req.EducationLevel,
			req.Occupation,
			req.NextOfKin.Name,
			req.NextOfKin.Relationship,
			req.NextOfKin.Address,
			req.NextOfKin.PhoneNumber,
			req.NextOfKin.Occupation,
			req.NextOfKin.EducationLevel,
		)
		if err != nil {
			return fmt.Errorf("failed to insert mother profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// List returns active mothers matching f, newest registrations first.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]Mother, int, error) {
	conds := []string{"u.role = 'mother'", "u.is_active = true"}
	var args []interface{}

	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		conds = append(conds, fmt.Sprintf(`(u.first_name ILIKE $%[1]d OR u.last_name ILIKE $%[1]d OR u.custom_id ILIKE $%[1]d
			OR u.phone_number ILIKE $%[1]d OR u.username ILIKE $%[1]d)`, len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("u.created_at::date >= $%d::date", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("u.created_at::date <= $%d::date", len(args)))
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users u`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count mothers: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf("%s%s ORDER BY u.created_at DESC, u.id DESC LIMIT $%d OFFSET $%d", motherSelect, where, len(args)-1, len(args))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list mothers: %w", err)
	}
	defer rows.Close()

	mothers := []Mother{}
	for rows.Next() {
		m, err := scanMother(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan mother: %w", err)
		}
		mothers = append(mothers, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating mothers: %w", err)
	}
	return mothers, total, nil
}

func (r *Repository) getOne(ctx context.Context, where string, arg interface{}) (*Mother, error) {
	m, err := scanMother(r.db.QueryRowContext(ctx, motherSelect+" WHERE u.role = 'mother' AND u.is_active = true AND "+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMotherNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mother: %w", err)
	}
	return m, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Mother, error) {
	return r.getOne(ctx, "u.id = $1", id)
}

func (r *Repository) GetByCustomID(ctx context.Context, customID string) (*Mother, error) {
	return r.getOne(ctx, "u.custom_id = $1", customID)
}

// Update applies account and profile changes atomically.
func (r *Repository) Update(ctx context.Context, id int64, req UpdateMotherRequest) (*Mother, error) {
	account := users.UpdateUserRequest{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}

	var profile db.Assignments
	db.Optional(&profile, "date_of_birth", req.DateOfBirth)
	db.Optional(&profile, "religion", req.Religion)
	db.Optional(&profile, "ethnic_group", req.EthnicGroup)
	db.Optional(&profile, "marital_status", req.MaritalStatus)
	db.Optional(&profile, "education_level", req.EducationLevel)
	db.Optional(&profile, "occupation", req.Occupation)
	db.Optional(&profile, "nok_name", req.NextOfKinName)
	db.Optional(&profile, "nok_relationship", req.NextOfKinRelationship)
	db.Optional(&profile, "nok_address", req.NextOfKinAddress)
	db.Optional(&profile, "nok_phone", req.NextOfKinPhone)
	db.Optional(&profile, "nok_occupation", req.NextOfKinOccupation)
	db.Optional(&profile, "nok_education_level", req.NextOfKinEducationLevel)

	accountChanged := account.FirstName != nil || account.LastName != nil || account.Email != nil ||
		account.PhoneNumber != nil || account.Address != nil
	if !accountChanged && profile.Len() == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if accountChanged {
			if _, err := r.accounts.UpdateWith(ctx, tx, id, account); err != nil {
				if errors.Is(err, users.ErrUserNotFound) {
					return ErrMotherNotFound
				}
				return err
			}
		}
		if profile.Len() == 0 {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO mother_profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, id); err != nil {
			return fmt.Errorf("failed to initialise mother profile: %w", err)
		}
		profile.SetRaw("updated_at = NOW()")
		query := fmt.Sprintf(`UPDATE mother_profiles SET %s WHERE user_id = %s`, profile.Clause(), profile.Arg(id))
		if _, err := tx.ExecContext(ctx, query, profile.Args()...); err != nil {
			return fmt.Errorf("failed to update mother profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete soft deletes the mother's account.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET is_active = false, updated_at = NOW()
		WHERE id = $1 AND role = 'mother' AND is_active = true
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete mother: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrMotherNotFound
	}
	return nil
}
