package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/db"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const customIDAttempts = 3

const userColumns = `id, auth_subject, username, email, first_name, last_name, phone_number, custom_id,
	role, designation, department, address, sex, is_active, created_by, created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var subject, email, phone, designation, department, address, sex sql.NullString
	var createdBy sql.NullInt64
	var updatedAt sql.NullTime
	var role string

	err := row.Scan(
		&u.ID,
		&subject,
		&u.Username,
		&email,
		&u.FirstName,
		&u.LastName,
		&phone,
		&u.CustomID,
		&role,
		&designation,
		&department,
		&address,
		&sex,
		&u.IsActive,
		&createdBy,
		&u.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.Role = Role(role)
	if subject.Valid {
		u.AuthSubject = &subject.String
	}
	u.Email = email.String
	u.PhoneNumber = phone.String
	u.Designation = designation.String
	u.Department = department.String
	u.Address = address.String
	u.Sex = sex.String
	if createdBy.Valid {
		u.CreatedBy = &createdBy.Int64
	}
	if updatedAt.Valid {
		u.UpdatedAt = &updatedAt.Time
	}
	return &u, nil
}

// Create inserts u in its own transaction, retrying when a concurrent insert
// claimed the same custom id.
func (r *Repository) Create(ctx context.Context, u *User) error {
	var err error
	for attempt := 1; attempt <= customIDAttempts; attempt++ {
		err = db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
			return r.CreateWith(ctx, tx, u)
		})
		if !errors.Is(err, errCustomIDConflict) {
			return err
		}
		log.Warn().Int("attempt", attempt).Str("role", string(u.Role)).Msg("custom id conflict, retrying")
	}
	return ErrCustomIDExhausted
}

var errCustomIDConflict = errors.New("custom id conflict")

// CreateWith inserts u using q, allocating the next custom id for its role.
// Callers running inside a transaction use this to keep related inserts atomic.
func (r *Repository) CreateWith(ctx context.Context, q db.Querier, u *User) error {
	prefix := u.Role.CustomIDPrefix()

	// serialise allocation per prefix for the lifetime of the transaction
	if _, err := q.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, prefix); err != nil {
		return fmt.Errorf("failed to lock custom id sequence: %w", err)
	}

	var maxExisting int
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(CAST(substring(custom_id from $1) AS INTEGER)), 0)
		FROM users
		WHERE custom_id LIKE $2
	`, "^"+prefix+"-([0-9]+)$", prefix+"-%").Scan(&maxExisting)
	if err != nil {
		return fmt.Errorf("failed to read highest custom id: %w", err)
	}
	u.CustomID = NextCustomID(prefix, maxExisting)

	err = q.QueryRowContext(ctx, `
		INSERT INTO users
		(auth_subject, username, email, first_name, last_name, phone_number, custom_id, role,
		 designation, department, address, sex, is_active, created_by)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, $8,
		 NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''), true, $13)
		RETURNING id, is_active, created_at
	`,
		u.AuthSubject,
		u.Username,
		u.Email,
		u.FirstName,
		u.LastName,
		u.PhoneNumber,
		u.CustomID,
		string(u.Role),
		u.Designation,
		u.Department,
		u.Address,
		u.Sex,
		u.CreatedBy,
	).Scan(&u.ID, &u.IsActive, &u.CreatedAt)
	if err != nil {
		switch db.ViolatedConstraint(err) {
		case "":
		case "users_custom_id_key":
			return errCustomIDConflict
		default:
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	log.Info().Int64("user_id", u.ID).Str("custom_id", u.CustomID).Str("role", string(u.Role)).Msg("user created")
	return nil
}

func (r *Repository) getOne(ctx context.Context, where string, arg interface{}) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *Repository) GetByCustomID(ctx context.Context, customID string) (*User, error) {
	return r.getOne(ctx, "custom_id = $1", customID)
}

func (r *Repository) GetBySubject(ctx context.Context, subject string) (*User, error) {
	return r.getOne(ctx, "auth_subject = $1", subject)
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getOne(ctx, "lower(username) = lower($1)", username)
}

// LinkSubject records the identity provider subject for a local user.
func (r *Repository) LinkSubject(ctx context.Context, id int64, subject string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET auth_subject = $1, updated_at = NOW()
		WHERE id = $2 AND (auth_subject IS NULL OR auth_subject = $1)
	`, subject, id)
	if err != nil {
		return fmt.Errorf("failed to link subject: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// List returns one page of users matching f and the total match count.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]User, int, error) {
	var conds []string
	var args []interface{}

	if f.Role != "" {
		args = append(args, string(f.Role))
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d OR username ILIKE $%[1]d
			OR email ILIKE $%[1]d OR custom_id ILIKE $%[1]d OR phone_number ILIKE $%[1]d)`, n))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}
	return users, total, nil
}

// ListActiveIDs returns the ids of every active user holding one of roles.
func (r *Repository) ListActiveIDs(ctx context.Context, roles ...Role) ([]int64, error) {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM users WHERE is_active = true AND role = ANY($1) ORDER BY id
	`, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	return r.UpdateWith(ctx, r.db, id, req)
}

// UpdateWith applies the non-nil fields of req using q.
func (r *Repository) UpdateWith(ctx context.Context, q db.Querier, id int64, req UpdateUserRequest) (*User, error) {
	var a db.Assignments
	db.Optional(&a, "email", req.Email)
	db.Optional(&a, "first_name", req.FirstName)
	db.Optional(&a, "last_name", req.LastName)
	db.Optional(&a, "phone_number", req.PhoneNumber)
	db.Optional(&a, "designation", req.Designation)
	db.Optional(&a, "department", req.Department)
	db.Optional(&a, "address", req.Address)
	db.Optional(&a, "sex", req.Sex)
	db.Optional(&a, "is_active", req.IsActive)
	if a.Len() == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	a.SetRaw("updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = %s RETURNING %s`, a.Clause(), a.Arg(id), userColumns)
	u, err := scanUser(q.QueryRowContext(ctx, query, a.Args()...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// Deactivate soft deletes the user.
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET is_active = false, updated_at = NOW()
		WHERE id = $1 AND is_active = true
	`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}
