package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/db"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const settingsColumns = `reminder_time_in_hours, allow_mother_reschedule, timezone, notify_email, notify_sms, updated_at`

func scanSettings(row *sql.Row) (*Settings, error) {
	var s Settings
	var updatedAt sql.NullTime
	if err := row.Scan(&s.ReminderTimeInHours, &s.AllowMotherReschedule, &s.Timezone, &s.NotifyEmail, &s.NotifySMS, &updatedAt); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		s.UpdatedAt = &updatedAt.Time
	}
	return &s, nil
}

// Get returns the settings row, or Defaults when it has never been written.
func (r *Repository) Get(ctx context.Context) (*Settings, error) {
	s, err := scanSettings(r.db.QueryRowContext(ctx, `SELECT `+settingsColumns+` FROM system_settings WHERE id = 1`))
	if errors.Is(err, sql.ErrNoRows) {
		d := Defaults()
		return &d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

// Update writes the non-nil fields, creating the row on first write.
func (r *Repository) Update(ctx context.Context, req UpdateSettingsRequest) (*Settings, error) {
	if _, err := r.db.ExecContext(ctx, `INSERT INTO system_settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`); err != nil {
		return nil, fmt.Errorf("failed to initialise settings: %w", err)
	}

	var a db.Assignments
	db.Optional(&a, "reminder_time_in_hours", req.ReminderTimeInHours)
	db.Optional(&a, "allow_mother_reschedule", req.AllowMotherReschedule)
	db.Optional(&a, "timezone", req.Timezone)
	db.Optional(&a, "notify_email", req.NotifyEmail)
	db.Optional(&a, "notify_sms", req.NotifySMS)
	a.SetRaw("updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE system_settings SET %s WHERE id = 1 RETURNING %s`, a.Clause(), settingsColumns)
	s, err := scanSettings(r.db.QueryRowContext(ctx, query, a.Args()...))
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return s, nil
}
