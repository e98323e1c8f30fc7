package reminder

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/db"
)

// Repository reads due visits and records dedupe markers.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Due lists active examinations of active mothers whose next appointment is
// on date and that have no marker of kind yet.
func (r *Repository) Due(ctx context.Context, date string, kind Kind) ([]Due, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.mother_id, m.phone_number, to_char(e.next_appointment, 'YYYY-MM-DD')
		FROM examinations e
		JOIN users m ON m.id = e.mother_id
		WHERE e.is_active = true
		AND m.is_active = true
		AND e.next_appointment = $1::date
		AND NOT EXISTS (
			SELECT 1 FROM reminder_markers rm
			WHERE rm.exam_id = e.id AND rm.kind = $2
		)
		ORDER BY e.id
	`, date, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()

	var due []Due
	for rows.Next() {
		d := Due{Kind: kind}
		var phone sql.NullString
		if err := rows.Scan(&d.ExaminationID, &d.MotherID, &phone, &d.VisitDate); err != nil {
			return nil, fmt.Errorf("failed to scan due reminder: %w", err)
		}
		d.Phone = phone.String
		due = append(due, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due reminders: %w", err)
	}
	return due, nil
}

// Deliver runs send and the marker insert in one transaction. A unique
// violation on the marker rolls everything back and yields ErrAlreadySent.
func (r *Repository) Deliver(ctx context.Context, d Due, send func(ctx context.Context, q db.Querier) error) error {
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := send(ctx, tx); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO reminder_markers (exam_id, kind) VALUES ($1, $2)
		`, d.ExaminationID, string(d.Kind))
		if db.IsUniqueViolation(err) {
			return ErrAlreadySent
		}
		if err != nil {
			return fmt.Errorf("failed to insert reminder marker: %w", err)
		}
		return nil
	})
}
