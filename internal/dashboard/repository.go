package dashboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/users"
)

// RepositoryInterface defines the read-only queries behind the dashboards.
// Dates are YYYY-MM-DD strings already resolved in the clinic time zone.
type RepositoryInterface interface {
	ProviderMetrics(ctx context.Context, today, weekEnd string) (ProviderMetrics, error)
	UpcomingVisits(ctx context.Context, today string, limit int) ([]Visit, error)
	RecentVisits(ctx context.Context, limit int) ([]Visit, error)
	RecentMothers(ctx context.Context, limit int) ([]RecentMother, error)
	NextVisit(ctx context.Context, motherID int64, today string) (*NextVisit, error)
	Totals(ctx context.Context) (AdminDashboard, error)
}

var _ RepositoryInterface = (*Repository)(nil)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ProviderMetrics(ctx context.Context, today, weekEnd string) (ProviderMetrics, error) {
	var m ProviderMetrics
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'mother' AND is_active = true),
			COUNT(*) FILTER (WHERE next_appointment = $1::date),
			COUNT(*) FILTER (WHERE next_appointment > $1::date AND next_appointment <= $2::date),
			COUNT(*) FILTER (WHERE next_appointment < $1::date)
		FROM examinations
		WHERE is_active = true
	`, today, weekEnd).Scan(&m.TotalMothers, &m.UpcomingToday, &m.UpcomingWeek, &m.Missed)
	if err != nil {
		return m, fmt.Errorf("failed to compute provider metrics: %w", err)
	}
	return m, nil
}

const visitSelect = `
	SELECT e.id, m.custom_id, m.first_name, m.last_name, m.username,
		p.first_name, p.last_name, p.username,
		to_char(e.visit_date, 'YYYY-MM-DD'), to_char(e.next_appointment, 'YYYY-MM-DD'), e.status
	FROM examinations e
	JOIN users m ON m.id = e.mother_id
	LEFT JOIN users p ON p.id = e.provider_id
	WHERE e.is_active = true
`

func (r *Repository) queryVisits(ctx context.Context, query string, args ...interface{}) ([]Visit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	defer rows.Close()

	visits := []Visit{}
	for rows.Next() {
		var v Visit
		var mFirst, mLast, mUser string
		var pFirst, pLast, pUser sql.NullString
		var next sql.NullString
		if err := rows.Scan(&v.ID, &v.MotherCustomID, &mFirst, &mLast, &mUser,
			&pFirst, &pLast, &pUser, &v.VisitDate, &next, &v.Status); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		v.MotherName = users.DisplayName(mFirst, mLast, mUser)
		if pUser.Valid {
			name := users.DisplayName(pFirst.String, pLast.String, pUser.String)
			v.ProviderName = &name
		}
		if next.Valid {
			v.NextAppointment = &next.String
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visits: %w", err)
	}
	return visits, nil
}

func (r *Repository) UpcomingVisits(ctx context.Context, today string, limit int) ([]Visit, error) {
	return r.queryVisits(ctx, visitSelect+`
		AND e.next_appointment >= $1::date
		ORDER BY e.next_appointment ASC, e.id ASC
		LIMIT $2
	`, today, limit)
}

func (r *Repository) RecentVisits(ctx context.Context, limit int) ([]Visit, error) {
	return r.queryVisits(ctx, visitSelect+`
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT $1
	`, limit)
}

func (r *Repository) RecentMothers(ctx context.Context, limit int) ([]RecentMother, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, custom_id, first_name, last_name, username, COALESCE(phone_number, ''), created_at
		FROM users
		WHERE role = 'mother' AND is_active = true
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent mothers: %w", err)
	}
	defer rows.Close()

	mothers := []RecentMother{}
	for rows.Next() {
		var m RecentMother
		var first, last, username string
		if err := rows.Scan(&m.ID, &m.CustomID, &first, &last, &username, &m.Phone, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mother: %w", err)
		}
		m.Name = users.DisplayName(first, last, username)
		mothers = append(mothers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mothers: %w", err)
	}
	return mothers, nil
}

// NextVisit returns the earliest examination appointment on or after today,
// or nil when none is scheduled.
func (r *Repository) NextVisit(ctx context.Context, motherID int64, today string) (*NextVisit, error) {
	var v NextVisit
	var pFirst, pLast, pUser, notes sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT e.id, to_char(e.next_appointment, 'YYYY-MM-DD'), p.first_name, p.last_name, p.username, e.notes
		FROM examinations e
		LEFT JOIN users p ON p.id = e.provider_id
		WHERE e.mother_id = $1 AND e.is_active = true AND e.next_appointment >= $2::date
		ORDER BY e.next_appointment ASC, e.id ASC
		LIMIT 1
	`, motherID, today).Scan(&v.ID, &v.Date, &pFirst, &pLast, &pUser, &notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next visit: %w", err)
	}
	if pUser.Valid {
		name := users.DisplayName(pFirst.String, pLast.String, pUser.String)
		v.ProviderName = &name
	}
	v.Notes = notes.String
	return &v, nil
}

func (r *Repository) Totals(ctx context.Context) (AdminDashboard, error) {
	var d AdminDashboard
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'mother' AND is_active = true),
			(SELECT COUNT(*) FROM users WHERE role = 'provider' AND is_active = true),
			(SELECT COUNT(*) FROM appointments),
			(SELECT COUNT(*) FROM examinations WHERE is_active = true)
	`).Scan(&d.TotalMothers, &d.TotalProviders, &d.TotalAppointments, &d.TotalExaminations)
	if err != nil {
		return d, fmt.Errorf("failed to compute totals: %w", err)
	}
	return d, nil
}
