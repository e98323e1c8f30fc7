package activity

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/users"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, e *Entry) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO activity_logs (actor_id, action, target, description)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		RETURNING id, created_at
	`, e.ActorID, e.Action, e.Target, e.Description).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// List returns newest entries first with the actor's display name resolved.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Entry, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activity: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.actor_id, u.first_name, u.last_name, u.username, a.action, a.target, a.description, a.created_at
		FROM activity_logs a
		LEFT JOIN users u ON u.id = a.actor_id
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var actorID sql.NullInt64
		var first, last, username, target, description sql.NullString
		if err := rows.Scan(&e.ID, &actorID, &first, &last, &username, &e.Action, &target, &description, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity: %w", err)
		}
		if actorID.Valid {
			e.ActorID = &actorID.Int64
			e.ActorName = users.DisplayName(first.String, last.String, username.String)
		}
		e.Target = target.String
		e.Description = description.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating activity: %w", err)
	}
	return entries, total, nil
}
