package notification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/db"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateWith inserts n using q, so callers can include it in their transaction.
func (r *Repository) CreateWith(ctx context.Context, q db.Querier, n *Notification) error {
	err := q.QueryRowContext(ctx, `
		INSERT INTO notifications (user_id, title, message, object_type, object_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_read, created_at
	`, n.UserID, n.Title, n.Message, n.ObjectType, n.ObjectID).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *Repository) Create(ctx context.Context, n *Notification) error {
	return r.CreateWith(ctx, r.db, n)
}

// Broadcast inserts one copy of n per user in a single transaction.
func (r *Repository) Broadcast(ctx context.Context, userIDs []int64, n Notification) error {
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, id := range userIDs {
			msg := n
			msg.UserID = id
			if err := r.CreateWith(ctx, tx, &msg); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns a user's notifications, newest first.
func (r *Repository) List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]Notification, int, error) {
	where := `WHERE user_id = $1`
	if unreadOnly {
		where += ` AND is_read = false`
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications `+where, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, message, object_type, object_id, is_read, created_at
		FROM notifications `+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []Notification{}
	for rows.Next() {
		var n Notification
		var objectType sql.NullString
		var objectID sql.NullInt64
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &objectType, &objectID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		if objectType.Valid {
			n.ObjectType = &objectType.String
		}
		if objectID.Valid {
			n.ObjectID = &objectID.Int64
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating notifications: %w", err)
	}
	return notifications, total, nil
}

func (r *Repository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false
	`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return n, nil
}

func (r *Repository) MarkRead(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead returns how many notifications changed.
func (r *Repository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return result.RowsAffected()
}

// RepositoryInterface defines the contract for notification data access
type RepositoryInterface interface {
	Create(ctx context.Context, n *Notification) error
	Broadcast(ctx context.Context, userIDs []int64, n Notification) error
	List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]Notification, int, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

var _ RepositoryInterface = (*Repository)(nil)
