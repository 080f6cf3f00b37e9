package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stocker/stocker-backend/pkg/database"
	"github.com/stocker/stocker-backend/pkg/errors"
)

// Notification kinds produced by the alert dispatcher
const (
	NotificationLowStock = "low_stock"
	NotificationExpired  = "expired"
)

// Notification is an in-app message addressed to one staff user
type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Kind      string    `db:"kind" json:"kind"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NotificationRepository handles notification data access
type NotificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification
func (r *NotificationRepository) Create(ctx context.Context, n *Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO notifications (id, user_id, kind, title, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, n.ID, n.UserID, n.Kind, n.Title, n.Message).Scan(&n.CreatedAt)
	if err != nil {
		return database.MapError(err)
	}
	return nil
}

// ListByUser lists a user's notifications newest-first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, page, perPage int) ([]*Notification, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID); err != nil {
		return nil, 0, err
	}

	var notifications []*Notification
	offset := (page - 1) * perPage
	err := r.db.SelectContext(ctx, &notifications, `
		SELECT id, user_id, kind, title, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// UnreadCount returns the number of unread notifications for a user
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID)
	return count, err
}

// MarkRead marks one notification as read. The user ID guards against
// marking another user's notification.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("notification")
	}
	return nil
}

// MarkAllRead marks all of a user's notifications as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`,
		userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
