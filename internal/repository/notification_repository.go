package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"animehub/pkg/models"
)

// NotificationRepository handles notification persistence
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateTx(ctx context.Context, tx pgx.Tx, notification *models.Notification) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Notification, int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

const notificationInsert = `
	INSERT INTO notifications (id, user_id, type, message, link, read, data, created_at)
	VALUES ($1, $2, $3, $4, $5, FALSE, $6, COALESCE($7, CURRENT_TIMESTAMP))
	RETURNING id, created_at
`

// Create inserts a notification record
func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.create(ctx, r.pool, n)
}

// CreateTx inserts a notification record inside the given transaction
func (r *notificationRepository) CreateTx(ctx context.Context, tx pgx.Tx, n *models.Notification) error {
	return r.create(ctx, tx, n)
}

func (r *notificationRepository) create(ctx context.Context, q querier, n *models.Notification) error {
	err := q.QueryRow(ctx, notificationInsert,
		n.ID,
		n.UserID,
		n.Type,
		n.Message,
		n.Link,
		n.Data,
		n.CreatedAt,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return mapDBError(err, "create_notification")
	}
	return nil
}

// ListByUser returns a user's notifications, newest first
func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Notification, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, mapDBError(err, "count_notifications")
	}

	query := `
		SELECT id, user_id, type, message, link, read, data, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, mapDBError(err, "list_notifications")
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Link, &n.Read, &n.Data, &n.CreatedAt); err != nil {
			return nil, 0, mapDBError(err, "scan_notification")
		}
		out = append(out, n)
	}

	return out, total, rows.Err()
}

// CountUnread returns the number of unread notifications for a user
func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`, userID).Scan(&count)
	if err != nil {
		return 0, mapDBError(err, "count_unread_notifications")
	}
	return count, nil
}

// MarkRead marks one of the recipient's notifications read
func (r *notificationRepository) MarkRead(ctx context.Context, userID, notificationID string) error {
	query := `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING id
	`
	var id string
	err := r.pool.QueryRow(ctx, query, notificationID, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewHTTPError(models.ErrCodeNotFound, "notification not found", 404, err)
	}
	if err != nil {
		return mapDBError(err, "mark_notification_read")
	}
	return nil
}

// MarkAllRead marks all of the recipient's notifications read
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return mapDBError(err, "mark_all_notifications_read")
	}
	return nil
}
