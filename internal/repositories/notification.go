package repositories

import (
	"context"
	"fmt"

	"learnweave/internal/models"

	"github.com/jmoiron/sqlx"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	// ListForUser returns notifications not created by the user, newest
	// first, with the per-user seen flag filled in.
	ListForUser(ctx context.Context, userID int64) ([]models.Notification, error)
	// MarkAllSeen adds the user to the seen set of every notification they
	// have not seen yet. Seen state only ever grows.
	MarkAllSeen(ctx context.Context, userID int64) error
	UnseenCount(ctx context.Context, userID int64) (int, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (message, created_by, challenge_id, type) VALUES (?, ?, ?, ?)`,
		notification.Message, notification.CreatedBy, notification.ChallengeID, notification.Type,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	notification.ID = id
	return nil
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications,
		`SELECT n.id, n.message, n.created_by, n.challenge_id, n.type, n.created_at,
		        ns.user_id IS NOT NULL AS seen
		 FROM notifications n
		 LEFT JOIN notification_seen ns ON ns.notification_id = n.id AND ns.user_id = ?
		 WHERE n.created_by <> ?
		 ORDER BY n.created_at DESC`,
		userID, userID); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkAllSeen(ctx context.Context, userID int64) error {
	// INSERT IGNORE keeps the operation monotonic: rows already in the seen
	// set are never touched, let alone removed.
	if _, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO notification_seen (notification_id, user_id)
		 SELECT id, ? FROM notifications WHERE created_by <> ?`,
		userID, userID); err != nil {
		return fmt.Errorf("failed to mark notifications seen: %w", err)
	}
	return nil
}

func (r *notificationRepository) UnseenCount(ctx context.Context, userID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*)
		 FROM notifications n
		 LEFT JOIN notification_seen ns ON ns.notification_id = n.id AND ns.user_id = ?
		 WHERE n.created_by <> ? AND ns.user_id IS NULL`,
		userID, userID); err != nil {
		return 0, fmt.Errorf("failed to count unseen notifications: %w", err)
	}
	return count, nil
}
