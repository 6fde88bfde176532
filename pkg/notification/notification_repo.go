package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Store(ctx context.Context, notification Notification) (int, error)
	GetForUser(ctx context.Context, userId int) ([]Notification, error)
	MarkRead(ctx context.Context, uid string, userId int) error
	DeleteForUser(ctx context.Context, userId int) error
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, notification Notification) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO notification (uid, user_id, type, title, message, read, points, source_uid, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		notification.Uid,
		notification.UserId,
		string(notification.Type),
		notification.Title,
		notification.Message,
		notification.Read,
		notification.Points,
		notification.SourceUid,
		notification.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		err := fmt.Errorf("could not store notification: %w", err)
		log.Error(err)
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(id), nil
}

func (r *RepoImpl) GetForUser(ctx context.Context, userId int) ([]Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, uid, user_id, type, title, message, read, points, source_uid, created_at
			FROM notification WHERE user_id = ?
			ORDER BY created_at DESC, id DESC`, userId)
	if err != nil {
		err := fmt.Errorf("could not query notifications: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	notifications := make([]Notification, 0)
	for rows.Next() {
		var notification Notification
		var notificationType string
		var points sql.NullInt64
		var sourceUid sql.NullString
		var createdAt string
		if err := rows.Scan(
			&notification.Id,
			&notification.Uid,
			&notification.UserId,
			&notificationType,
			&notification.Title,
			&notification.Message,
			&notification.Read,
			&points,
			&sourceUid,
			&createdAt,
		); err != nil {
			return nil, err
		}
		notification.Type = Type(notificationType)
		if points.Valid {
			value := int(points.Int64)
			notification.Points = &value
		}
		if sourceUid.Valid {
			notification.SourceUid = &sourceUid.String
		}
		if parsed, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
			notification.CreatedAt = parsed
		}
		notifications = append(notifications, notification)
	}
	return notifications, rows.Err()
}

func (r *RepoImpl) MarkRead(ctx context.Context, uid string, userId int) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE notification SET read = 1 WHERE uid = ? AND user_id = ?", uid, userId)
	if err != nil {
		err := fmt.Errorf("could not mark notification read: %w", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RepoImpl) DeleteForUser(ctx context.Context, userId int) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM notification WHERE user_id = ?", userId); err != nil {
		err := fmt.Errorf("could not delete notifications: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
