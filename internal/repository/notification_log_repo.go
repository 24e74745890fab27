package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mailsift/internal/model"
)

type NotificationLogRepository struct {
	db *pgxpool.Pool
}

func NewNotificationLogRepository(db *pgxpool.Pool) *NotificationLogRepository {
	return &NotificationLogRepository{db: db}
}

func (r *NotificationLogRepository) Insert(ctx context.Context, log *model.NotificationLog) error {
	query := `
        INSERT INTO notifications_log (email_uid, sink, success, error, created_at)
        VALUES ($1, $2, $3, $4, NOW())
    `
	_, err := r.db.Exec(ctx, query, log.EmailUID, log.Sink, log.Success, log.Error)
	return err
}

// ListRecent returns the newest outcomes first.
func (r *NotificationLogRepository) ListRecent(ctx context.Context, limit int) ([]model.NotificationLog, error) {
	query := `
        SELECT id, email_uid, sink, success, error, created_at
        FROM notifications_log
        ORDER BY created_at DESC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.NotificationLog{}
	for rows.Next() {
		var l model.NotificationLog
		err := rows.Scan(
			&l.ID,
			&l.EmailUID,
			&l.Sink,
			&l.Success,
			&l.Error,
			&l.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
