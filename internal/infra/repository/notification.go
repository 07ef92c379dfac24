package repository

import (
	"context"
	"time"

	"storefront/internal/infra/db"
	"storefront/internal/usecase/shared"
)

const createNotificationJobSQL = `INSERT INTO notification_jobs (kind, topic, payload, run_at)
	VALUES ($1, $2, $3, $4)`

var _ shared.NotificationRepository = (*NotificationRepository)(nil)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	if _, err := tx.Exec(ctx, createNotificationJobSQL, kind, topic, payload, runAt); err != nil {
		return wrapWriteErr("creating notification job", err)
	}
	return nil
}
