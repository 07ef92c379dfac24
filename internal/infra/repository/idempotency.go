package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storefront/internal/infra/db"
	"storefront/internal/usecase/shared"
)

const (
	tryInsertIdempotencySQL = `INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
		VALUES ($1, $2, $3, $4, 'in_progress', $5)
		ON CONFLICT (key, user_id) DO NOTHING`

	completeIdempotencySQL = `UPDATE idempotency_keys
		SET status = 'completed', result_order_id = $3
		WHERE key = $1 AND user_id = $2`

	claimExpiredIdempotencySQL = `UPDATE idempotency_keys
		SET request_hash = $3, status = 'in_progress', expires_at = $4, result_order_id = NULL
		WHERE key = $1 AND user_id = $2 AND status = 'in_progress' AND expires_at < now()`
)

var _ shared.IdempotencyRepository = (*IdempotencyRepository)(nil)

type IdempotencyRepository struct{}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{}
}

// TryInsert reports a duplicate-key repository error when the key already
// exists, so callers can tell a fresh claim from a replay.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) error {
	tag, err := tx.Exec(ctx, tryInsertIdempotencySQL, key, userID, endpoint, requestHash, expiresAt)
	if err != nil {
		return wrapWriteErr("inserting idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDuplicate("idempotency key already exists")
	}
	return nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, orderID uuid.UUID) error {
	tag, err := tx.Exec(ctx, completeIdempotencySQL, key, userID, orderID)
	if err != nil {
		return wrapWriteErr("completing idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return wrapNotFound("idempotency key not found")
	}
	return nil
}

func (r *IdempotencyRepository) ClaimExpiredKey(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, requestHash string, expiresAt time.Time) (int64, error) {
	tag, err := tx.Exec(ctx, claimExpiredIdempotencySQL, key, userID, requestHash, expiresAt)
	if err != nil {
		return 0, wrapWriteErr("claiming expired idempotency key", err)
	}
	return tag.RowsAffected(), nil
}
