package readstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/usecase/shared"
)

const findIdempotencyKeySQL = `SELECT key, user_id, status, request_hash, result_order_id, expires_at
	FROM idempotency_keys WHERE key = $1 AND user_id = $2`

type IdempotencyReadStore struct {
	db db.DBTX
}

func NewIdempotencyReadStore(db db.DBTX) *IdempotencyReadStore {
	return &IdempotencyReadStore{db: db}
}

func (r *IdempotencyReadStore) FindByKey(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var record shared.IdempotencyRecord
	err := r.db.QueryRow(ctx, findIdempotencyKeySQL, key, userID).Scan(
		&record.Key, &record.UserID, &record.Status, &record.RequestHash,
		&record.ResultOrderID, &record.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("finding idempotency key", err)
	}
	return &record, nil
}
