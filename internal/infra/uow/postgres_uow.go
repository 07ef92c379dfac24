package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/coupon"
	"storefront/internal/infra/db"
	"storefront/internal/infra/readstore"
	"storefront/internal/infra/repository"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/shared"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	orderRepo        shared.OrderRepository
	cartRepo         shared.CartRepository
	couponRepo       shared.CouponRepository
	productRepo      shared.ProductRepository
	userRepo         shared.UserRepository
	idempotencyRepo  shared.IdempotencyRepository
	notificationRepo shared.NotificationRepository
	commandReads     shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Orders() shared.OrderRepository {
	if t.orderRepo == nil {
		t.orderRepo = repository.NewOrderRepository()
	}
	return t.orderRepo
}

func (t *pgTx) Carts() shared.CartRepository {
	if t.cartRepo == nil {
		t.cartRepo = repository.NewCartRepository()
	}
	return t.cartRepo
}

func (t *pgTx) Coupons() shared.CouponRepository {
	if t.couponRepo == nil {
		t.couponRepo = repository.NewCouponRepository()
	}
	return t.couponRepo
}

func (t *pgTx) Products() shared.ProductRepository {
	if t.productRepo == nil {
		t.productRepo = repository.NewProductRepository()
	}
	return t.productRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository()
	}
	return t.userRepo
}

func (t *pgTx) Idempotency() shared.IdempotencyRepository {
	if t.idempotencyRepo == nil {
		t.idempotencyRepo = repository.NewIdempotencyRepository()
	}
	return t.idempotencyRepo
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notificationRepo == nil {
		t.notificationRepo = repository.NewNotificationRepository()
	}
	return t.notificationRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

type commandReads struct {
	dbtx db.DBTX

	// Lazy-initialized readstores
	productStore     *readstore.ProductReadStore
	couponStore      *readstore.CouponReadStore
	cartStore        *readstore.CartReadStore
	orderStore       *readstore.OrderReadStore
	idempotencyStore *readstore.IdempotencyReadStore
}

func (r *commandReads) ProductByID(ctx context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	if r.productStore == nil {
		r.productStore = readstore.NewProductReadStore(r.dbtx)
	}

	view, err := r.productStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &shared.ProductSnapshot{
		ID:     view.ID,
		Name:   view.Name,
		Price:  view.Price,
		Active: view.Active,
	}, nil
}

func (r *commandReads) CouponByCode(ctx context.Context, code string) (*shared.CouponSnapshot, error) {
	if r.couponStore == nil {
		r.couponStore = readstore.NewCouponReadStore(r.dbtx)
	}

	view, err := r.couponStore.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	rules := make([]coupon.DiscountRule, 0, len(view.Rules))
	for _, rule := range view.Rules {
		rules = append(rules, coupon.DiscountRule{
			Name:      rule.Name,
			Value:     rule.Value,
			FlatRate:  rule.FlatRate,
			AppliesTo: rule.AppliesTo,
		})
	}

	return &shared.CouponSnapshot{
		ID:           view.ID,
		Code:         view.Code,
		Rules:        rules,
		ValidFrom:    view.ValidFrom,
		ValidTo:      view.ValidTo,
		NewUsersOnly: view.NewUsersOnly,
		UserIDs:      view.UserIDs,
		MaxUses:      int(view.MaxUses),
		Uses:         int(view.Uses),
	}, nil
}

func (r *commandReads) CartByUser(ctx context.Context, userID uuid.UUID) (*shared.CartSnapshot, error) {
	if r.cartStore == nil {
		r.cartStore = readstore.NewCartReadStore(r.dbtx)
	}

	view, err := r.cartStore.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]cart.Item, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, cart.Item{
			ProductID: item.ProductID,
			Quantity:  int(item.Quantity),
			UnitPrice: item.UnitPrice,
		})
	}

	return &shared.CartSnapshot{
		ID:     view.ID,
		UserID: view.UserID,
		Items:  items,
	}, nil
}

func (r *commandReads) OrderByID(ctx context.Context, id uuid.UUID) (*shared.OrderSnapshot, error) {
	if r.orderStore == nil {
		r.orderStore = readstore.NewOrderReadStore(r.dbtx)
	}

	view, err := r.orderStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &shared.OrderSnapshot{
		ID:     view.ID,
		UserID: view.UserID,
		Status: view.Status,
	}, nil
}

func (r *commandReads) UserOrderCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if r.orderStore == nil {
		r.orderStore = readstore.NewOrderReadStore(r.dbtx)
	}
	return r.orderStore.CountByUser(ctx, userID)
}

func (r *commandReads) IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	if r.idempotencyStore == nil {
		r.idempotencyStore = readstore.NewIdempotencyReadStore(r.dbtx)
	}
	return r.idempotencyStore.FindByKey(ctx, key, userID)
}
