package shared

import (
	"context"
	"time"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/coupon"
	"storefront/internal/domain/order"
	"storefront/internal/domain/product"
	"storefront/internal/domain/user"
	"storefront/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Orders() OrderRepository
	Carts() CartRepository
	Coupons() CouponRepository
	Products() ProductRepository
	Users() UserRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	ProductByID(ctx context.Context, id uuid.UUID) (*ProductSnapshot, error)
	CouponByCode(ctx context.Context, code string) (*CouponSnapshot, error)
	CartByUser(ctx context.Context, userID uuid.UUID) (*CartSnapshot, error)
	OrderByID(ctx context.Context, id uuid.UUID) (*OrderSnapshot, error)
	UserOrderCount(ctx context.Context, userID uuid.UUID) (int64, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
}

type OrderRepository interface {
	Create(ctx context.Context, tx db.DBTX, o *order.Order) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, tx db.DBTX, orderID uuid.UUID, status order.Status) error
}

type CartRepository interface {
	Save(ctx context.Context, tx db.DBTX, c *cart.Cart) error
	Clear(ctx context.Context, tx db.DBTX, cartID uuid.UUID) error
}

type CouponRepository interface {
	Create(ctx context.Context, tx db.DBTX, c *coupon.Coupon) (uuid.UUID, error)
	IncrementUses(ctx context.Context, tx db.DBTX, couponID uuid.UUID) error
}

type ProductRepository interface {
	Create(ctx context.Context, tx db.DBTX, p *product.Product) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, p *product.Product) error
	SetActive(ctx context.Context, tx db.DBTX, productID uuid.UUID, active bool) error
}

type UserRepository interface {
	Create(ctx context.Context, tx db.DBTX, u *user.User) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID) error
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) error
	UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, orderID uuid.UUID) error
	ClaimExpiredKey(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, requestHash string, expiresAt time.Time) (int64, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}
