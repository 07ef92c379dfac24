package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain/coupon"
	"storefront/internal/domain/order"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/queries"
	"storefront/internal/usecase/shared"
)

var (
	ErrCartEmpty               = errs.New("cart is empty")
	ErrOrderNotFound           = errs.New("order not found")
	ErrInvalidStatusChange     = errs.New("invalid order status change")
	ErrCouponNotFound          = errs.New("coupon not found")
	ErrInvalidCoupon           = errs.New("invalid coupon")
	ErrDuplicateOrderRequest   = errs.New("duplicate order request")
	ErrIdempotencyInProgress   = errs.New("idempotency in progress")
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

const placeOrderEndpoint = "POST /orders"

// Idempotency keys outlive the request long enough for clients to retry
// safely, then expire so the key space can be reused.
const idempotencyKeyTTL = 24 * time.Hour

type PlaceOrderRequest struct {
	CouponCode string `json:"coupon_code,omitempty"`
}

type PlaceOrderResult struct {
	Order      *queries.OrderView
	IsReplayed bool
}

type OrderCommands interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest, userID uuid.UUID, idempotencyKey uuid.UUID) (*PlaceOrderResult, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next order.Status) error
	CancelOwn(ctx context.Context, orderID, userID uuid.UUID) error
}

type orderCommandsImpl struct {
	uow          shared.UnitOfWork
	orderQueries queries.OrderQueries
	clock        clock.Clock
}

func NewOrderCommands(uow shared.UnitOfWork, orderQueries queries.OrderQueries, clk clock.Clock) OrderCommands {
	return &orderCommandsImpl{
		uow:          uow,
		orderQueries: orderQueries,
		clock:        clk,
	}
}

func (o *orderCommandsImpl) PlaceOrder(
	ctx context.Context,
	req PlaceOrderRequest,
	userID uuid.UUID,
	idempotencyKey uuid.UUID,
) (*PlaceOrderResult, error) {
	requestHash := calculateRequestHash(req)
	expiresAt := o.clock.Now().Add(idempotencyKeyTTL)

	replayed, err := o.handleIdempotency(ctx, idempotencyKey, userID, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return &PlaceOrderResult{Order: replayed, IsReplayed: true}, nil
	}

	orderID, err := o.placeNewOrder(ctx, req, userID, idempotencyKey)
	if err != nil {
		return nil, err
	}

	// Read-after-write: serve the response from the read store
	view, err := o.orderQueries.GetByIDSystem(ctx, orderID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &PlaceOrderResult{Order: view, IsReplayed: false}, nil
}

func (o *orderCommandsImpl) handleIdempotency(
	ctx context.Context,
	idempotencyKey, userID uuid.UUID,
	requestHash string,
	expiresAt time.Time,
) (*queries.OrderView, error) {
	var existing *shared.IdempotencyRecord

	err := o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		insertErr := tx.Idempotency().TryInsert(ctx, tx.DB(), idempotencyKey, userID, placeOrderEndpoint, requestHash, expiresAt)
		if insertErr == nil {
			// Fresh key, this request owns it.
			return nil
		}
		if !infra.IsKind(insertErr, infra.KindDuplicateKey) {
			return insertErr
		}

		record, getErr := tx.Reads().IdempotencyByKey(ctx, idempotencyKey, userID)
		if getErr != nil {
			return getErr
		}

		// A stale in-progress key from a crashed request can be claimed again.
		if record.Status == "in_progress" && record.ExpiresAt.Before(o.clock.Now()) {
			claimed, claimErr := tx.Idempotency().ClaimExpiredKey(ctx, tx.DB(), idempotencyKey, userID, requestHash, expiresAt)
			if claimErr != nil {
				return claimErr
			}
			if claimed > 0 {
				return nil
			}
		}

		existing = record
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}

	if existing == nil {
		// Key owned by this request; proceed with placement.
		return nil, nil
	}

	switch existing.Status {
	case "completed":
		if existing.ResultOrderID == nil {
			return nil, errs.New("completed request missing result order ID")
		}
		view, err := o.orderQueries.GetByIDSystem(ctx, *existing.ResultOrderID)
		if err != nil {
			return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
		}
		return view, nil

	case "in_progress":
		if existing.RequestHash != requestHash {
			return nil, ErrDuplicateOrderRequest
		}
		return nil, ErrIdempotencyInProgress

	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (o *orderCommandsImpl) placeNewOrder(
	ctx context.Context,
	req PlaceOrderRequest,
	userID, idempotencyKey uuid.UUID,
) (uuid.UUID, error) {
	var orderID uuid.UUID

	err := o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cartSnap, err := tx.Reads().CartByUser(ctx, userID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCartEmpty
			}
			return err
		}
		if len(cartSnap.Items) == 0 {
			return ErrCartEmpty
		}

		lines, err := o.buildLines(ctx, tx, cartSnap)
		if err != nil {
			return err
		}

		couponEntity, err := o.validateCoupon(ctx, tx, req.CouponCode, userID)
		if err != nil {
			return err
		}

		services := &order.Services{Clock: o.clock}
		entity, err := order.NewOrder(services, userID, lines, couponEntity)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		id, err := tx.Orders().Create(ctx, tx.DB(), entity)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		orderID = id

		if couponEntity != nil {
			if err := tx.Coupons().IncrementUses(ctx, tx.DB(), couponEntity.ID()); err != nil {
				// A concurrent placement may exhaust max_uses between
				// validation and the increment.
				if infra.IsKind(err, infra.KindNotFound) {
					return errs.Mark(err, ErrInvalidCoupon)
				}
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		if err := tx.Carts().Clear(ctx, tx.DB(), cartSnap.ID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := o.enqueueConfirmation(ctx, tx, id, userID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), idempotencyKey, userID, id); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return orderID, nil
}

// buildLines re-reads each product so the order carries current names and
// rejects items that went inactive after they were added to the cart.
func (o *orderCommandsImpl) buildLines(ctx context.Context, tx shared.Tx, cartSnap *shared.CartSnapshot) ([]order.Line, error) {
	lines := make([]order.Line, 0, len(cartSnap.Items))
	for _, item := range cartSnap.Items {
		productSnap, err := tx.Reads().ProductByID(ctx, item.ProductID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		if !productSnap.Active {
			return nil, ErrProductInactive
		}

		lines = append(lines, order.Line{
			ProductID:   item.ProductID,
			ProductName: productSnap.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return lines, nil
}

func (o *orderCommandsImpl) validateCoupon(ctx context.Context, tx shared.Tx, code string, userID uuid.UUID) (*coupon.Coupon, error) {
	if code == "" {
		return nil, nil
	}

	normalized, err := coupon.NewCouponCode(code)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCoupon)
	}

	couponSnap, err := tx.Reads().CouponByCode(ctx, normalized.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	entity := couponSnap.ToDomain()
	if err := entity.ValidateUsage(o.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrInvalidCoupon)
	}

	orderCount, err := tx.Reads().UserOrderCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := entity.EligibleFor(userID, orderCount == 0); err != nil {
		return nil, errs.Mark(err, ErrInvalidCoupon)
	}

	return entity, nil
}

func (o *orderCommandsImpl) enqueueConfirmation(ctx context.Context, tx shared.Tx, orderID, userID uuid.UUID) error {
	payload, err := json.Marshal(map[string]any{
		"order_id": orderID,
		"user_id":  userID,
		"type":     "order_placed",
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), "email", "order_placed", payload, o.clock.Now())
}

func (o *orderCommandsImpl) UpdateStatus(ctx context.Context, orderID uuid.UUID, next order.Status) error {
	if !next.IsValid() {
		return ErrInvalidStatusChange
	}

	return o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().OrderByID(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		current := order.Status(snap.Status)
		if !current.CanTransitionTo(next) {
			return ErrInvalidStatusChange
		}

		return tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, next)
	})
}

// CancelOwn lets a customer cancel their own order while it is still
// cancellable. Admin-driven transitions go through UpdateStatus.
func (o *orderCommandsImpl) CancelOwn(ctx context.Context, orderID, userID uuid.UUID) error {
	return o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().OrderByID(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if snap.UserID != userID {
			return ErrOrderNotFound
		}

		current := order.Status(snap.Status)
		if !current.CanTransitionTo(order.StatusCancelled) {
			return ErrInvalidStatusChange
		}

		return tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, order.StatusCancelled)
	})
}

func calculateRequestHash(req PlaceOrderRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
