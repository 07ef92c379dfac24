package cart

import (
	"errors"
	"time"

	"storefront/internal/domain/coupon"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrItemNotFound    = errors.New("item not in cart")
)

// Item is one product line of a cart. UnitPrice is snapshotted when the
// product is added so later catalog price changes do not move the cart total.
type Item struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// Cart is a user's single active shopping cart.
type Cart struct {
	id        uuid.UUID
	userID    uuid.UUID
	items     []Item
	createdAt time.Time
	updatedAt time.Time
}

func NewCart(id, userID uuid.UUID, items []Item) *Cart {
	return &Cart{
		id:     id,
		userID: userID,
		items:  items,
	}
}

// AddItem merges quantities when the product is already present.
func (c *Cart) AddItem(productID uuid.UUID, quantity int, unitPrice decimal.Decimal) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	for i, item := range c.items {
		if item.ProductID == productID {
			c.items[i].Quantity += quantity
			return nil
		}
	}

	c.items = append(c.items, Item{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
	return nil
}

func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	for i, item := range c.items {
		if item.ProductID == productID {
			c.items[i].Quantity = quantity
			return nil
		}
	}
	return ErrItemNotFound
}

func (c *Cart) RemoveItem(productID uuid.UUID) error {
	for i, item := range c.items {
		if item.ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// LineItems snapshots the cart contents for discount calculation.
func (c *Cart) LineItems() []coupon.LineItem {
	lineItems := make([]coupon.LineItem, 0, len(c.items))
	for _, item := range c.items {
		lineItems = append(lineItems, coupon.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return lineItems
}

func (c *Cart) Subtotal() decimal.Decimal {
	return coupon.Subtotal(c.LineItems())
}

func (c *Cart) ID() uuid.UUID        { return c.id }
func (c *Cart) UserID() uuid.UUID    { return c.userID }
func (c *Cart) Items() []Item        { return c.items }
func (c *Cart) CreatedAt() time.Time { return c.createdAt }
func (c *Cart) UpdatedAt() time.Time { return c.updatedAt }
