package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"

	"storefront/internal/usecase/queries"
)

type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func FromProductView(view *queries.ProductView) *ProductResponse {
	var resp ProductResponse
	// Field names match one-to-one; copier keeps the mapping declarative.
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromProductViews(views []*queries.ProductView) []*ProductResponse {
	items := make([]*ProductResponse, 0, len(views))
	for _, v := range views {
		items = append(items, FromProductView(v))
	}
	return items
}
