package request

import (
	"github.com/shopspring/decimal"

	"storefront/internal/usecase/commands"
)

type UpsertProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	ImageURL    string          `json:"image_url,omitempty"`
	Category    string          `json:"category,omitempty"`
	Active      *bool           `json:"active,omitempty"`
}

func (r UpsertProductRequest) ToCommand() commands.UpsertProductRequest {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return commands.UpsertProductRequest{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Category:    r.Category,
		Active:      active,
	}
}
