//go:build unit || e2e

package builder

import (
	"time"

	"storefront/internal/domain/product"
	reqdto "storefront/internal/handler/dto/request"
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductBuilder struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Category    string
	Active      bool
}

func NewProductBuilder() *ProductBuilder {
	return &ProductBuilder{
		ID:          uuid.New(),
		Name:        "Waffle with Berries",
		Description: "Crisp waffle topped with fresh berries",
		Price:       decimal.NewFromFloat(6.50),
		ImageURL:    "https://cdn.example.com/images/waffle.jpg",
		Category:    "Waffle",
		Active:      true,
	}
}

func (p *ProductBuilder) BuildDomain() (*product.Product, error) {
	return product.NewProduct(p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.Category, p.Active)
}

func (p *ProductBuilder) BuildReadModel() *queries.ProductView {
	now := time.Now()
	return &queries.ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		Active:      p.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (p *ProductBuilder) BuildDTO() reqdto.UpsertProductRequest {
	active := p.Active
	return reqdto.UpsertProductRequest{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		Active:      &active,
	}
}

func (p *ProductBuilder) WithPrice(price decimal.Decimal) *ProductBuilder {
	p.Price = price
	return p
}

func (p *ProductBuilder) WithName(name string) *ProductBuilder {
	p.Name = name
	return p
}

func (p *ProductBuilder) AsInactive() *ProductBuilder {
	p.Active = false
	return p
}
