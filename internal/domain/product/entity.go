package product

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const MaxNameLength = 200

var (
	ErrEmptyName     = errors.New("product name cannot be empty")
	ErrNameTooLong   = errors.New("product name too long")
	ErrNegativePrice = errors.New("product price cannot be negative")
)

type Product struct {
	id          uuid.UUID
	name        string
	description string
	price       decimal.Decimal
	imageURL    string
	category    string
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
}

func NewProduct(id uuid.UUID, name, description string, price decimal.Decimal, imageURL, category string, active bool) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return nil, ErrNameTooLong
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}

	return &Product{
		id:          id,
		name:        name,
		description: strings.TrimSpace(description),
		price:       price,
		imageURL:    imageURL,
		category:    category,
		active:      active,
	}, nil
}

func (p *Product) Deactivate() { p.active = false }
func (p *Product) Activate()   { p.active = true }

func (p *Product) ID() uuid.UUID          { return p.id }
func (p *Product) Name() string           { return p.name }
func (p *Product) Description() string    { return p.description }
func (p *Product) Price() decimal.Decimal { return p.price }
func (p *Product) ImageURL() string       { return p.imageURL }
func (p *Product) Category() string       { return p.category }
func (p *Product) IsActive() bool         { return p.active }
func (p *Product) CreatedAt() time.Time   { return p.createdAt }
func (p *Product) UpdatedAt() time.Time   { return p.updatedAt }
