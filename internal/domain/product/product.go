package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. Names and
// descriptions carry both English and French variants; prices are whole FCFA.
type Product struct {
	ID                 string
	Name               string
	NameFR             string
	Description        string
	DescriptionFR      string
	Price              decimal.Decimal
	CategoryID         string
	ImageURL           string
	Stock              int
	Active             bool
	DiscountPercentage int
	Featured           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Category groups products for browsing.
type Category struct {
	ID     string
	Name   string
	NameFR string
}

var hundred = decimal.NewFromInt(100)

// DiscountedPrice returns the effective unit price after applying the
// product's percentage discount, rounded to whole currency units. Rounding
// happens per unit, before any quantity multiplication.
func (p Product) DiscountedPrice() decimal.Decimal {
	if p.DiscountPercentage <= 0 {
		return p.Price.Round(0)
	}
	factor := hundred.Sub(decimal.NewFromInt(int64(p.DiscountPercentage))).Div(hundred)
	return p.Price.Mul(factor).Round(0)
}

// LocalizedName returns the French name when lang is "fr" and a French
// variant exists, otherwise the English name.
func (p Product) LocalizedName(lang string) string {
	if lang == "fr" && p.NameFR != "" {
		return p.NameFR
	}
	return p.Name
}

// Repository defines catalog operations. Write operations exist for the
// admin surface and seeding tools; the storefront only reads.
type Repository interface {
	List(ctx context.Context, categoryID string) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines read operations for product categories.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c *Category) error
}
