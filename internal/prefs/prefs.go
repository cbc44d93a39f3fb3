// Package prefs persists the per-user client snapshot: cart contents,
// language, view mode, and color theme, stored and restored as one record.
// It replaces the storefront's single named localStorage snapshot.
package prefs

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/kamga/mokolo/internal/domain/cart"
	"github.com/kamga/mokolo/internal/domain/product"
)

// ErrNotFound is returned when a user has no stored snapshot.
var ErrNotFound = errors.New("preferences not found")

// Language is the UI language choice.
type Language string

const (
	LangEN Language = "en"
	LangFR Language = "fr"
)

// ViewMode selects the product presentation mode.
type ViewMode string

const (
	View3D ViewMode = "3d"
	View2D ViewMode = "2d"
)

// ColorTheme is the closed set of UI themes. Theme configuration is a pure
// lookup keyed by this enum.
type ColorTheme string

const (
	ThemeBlue   ColorTheme = "blue"
	ThemeGreen  ColorTheme = "green"
	ThemePurple ColorTheme = "purple"
	ThemeOrange ColorTheme = "orange"
	ThemeRed    ColorTheme = "red"
)

// ThemeConfig is the display configuration a theme maps to.
type ThemeConfig struct {
	Primary string `json:"primary"`
	Accent  string `json:"accent"`
}

var themeConfigs = map[ColorTheme]ThemeConfig{
	ThemeBlue:   {Primary: "#1d4ed8", Accent: "#93c5fd"},
	ThemeGreen:  {Primary: "#15803d", Accent: "#86efac"},
	ThemePurple: {Primary: "#7e22ce", Accent: "#d8b4fe"},
	ThemeOrange: {Primary: "#c2410c", Accent: "#fdba74"},
	ThemeRed:    {Primary: "#b91c1c", Accent: "#fca5a5"},
}

// Config returns the configuration record for the theme. Unknown themes map
// to the green default.
func (t ColorTheme) Config() ThemeConfig {
	if cfg, ok := themeConfigs[t]; ok {
		return cfg
	}
	return themeConfigs[ThemeGreen]
}

// CartLine is the serialized form of one cart item.
type CartLine struct {
	ProductID          string          `json:"product_id"`
	Name               string          `json:"name"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage int             `json:"discount_percentage,omitempty"`
	Quantity           int             `json:"quantity"`
}

// Snapshot is the complete persisted client state.
type Snapshot struct {
	Cart       []CartLine `json:"cart"`
	Language   Language   `json:"language"`
	ViewMode   ViewMode   `json:"view_mode"`
	ColorTheme ColorTheme `json:"color_theme"`
}

// DefaultSnapshot is the state for a user with nothing stored.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Cart:       []CartLine{},
		Language:   LangEN,
		ViewMode:   View3D,
		ColorTheme: ThemeGreen,
	}
}

// FromCart serializes cart items into snapshot lines.
func FromCart(items []cart.Item) []CartLine {
	lines := make([]CartLine, len(items))
	for i, item := range items {
		lines[i] = CartLine{
			ProductID:          item.Product.ID,
			Name:               item.Product.Name,
			Price:              item.Product.Price,
			DiscountPercentage: item.Product.DiscountPercentage,
			Quantity:           item.Quantity,
		}
	}
	return lines
}

// ToCart rebuilds cart items from snapshot lines. Only the fields the cart
// math needs survive the round trip; the catalog is the source of truth for
// the rest.
func ToCart(lines []CartLine) []cart.Item {
	items := make([]cart.Item, len(lines))
	for i, l := range lines {
		items[i] = cart.Item{
			Product: product.Product{
				ID:                 l.ProductID,
				Name:               l.Name,
				Price:              l.Price,
				DiscountPercentage: l.DiscountPercentage,
			},
			Quantity: l.Quantity,
		}
	}
	return items
}

// Store persists snapshots keyed by user.
type Store interface {
	Get(ctx context.Context, userID string) (*Snapshot, error)
	Put(ctx context.Context, userID string, s Snapshot) error
}
