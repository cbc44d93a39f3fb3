package prefs

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamga/mokolo/internal/domain/cart"
	"github.com/kamga/mokolo/internal/domain/product"
)

func TestThemeConfig_KnownThemes(t *testing.T) {
	for _, theme := range []ColorTheme{ThemeBlue, ThemeGreen, ThemePurple, ThemeOrange, ThemeRed} {
		cfg := theme.Config()
		assert.NotEmpty(t, cfg.Primary, "theme %s", theme)
		assert.NotEmpty(t, cfg.Accent, "theme %s", theme)
	}
}

func TestThemeConfig_UnknownFallsBackToGreen(t *testing.T) {
	assert.Equal(t, ThemeGreen.Config(), ColorTheme("magenta").Config())
	assert.Equal(t, ThemeGreen.Config(), ColorTheme("").Config())
}

func TestDefaultSnapshot(t *testing.T) {
	s := DefaultSnapshot()
	assert.Equal(t, LangEN, s.Language)
	assert.Equal(t, View3D, s.ViewMode)
	assert.Equal(t, ThemeGreen, s.ColorTheme)
	assert.Empty(t, s.Cart)
}

func TestCartRoundTrip(t *testing.T) {
	items := []cart.Item{
		{
			Product: product.Product{
				ID:                 "p1",
				Name:               "Honey",
				Price:              decimal.NewFromInt(6000),
				DiscountPercentage: 20,
			},
			Quantity: 2,
		},
		{
			Product: product.Product{
				ID:    "p2",
				Name:  "Plantain",
				Price: decimal.NewFromInt(2500),
			},
			Quantity: 1,
		},
	}

	lines := FromCart(items)
	require.Len(t, lines, 2)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, 20, lines[0].DiscountPercentage)

	back := ToCart(lines)
	require.Len(t, back, 2)
	assert.Equal(t, "Honey", back[0].Product.Name)
	assert.True(t, back[0].Product.Price.Equal(decimal.NewFromInt(6000)))
	assert.Equal(t, 2, back[0].Quantity)
	assert.Equal(t, 1, back[1].Quantity)
}
