package cart

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamga/mokolo/internal/domain/product"
)

func newTestProduct(id string, price int64, discountPct int) product.Product {
	return product.Product{
		ID:                 id,
		Name:               "Product " + id,
		Price:              decimal.NewFromInt(price),
		Stock:              100,
		Active:             true,
		DiscountPercentage: discountPct,
	}
}

func TestAdd_MergesByProductID(t *testing.T) {
	c := &Cart{}
	p := newTestProduct("p1", 500, 0)

	c.Add(p, 1)
	c.Add(p, 2)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 3, c.Items()[0].Quantity)
}

func TestAdd_DefaultsQuantityToOne(t *testing.T) {
	c := &Cart{}
	c.Add(newTestProduct("p1", 500, 0), 0)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Items()[0].Quantity)
}

func TestUpdateQuantity_ZeroRemoves(t *testing.T) {
	c := &Cart{}
	c.Add(newTestProduct("p1", 500, 0), 2)

	c.UpdateQuantity("p1", 0)

	assert.Equal(t, 0, c.Len())
}

func TestUpdateQuantity_ZeroEquivalentToRemove(t *testing.T) {
	p := newTestProduct("p1", 500, 0)

	viaUpdate := &Cart{}
	viaUpdate.Add(p, 2)
	viaUpdate.UpdateQuantity("p1", 0)

	viaRemove := &Cart{}
	viaRemove.Add(p, 2)
	viaRemove.Remove("p1")

	assert.Equal(t, viaRemove.Items(), viaUpdate.Items())
}

func TestUpdateQuantity_SetsExactly(t *testing.T) {
	c := &Cart{}
	c.Add(newTestProduct("p1", 500, 0), 2)

	c.UpdateQuantity("p1", 5)

	assert.Equal(t, 5, c.Items()[0].Quantity)
}

func TestRemove_UnknownIDIsNoop(t *testing.T) {
	c := &Cart{}
	c.Add(newTestProduct("p1", 500, 0), 1)

	c.Remove("missing")

	assert.Equal(t, 1, c.Len())
}

func TestUniqueness_UnderMixedOperations(t *testing.T) {
	c := &Cart{}
	p1 := newTestProduct("p1", 1000, 0)
	p2 := newTestProduct("p2", 2000, 10)

	c.Add(p1, 1)
	c.Add(p2, 3)
	c.Add(p1, 2)
	c.UpdateQuantity("p2", 1)
	c.Remove("p1")
	c.Add(p1, 4)

	seen := map[string]int{}
	for _, item := range c.Items() {
		seen[item.Product.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "product %s appears %d times", id, n)
	}
}

func TestItemCount_SumsQuantities(t *testing.T) {
	c := &Cart{}
	c.Add(newTestProduct("p1", 1000, 0), 2)
	c.Add(newTestProduct("p2", 500, 0), 3)

	assert.Equal(t, 5, c.ItemCount())
	assert.Equal(t, 2, c.Len())
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name  string
		price int64
		pct   int
		qty   int
		want  string
	}{
		{name: "no discount qty 2", price: 1000, pct: 0, qty: 2, want: "2000"},
		{name: "20 percent off qty 3", price: 1000, pct: 20, qty: 3, want: "2400"},
		{name: "rounding applied per unit", price: 333, pct: 50, qty: 3, want: "501"}, // round(166.5)*3, not round(499.5)
		{name: "full discount", price: 999, pct: 100, qty: 4, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Cart{}
			c.Add(newTestProduct("p1", tt.price, tt.pct), tt.qty)
			assert.True(t, c.Total().Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", c.Total(), tt.want)
		})
	}
}

func TestTotal_MultipleLines(t *testing.T) {
	c := &Cart{}
	c.Add(newTestProduct("p1", 1000, 20), 3) // 800*3 = 2400
	c.Add(newTestProduct("p2", 1000, 0), 2)  // 2000

	assert.True(t, c.Total().Equal(decimal.NewFromInt(4400)))
}

func TestStore_IsolatesUsers(t *testing.T) {
	s := NewStore()
	s.With("alice", func(c *Cart) { c.Add(newTestProduct("p1", 100, 0), 1) })
	s.With("bob", func(c *Cart) { c.Add(newTestProduct("p2", 200, 0), 2) })

	assert.Equal(t, 1, s.Get("alice").ItemCount())
	assert.Equal(t, 2, s.Get("bob").ItemCount())
}

func TestStore_ConcurrentMutations(t *testing.T) {
	s := NewStore()
	p := newTestProduct("p1", 100, 0)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.With("u1", func(c *Cart) { c.Add(p, 1) })
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Get("u1").ItemCount())
	assert.Equal(t, 1, s.Get("u1").Len())
}

func TestStore_Restore(t *testing.T) {
	s := NewStore()
	items := []Item{{Product: newTestProduct("p1", 1000, 0), Quantity: 2}}

	s.Restore("u1", items)

	require.Equal(t, 1, s.Get("u1").Len())
	assert.Equal(t, 2, s.Get("u1").ItemCount())
}
