// Package cart implements the in-memory shopping cart: a collection of
// (product snapshot, quantity) pairs with merge-on-add semantics and
// discount-aware totals.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/kamga/mokolo/internal/domain/product"
)

// Item is a single cart line: a product snapshot and its quantity.
// The snapshot is taken at add time; later catalog price changes do not
// affect items already in the cart.
type Item struct {
	Product  product.Product
	Quantity int
}

// Cart holds the ordered list of items for one shopper. At most one Item
// exists per product ID. The zero value is an empty, usable cart.
//
// Cart itself is not safe for concurrent use; Store serializes access.
type Cart struct {
	items []Item
}

// Items returns a copy of the cart's line items in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Add merges quantity into an existing line for the same product ID, or
// appends a new line. Quantities below 1 are treated as 1. No upper bound
// is enforced here; the checkout service validates against stock.
func (c *Cart) Add(p product.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.items {
		if c.items[i].Product.ID == p.ID {
			c.items[i].Quantity += quantity
			return
		}
	}
	c.items = append(c.items, Item{Product: p, Quantity: quantity})
}

// UpdateQuantity sets the quantity for the given product ID exactly.
// A quantity of zero or less removes the line. Unknown IDs are a no-op.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = quantity
			return
		}
	}
}

// Remove drops the line for the given product ID if present.
func (c *Cart) Remove(productID string) {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Total returns the cart total: for each line, the unit price after the
// product discount (rounded to whole currency units) multiplied by the
// quantity, summed over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		line := item.Product.DiscountedPrice().Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}

// ItemCount returns the sum of quantities across all lines, not the number
// of distinct products.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.items)
}
