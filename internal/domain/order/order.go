// Package order defines orders, their line items, and persistence contracts.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// ErrItemsDropped marks the lenient partial-failure case: the order row was
// written but its line items were not. The order stands; callers log this
// distinctly so dropped-item orders can be found and reconciled.
var ErrItemsDropped = errors.New("order created but line items were not persisted")

// Status enumerates the order lifecycle states.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusDispatched Status = "dispatched"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusProcessing, StatusDispatched, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// statusText maps each status to its English and French display text.
var statusText = map[Status][2]string{
	StatusProcessing: {"Processing", "En cours"},
	StatusDispatched: {"Dispatched", "Expédié"},
	StatusDelivered:  {"Delivered", "Livré"},
	StatusCancelled:  {"Cancelled", "Annulé"},
}

// Text returns the display text for the status in the given language
// ("en" or "fr"). Unknown statuses fall back to the raw value.
func (s Status) Text(lang string) string {
	pair, ok := statusText[s]
	if !ok {
		return string(s)
	}
	if lang == "fr" {
		return pair[1]
	}
	return pair[0]
}

// PaymentMethod tags the payment provider used for an order.
type PaymentMethod string

const (
	MethodCashOnDelivery PaymentMethod = "cod"
	MethodMTNMoMo        PaymentMethod = "momo"
	MethodOrangeMoney    PaymentMethod = "orange"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCashOnDelivery, MethodMTNMoMo, MethodOrangeMoney:
		return true
	}
	return false
}

// Order represents a completed checkout. Total is derived from the cart at
// submission time and never edited independently.
type Order struct {
	ID              string
	UserID          string
	Total           decimal.Decimal
	PaymentMethod   PaymentMethod
	TransactionID   string
	ShippingAddress string
	Phone           string
	Notes           string
	Status          Status
	Items           []Item
	CreatedAt       time.Time
}

// Item is one order line. Price is the unit price captured at purchase
// time, decoupled from later catalog changes. Items are never mutated.
type Item struct {
	OrderID   string
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// Repository defines persistence operations for orders.
//
// ListByUser returns orders with nested items in one round trip;
// ListByUserBasic and ItemsByOrder are the fallback pair for callers that
// cannot use the joined query.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	CreateItems(ctx context.Context, items []Item) error
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListByUserBasic(ctx context.Context, userID string) ([]Order, error)
	ItemsByOrder(ctx context.Context, orderID string) ([]Item, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) error
}
