// Package checkout implements the four-state checkout flow layered on the
// cart store and the payment providers:
//
//	info -> payment -> processing -> success
//
// with processing falling back to payment on failure (the retry loop keeps
// the shipping data already entered). A successful run persists the order
// and its line items, publishes an order-created event, and clears the cart
// after a short countdown or an explicit continue.
package checkout

import (
	"fmt"

	"github.com/kamga/mokolo/internal/domain/order"
	"github.com/kamga/mokolo/internal/payment"
)

// State names one step of the checkout flow.
type State string

const (
	StateInfo       State = "info"
	StatePayment    State = "payment"
	StateProcessing State = "processing"
	StateSuccess    State = "success"
)

// CountdownTicks is how many one-second ticks the success screen counts
// down before the session completes on its own.
const CountdownTicks = 7

// Sentinel errors for session handling.
var (
	ErrSessionNotFound = fmt.Errorf("checkout session not found")
	ErrCartEmpty       = fmt.Errorf("cart is empty")
)

// FieldError reports a shipping-info validation failure for one field. The
// session stays in the info state.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// TransitionError reports an operation attempted in the wrong state.
type TransitionError struct {
	From State
	Op   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s from state %q", e.Op, e.From)
}

// InsufficientStockError reports a cart line exceeding available stock.
type InsufficientStockError struct {
	ProductID string
	Stock     int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %s: requested %d, only %d in stock", e.ProductID, e.Requested, e.Stock)
}

// ShippingInfo is the data collected in the info step.
type ShippingInfo struct {
	FullName string
	Phone    string
	Address  string
	Notes    string
}

// validate applies the info -> payment transition guard.
func (s ShippingInfo) validate() error {
	if s.FullName == "" {
		return &FieldError{Field: "full_name", Reason: "required"}
	}
	if s.Phone == "" {
		return &FieldError{Field: "phone", Reason: "required"}
	}
	if !payment.ValidPhone(s.Phone) {
		return &FieldError{Field: "phone", Reason: "must match regional mobile format"}
	}
	if s.Address == "" {
		return &FieldError{Field: "address", Reason: "required"}
	}
	return nil
}

// PaymentInfo is the data collected in the payment step. Phone falls back
// to the shipping phone when empty.
type PaymentInfo struct {
	Method order.PaymentMethod
	Phone  string
}
