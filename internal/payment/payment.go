// Package payment provides the payment provider abstraction and the
// simulated regional providers: cash on delivery, MTN Mobile Money, and
// Orange Money. The simulators stand in for real gateway integrations; the
// contract they preserve is async, delay-bearing, phone- and
// amount-validating, probabilistically failing operations returning either a
// transaction reference or a retryable error.
package payment

import (
	"context"
	"fmt"
	"regexp"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// phonePattern matches Cameroonian mobile numbers, with or without the 237
// country prefix.
var phonePattern = regexp.MustCompile(`^(237)?[0-9]{8,9}$`)

// minAmount is the smallest chargeable amount in FCFA.
var minAmount = decimal.NewFromInt(100)

// ErrDeclined is the retryable failure a simulator returns when the drawn
// outcome is a decline. Callers surface it and offer a retry.
var ErrDeclined = errors.New("payment failed, please check your balance and try again")

// ValidationError indicates the request was rejected before any processing
// started. Validation failures return immediately; callers must not assume
// a fixed-latency failure path.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Request carries the charge parameters.
type Request struct {
	Amount decimal.Decimal
	Phone  string
}

// Result is the outcome of a successful charge.
type Result struct {
	TransactionID string
}

// Provider processes a payment. Implementations must honour ctx
// cancellation during any simulated or real network delay.
//
// The checkout state machine depends only on this interface, so a real
// gateway client can replace a simulator without touching checkout.
type Provider interface {
	Name() string
	Process(ctx context.Context, req Request) (*Result, error)
}

// ValidPhone reports whether phone matches the regional mobile format.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func validate(req Request) error {
	if !ValidPhone(req.Phone) {
		return &ValidationError{Field: "phone", Reason: "must match regional mobile format"}
	}
	if req.Amount.LessThan(minAmount) {
		return &ValidationError{Field: "amount", Reason: "minimum amount is 100 FCFA"}
	}
	return nil
}
