package payment

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// Simulator implements Provider with a fixed processing delay and a
// Bernoulli success draw. Cash on delivery is a Simulator with SuccessRate 1
// and no validation.
type Simulator struct {
	name        string
	prefix      string
	delay       time.Duration
	successRate float64
	validated   bool

	// randFloat and now are injectable for deterministic tests.
	randFloat func() float64
	now       func() time.Time
}

var _ Provider = (*Simulator)(nil)

// Option tunes a Simulator.
type Option func(*Simulator)

// WithDelay overrides the simulated processing delay.
func WithDelay(d time.Duration) Option {
	return func(s *Simulator) { s.delay = d }
}

// WithRand overrides the random source used for the success draw.
func WithRand(f func() float64) Option {
	return func(s *Simulator) { s.randFloat = f }
}

// WithClock overrides the time source used for transaction references.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// WithSuccessRate overrides the probability of a successful charge.
func WithSuccessRate(rate float64) Option {
	return func(s *Simulator) { s.successRate = rate }
}

// NewMTN returns the MTN Mobile Money simulator: 3s delay, 90% success.
func NewMTN(opts ...Option) *Simulator {
	return newSimulator("mtn_momo", "MTN", 3*time.Second, 0.90, true, opts)
}

// NewOrange returns the Orange Money simulator: 2.5s delay, 85% success.
func NewOrange(opts ...Option) *Simulator {
	return newSimulator("orange_money", "ORA", 2500*time.Millisecond, 0.85, true, opts)
}

// NewCOD returns the cash-on-delivery processor: 1.5s delay, always
// succeeds, no phone or amount validation.
func NewCOD(opts ...Option) *Simulator {
	return newSimulator("cod", "COD", 1500*time.Millisecond, 1, false, opts)
}

func newSimulator(name, prefix string, delay time.Duration, rate float64, validated bool, opts []Option) *Simulator {
	s := &Simulator{
		name:        name,
		prefix:      prefix,
		delay:       delay,
		successRate: rate,
		validated:   validated,
		randFloat:   rand.Float64,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the provider identifier.
func (s *Simulator) Name() string {
	return s.name
}

// Process validates the request (except for COD), waits out the simulated
// network delay, then draws the outcome. Validation errors return before the
// delay starts.
func (s *Simulator) Process(ctx context.Context, req Request) (*Result, error) {
	if s.validated {
		if err := validate(req); err != nil {
			return nil, err
		}
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if s.successRate < 1 && s.randFloat() >= s.successRate {
		return nil, ErrDeclined
	}

	return &Result{TransactionID: s.reference()}, nil
}

// reference builds a synthetic transaction id from the provider prefix, the
// current unix-milli timestamp, and a random base36 suffix, uppercased.
func (s *Simulator) reference() string {
	suffix := strconv.FormatUint(rand.Uint64(), 36)
	if len(suffix) > 9 {
		suffix = suffix[:9]
	}
	return strings.ToUpper(s.prefix + strconv.FormatInt(s.now().UnixMilli(), 10) + suffix)
}
