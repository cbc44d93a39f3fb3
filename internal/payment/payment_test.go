package payment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instant() Option {
	return WithDelay(0)
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"699123456", true},
		{"237699123456", true},
		{"67891234", true},
		{"12345", false},
		{"", false},
		{"+237699123456", false},
		{"69912345678901", false},
		{"6991234ab", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPhone(tt.phone))
		})
	}
}

func TestMTN_RejectsBadPhone(t *testing.T) {
	p := NewMTN(instant())

	res, err := p.Process(context.Background(), Request{
		Amount: decimal.NewFromInt(5000),
		Phone:  "12345",
	})

	require.Nil(t, res)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "phone", verr.Field)
}

func TestMTN_RejectsBelowMinimumAmount(t *testing.T) {
	p := NewMTN(instant())

	res, err := p.Process(context.Background(), Request{
		Amount: decimal.NewFromInt(99),
		Phone:  "699123456",
	})

	require.Nil(t, res)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount", verr.Field)
}

func TestMTN_SuccessCarriesPrefixedReference(t *testing.T) {
	p := NewMTN(instant(), WithRand(func() float64 { return 0 }))

	res, err := p.Process(context.Background(), Request{
		Amount: decimal.NewFromInt(5000),
		Phone:  "699123456",
	})

	require.NoError(t, err)
	assert.True(t, len(res.TransactionID) > 3)
	assert.Equal(t, "MTN", res.TransactionID[:3])
}

func TestMTN_DeclineIsRetryable(t *testing.T) {
	p := NewMTN(instant(), WithRand(func() float64 { return 0.95 }))

	res, err := p.Process(context.Background(), Request{
		Amount: decimal.NewFromInt(5000),
		Phone:  "699123456",
	})

	require.Nil(t, res)
	assert.ErrorIs(t, err, ErrDeclined)
}

func TestOrange_Prefix(t *testing.T) {
	p := NewOrange(instant(), WithRand(func() float64 { return 0 }))

	res, err := p.Process(context.Background(), Request{
		Amount: decimal.NewFromInt(1000),
		Phone:  "699123456",
	})

	require.NoError(t, err)
	assert.Equal(t, "ORA", res.TransactionID[:3])
}

func TestCOD_AlwaysSucceeds(t *testing.T) {
	// COD skips validation entirely, so even a bogus phone and zero amount
	// must succeed.
	p := NewCOD(instant())

	for range 20 {
		res, err := p.Process(context.Background(), Request{})
		require.NoError(t, err)
		assert.Equal(t, "COD", res.TransactionID[:3])
	}
}

func TestSuccessRates(t *testing.T) {
	// Drive the draw with a deterministic ramp to check the threshold,
	// not statistics: draws below the rate succeed, draws at or above fail.
	tests := []struct {
		name string
		mk   func(...Option) *Simulator
		rate float64
	}{
		{"mtn 90 percent", NewMTN, 0.90},
		{"orange 85 percent", NewOrange, 0.85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const trials = 1000
			successes := 0
			for i := range trials {
				draw := float64(i) / trials
				p := tt.mk(instant(), WithRand(func() float64 { return draw }))
				_, err := p.Process(context.Background(), Request{
					Amount: decimal.NewFromInt(5000),
					Phone:  "699123456",
				})
				if err == nil {
					successes++
				}
			}
			assert.InDelta(t, tt.rate, float64(successes)/trials, 0.005)
		})
	}
}

func TestProcess_HonoursContextCancellation(t *testing.T) {
	p := NewMTN(WithDelay(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Process(ctx, Request{
		Amount: decimal.NewFromInt(5000),
		Phone:  "699123456",
	})

	assert.ErrorIs(t, err, context.Canceled)
}
