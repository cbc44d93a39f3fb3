package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusText(t *testing.T) {
	tests := []struct {
		status Status
		lang   string
		want   string
	}{
		{StatusProcessing, "en", "Processing"},
		{StatusProcessing, "fr", "En cours"},
		{StatusDispatched, "fr", "Expédié"},
		{StatusDelivered, "en", "Delivered"},
		{StatusCancelled, "fr", "Annulé"},
		{Status("unknown"), "en", "unknown"},
		{Status("unknown"), "fr", "unknown"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status)+"_"+tt.lang, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Text(tt.lang))
		})
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusProcessing.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("shipped").Valid())
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, MethodCashOnDelivery.Valid())
	assert.True(t, MethodMTNMoMo.Valid())
	assert.True(t, MethodOrangeMoney.Valid())
	assert.False(t, PaymentMethod("visa").Valid())
}
