package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    PaymentMethod
		wantErr bool
	}{
		{in: "Credit Card", want: PaymentCreditCard},
		{in: "credit card", want: PaymentCreditCard},
		{in: "  PayPal  ", want: PaymentPayPal},
		{in: "APPLE PAY", want: PaymentApplePay},
		{in: "google pay", want: PaymentGooglePay},
		{in: "cash", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePaymentMethod(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedPaymentMethod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
