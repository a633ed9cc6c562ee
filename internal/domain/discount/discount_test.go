package discount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		value    decimal.Decimal
		want     Kind
		wantErr  bool
	}{
		{name: "none", strategy: "none", want: KindNone},
		{name: "empty name is none", strategy: "", want: KindNone},
		{name: "percentage", strategy: "percentage", value: decimal.NewFromInt(20), want: KindPercentage},
		{name: "percentage case-insensitive", strategy: " Percentage ", value: decimal.NewFromInt(5), want: KindPercentage},
		{name: "fixed", strategy: "fixed", value: decimal.NewFromInt(10), want: KindFixed},
		{name: "fixed zero", strategy: "fixed", value: decimal.Zero, want: KindFixed},
		{name: "percentage zero rejected", strategy: "percentage", value: decimal.Zero, wantErr: true},
		{name: "percentage over 100 rejected", strategy: "percentage", value: decimal.NewFromInt(101), wantErr: true},
		{name: "fixed negative rejected", strategy: "fixed", value: decimal.NewFromInt(-1), wantErr: true},
		{name: "unknown strategy", strategy: "bogo", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(tt.strategy, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec.Kind)
		})
	}
}

func TestParse_UnknownStrategySentinel(t *testing.T) {
	_, err := Parse("bogo", decimal.Zero)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestSpec_Apply(t *testing.T) {
	tests := []struct {
		name     string
		spec     Spec
		subtotal decimal.Decimal
		want     decimal.Decimal
	}{
		{
			name:     "none is identity",
			spec:     None(),
			subtotal: decimal.NewFromInt(100),
			want:     decimal.NewFromInt(100),
		},
		{
			name:     "20 percent off 100",
			spec:     Spec{Kind: KindPercentage, Value: decimal.NewFromInt(20)},
			subtotal: decimal.NewFromInt(100),
			want:     decimal.NewFromInt(80),
		},
		{
			name:     "percentage rounds to cents",
			spec:     Spec{Kind: KindPercentage, Value: decimal.NewFromInt(33)},
			subtotal: decimal.NewFromFloat(9.99),
			want:     decimal.NewFromFloat(6.69),
		},
		{
			name:     "fixed 30 off 100",
			spec:     Spec{Kind: KindFixed, Value: decimal.NewFromInt(30)},
			subtotal: decimal.NewFromInt(100),
			want:     decimal.NewFromInt(70),
		},
		{
			name:     "fixed exceeding subtotal clamps at zero",
			spec:     Spec{Kind: KindFixed, Value: decimal.NewFromInt(30)},
			subtotal: decimal.NewFromInt(25),
			want:     decimal.Zero,
		},
		{
			name:     "zero value spec is identity",
			spec:     Spec{},
			subtotal: decimal.NewFromFloat(49.5),
			want:     decimal.NewFromFloat(49.5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.spec.Apply(tt.subtotal)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestSpec_IsZero(t *testing.T) {
	assert.True(t, None().IsZero())
	assert.True(t, Spec{}.IsZero())
	assert.False(t, Spec{Kind: KindFixed, Value: decimal.NewFromInt(5)}.IsZero())
}
