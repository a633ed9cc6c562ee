// Package discount implements the pluggable cart discount strategies.
//
// A Spec is a named strategy plus its parameter. It is stored on the cart and
// re-evaluated against the live subtotal on every total computation, so it is
// never persisted as a pre-applied amount.
package discount

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Kind enumerates the supported discount strategies.
type Kind string

const (
	// KindNone applies no discount.
	KindNone Kind = "none"
	// KindPercentage reduces the subtotal by a percentage (0 < p ≤ 100).
	KindPercentage Kind = "percentage"
	// KindFixed subtracts a fixed amount, floored at zero.
	KindFixed Kind = "fixed"
)

// ErrUnknownStrategy is returned when a strategy name is not recognized.
var ErrUnknownStrategy = errors.New("unknown discount strategy")

var hundred = decimal.NewFromInt(100)

// Spec is a discount strategy selection with its parameter.
// The zero value behaves like None.
type Spec struct {
	Kind  Kind            `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// None returns the identity discount spec.
func None() Spec {
	return Spec{Kind: KindNone}
}

// Parse selects a strategy by name and validates its parameter.
// Percentage requires 0 < value ≤ 100; fixed requires value ≥ 0.
func Parse(name string, value decimal.Decimal) (Spec, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(name))) {
	case KindNone, "":
		return None(), nil
	case KindPercentage:
		if !value.IsPositive() || value.GreaterThan(hundred) {
			return Spec{}, errors.New("discount percentage must be between 0 and 100")
		}
		return Spec{Kind: KindPercentage, Value: value}, nil
	case KindFixed:
		if value.IsNegative() {
			return Spec{}, errors.New("discount amount cannot be negative")
		}
		return Spec{Kind: KindFixed, Value: value}, nil
	default:
		return Spec{}, errors.Wrapf(ErrUnknownStrategy, "%q", name)
	}
}

// Apply computes the discounted total for the given subtotal.
// Percentage results are rounded half-up to currency precision; fixed
// amounts exceeding the subtotal clamp the total at zero.
func (s Spec) Apply(subtotal decimal.Decimal) decimal.Decimal {
	switch s.Kind {
	case KindPercentage:
		total := subtotal.Mul(hundred.Sub(s.Value)).Div(hundred)
		return total.Round(2)
	case KindFixed:
		total := subtotal.Sub(s.Value)
		if total.IsNegative() {
			return decimal.Zero
		}
		return total.Round(2)
	default:
		return subtotal
	}
}

// IsZero reports whether the spec is the identity (no discount).
func (s Spec) IsZero() bool {
	return s.Kind == "" || s.Kind == KindNone
}
