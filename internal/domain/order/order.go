// Package order defines completed orders and their append-only store.
package order

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates the accepted payment options.
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "Credit Card"
	PaymentPayPal     PaymentMethod = "PayPal"
	PaymentApplePay   PaymentMethod = "Apple Pay"
	PaymentGooglePay  PaymentMethod = "Google Pay"
)

// PaymentMethods lists every accepted payment method in a stable order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCreditCard, PaymentPayPal, PaymentApplePay, PaymentGooglePay}
}

// ErrUnsupportedPaymentMethod is returned when a payment method name does not
// match the enumeration.
var ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")

// ParsePaymentMethod matches a payment method case-insensitively.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for _, pm := range PaymentMethods() {
		if strings.EqualFold(string(pm), strings.TrimSpace(s)) {
			return pm, nil
		}
	}
	return "", errors.Wrapf(ErrUnsupportedPaymentMethod, "%q", s)
}

// StatusCompleted is the terminal status stamped on orders at creation.
// Status transitions, if any, happen outside this core.
const StatusCompleted = "completed"

// Line is one purchased item with its unit price frozen at checkout.
type Line struct {
	FurnitureID string          `json:"furniture_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Order is an immutable record of a completed checkout.
type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Lines         []Line          `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Store is the append-only order record. Append must reject an already-used
// id: a collision indicates a broken invariant, not a user error.
type Store interface {
	Append(o *Order) error
	FindByID(id string) (*Order, error)
	FindByUser(userID string) ([]*Order, error)
}
