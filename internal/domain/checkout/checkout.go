// Package checkout implements the atomic transition from cart contents to a
// committed order with inventory adjustment.
package checkout

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/oakhaus/furnish/internal/domain/cart"
	"github.com/oakhaus/furnish/internal/domain/catalog"
	"github.com/oakhaus/furnish/internal/domain/order"
)

// ErrEmptyCart is returned when a checkout is attempted with no cart entries.
var ErrEmptyCart = errors.New("cart is empty")

// Service coordinates stock validation, inventory commit, order creation, and
// cart clearing for a checkout attempt.
type Service struct {
	catalog *catalog.Catalog
	carts   *cart.Manager
	orders  order.Store
	now     func() time.Time
	newID   func() string
}

// NewService creates a checkout Service with the required collaborators.
func NewService(c *catalog.Catalog, carts *cart.Manager, orders order.Store) *Service {
	return &Service{
		catalog: c,
		carts:   carts,
		orders:  orders,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Checkout runs the pipeline for one user: validate and decrement stock in a
// single critical section, snapshot unit prices and the post-discount total
// into a new order, append it to the store, and finally clear the cart. Any
// failure before the order is appended rolls the inventory back, so the
// caller observes either the full effect or none of it.
//
// Payment processing is mocked: parsing the payment method against the
// enumeration is the only payment validation performed.
func (s *Service) Checkout(userID, paymentMethod string) (*order.Order, error) {
	pm, err := order.ParsePaymentMethod(paymentMethod)
	if err != nil {
		return nil, err
	}

	entries := s.carts.Entries(userID)
	if len(entries) == 0 {
		return nil, ErrEmptyCart
	}

	// The discounted total is computed against live catalog prices before the
	// decrement; Reserve stamps the same prices, so the order lines and total
	// agree.
	total := s.carts.Total(userID)

	req := make([]catalog.ReserveLine, len(entries))
	for i, e := range entries {
		req[i] = catalog.ReserveLine{ID: e.FurnitureID, Quantity: e.Quantity}
	}

	committed, err := s.catalog.Reserve(req)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, len(committed))
	for i, l := range committed {
		lines[i] = order.Line{FurnitureID: l.ID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}

	o := &order.Order{
		ID:            s.newID(),
		UserID:        userID,
		Lines:         lines,
		Total:         total,
		PaymentMethod: pm,
		Status:        order.StatusCompleted,
		CreatedAt:     s.now(),
	}

	if err := s.orders.Append(o); err != nil {
		// Roll the decrement back so a failed append leaves no partial state.
		s.catalog.Release(committed)
		return nil, errors.Wrap(err, "append order")
	}

	// The cart is cleared only after the order exists.
	s.carts.Clear(userID)

	return o, nil
}
